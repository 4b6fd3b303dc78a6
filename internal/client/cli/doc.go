// Package cli is the interactive retrorevive client.
//
// App wires the device database, the session manager, the gallery and the
// restoration workflow, then serves a line-oriented REPL. Commands act like
// the views of the app: each one runs a single component operation and
// prints the resulting state. Every view except /login needs a signed-in
// user; see resolve for the redirect rules.
//
// Output goes through printlnFn and prompts through getSimpleText and
// getPassword so tests can replace them.
package cli
