package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Go(_ context.Context, route string) error { return f.record("go " + route) }
func (f *fakeExec) Signup(context.Context) error { return f.record("signup") }
func (f *fakeExec) WhoAmI(context.Context) error { return f.record("whoami") }
func (f *fakeExec) Restore(_ context.Context, p string) error { return f.record("restore " + p) }
func (f *fakeExec) Save(context.Context) error { return f.record("save") }
func (f *fakeExec) Reset(context.Context) error { return f.record("reset") }
func (f *fakeExec) Saved(context.Context) error { return f.record("saved") }
func (f *fakeExec) Show(_ context.Context, id string) error { return f.record("show " + id) }
func (f *fakeExec) Delete(_ context.Context, id string) error { return f.record("delete " + id) }
func (f *fakeExec) Clear(context.Context) error { return f.record("clear") }
func (f *fakeExec) Download(_ context.Context, id, dest string) error {
	return f.record("download " + id + "|" + dest)
}

func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}

func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"go saved",
		"restore my old photo.png",
		"save",
		"list",
		"show r1",
		"rm r1",
		"download out.png",
		"download r2 my photos",
		"clear",
		"reset",
		"whoami",
		"logout",
		"foobar",
		"exit",
		"saved",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "/home" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login",
		"go saved",
		"restore my old photo.png",
		"save",
		"saved",
		"show r1",
		"delete r1",
		"download |out.png",
		"download r2|my photos",
		"clear",
		"reset",
		"whoami",
		"logout",
	}, exec.calls)

	assert.Contains(t, *out, helpSignedOut)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "rr /home> ")
}

func TestRunREPL_UsageWithoutArguments(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" },
		bufio.NewReader(strings.NewReader("go\nrestore\nshow\ndelete\ndownload\nquit\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: go <route>")
	assert.Contains(t, *out, "Usage: restore <file>")
	assert.Contains(t, *out, "Usage: show <id>")
	assert.Contains(t, *out, "Usage: delete <id>")
	assert.Contains(t, *out, "Usage: download [<id>] <dest>")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("login\n")))
	assert.Empty(t, exec.calls)
}
