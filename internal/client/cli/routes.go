package cli

import (
	"context"
	"fmt"
	"strings"
)

// Route names a view of the app.
type Route string

const (
	RouteLogin    Route = "/login"
	RouteHome     Route = "/home"
	RouteFeatures Route = "/features"
	RouteRestore  Route = "/restore"
	RouteSaved    Route = "/saved"
	RouteAbout    Route = "/about"
)

// protected lists every known route; true means a session is required.
var protected = map[Route]bool{
	RouteLogin:    false,
	RouteHome:     true,
	RouteFeatures: true,
	RouteRestore:  true,
	RouteSaved:    true,
	RouteAbout:    true,
}

// ParseRoute accepts "home" or "/home". Unknown names report false.
func ParseRoute(s string) (Route, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	r := Route(s)
	_, ok := protected[r]
	return r, ok
}

// resolve returns the route actually shown for a request to r. Signed-in
// users are sent from /login to /home, signed-out users from any protected
// route to /login, and unknown routes land on the default for the state.
func resolve(r Route, signedIn bool) Route {
	needsAuth, known := protected[r]
	switch {
	case !known && signedIn:
		return RouteHome
	case !known:
		return RouteLogin
	case r == RouteLogin && signedIn:
		return RouteHome
	case needsAuth && !signedIn:
		return RouteLogin
	}
	return r
}

// Go navigates to the named route, applying the redirects of resolve, and
// renders the resulting view.
func (a *App) Go(ctx context.Context, name string) error {
	r, _ := ParseRoute(name)
	a.route = resolve(r, a.isLoggedIn())
	return a.render(ctx)
}

func (a *App) render(ctx context.Context) error {
	switch a.route {
	case RouteLogin:
		printlnFn("== Login ==")
		printlnFn("Welcome back to the future. Use 'login' to sign in or 'signup' to join.")
	case RouteHome:
		u := a.session.CurrentUser()
		printlnFn("== Home ==")
		printlnFn(fmt.Sprintf("Hello, %s. Bring your old photos back to life.", u.Name))
		printlnFn("Start with 'restore <file>', browse 'saved', or read 'go features'.")
	case RouteFeatures:
		printlnFn("== Features ==")
		for _, f := range features {
			printlnFn("  - " + f)
		}
	case RouteRestore:
		printlnFn("== Restore ==")
		a.renderWorkflow()
	case RouteSaved:
		printlnFn("== Saved ==")
		return a.renderGallery(ctx)
	case RouteAbout:
		printlnFn("== About ==")
		printlnFn("Retro Revive restores damaged and faded photographs.")
		printlnFn("Restorations are kept on this device only.")
	}
	return nil
}

var features = []string{
	"Scratch and tear removal",
	"Color restoration for faded prints",
	"Face enhancement",
	"Noise and grain reduction",
	"Sharpening of blurry details",
	"Local gallery of your restorations",
}
