package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/retrorevive/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for email and password and signs in. On success the user
// lands on /home.
func (a *App) Login(ctx context.Context) error {
	if u := a.session.CurrentUser(); u != nil {
		printlnFn(fmt.Sprintf("Already logged in as %s", u.Email))
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.notifyError(ctx, "Login failed", err)
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return a.notifyError(ctx, "Login failed", err)
	}
	defer common.WipeByteArray(password)

	printlnFn("Logging in...")
	if _, err := a.session.Login(ctx, email, password); err != nil {
		return a.notifyError(ctx, "Login failed", err)
	}

	a.notifySuccess("Welcome back to Retro Revive!")
	return a.Go(ctx, string(RouteHome))
}

// Signup prompts for name, email and password, creates the account and
// signs in with it.
func (a *App) Signup(ctx context.Context) error {
	if u := a.session.CurrentUser(); u != nil {
		printlnFn(fmt.Sprintf("Already logged in as %s, use 'logout' first", u.Email))
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return a.notifyError(ctx, "Signup failed", err)
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.notifyError(ctx, "Signup failed", err)
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return a.notifyError(ctx, "Signup failed", err)
	}
	defer common.WipeByteArray(password)

	printlnFn("Creating account...")
	if _, err := a.session.Signup(ctx, email, password, name); err != nil {
		return a.notifyError(ctx, "Signup failed", err)
	}

	a.notifySuccess("Account created successfully!")
	return a.Go(ctx, string(RouteHome))
}

// Logout ends the session, drops any in-progress restoration and returns to
// /login. It is harmless when nobody is signed in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.workflow.Reset()
	return a.Go(ctx, string(RouteLogin))
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> id=%s", u.Name, u.Email, u.ID))
	return nil
}

// requireUser reports errLoginRequired and redirects to /login when nobody
// is signed in.
func (a *App) requireUser(ctx context.Context) error {
	if a.isLoggedIn() {
		return nil
	}
	err := a.notifyError(ctx, "", errLoginRequired)
	_ = a.Go(ctx, string(RouteLogin))
	return err
}
