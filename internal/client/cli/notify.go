package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/retrorevive/internal/client/gallery"
	"github.com/dmitrijs2005/retrorevive/internal/client/restore"
	"github.com/dmitrijs2005/retrorevive/internal/client/session"
	"github.com/dmitrijs2005/retrorevive/internal/common"
)

var errLoginRequired = errors.New("login required")

// knownErrors maps errors a user can cause to the message shown for them.
// Order matters: more specific errors come first.
var knownErrors = []struct {
	err error
	msg string
}{
	{errLoginRequired, "Please log in first"},
	{session.ErrInvalidCredentials, "Invalid email or password"},
	{session.ErrInvalidInput, "Please fill in all required fields"},
	{session.ErrEmailTaken, "An account with this email already exists"},
	{session.ErrAuthBusy, "Another sign-in is already in progress"},
	{restore.ErrNotImage, "Please upload an image file"},
	{restore.ErrNoImage, "Select a photo first: restore <file>"},
	{restore.ErrNotRestored, "Nothing restored yet, restore a photo first"},
	{restore.ErrBusy, "A restoration is already running"},
	{restore.ErrAbandoned, "Restoration was abandoned"},
	{restore.ErrBadDataURL, "The stored photo cannot be decoded"},
	{gallery.ErrDuplicateID, "This restoration is already in your gallery"},
	{gallery.ErrInvalidRecord, "This restoration cannot be saved"},
	{common.ErrorNotFound, "No saved restoration with that id"},
	{errInputClosed, "Input cancelled"},
	{os.ErrNotExist, "File not found"},
	{os.ErrExist, "File already exists"},
	{context.Canceled, "Cancelled"},
	{context.DeadlineExceeded, "Timed out"},
}

// message returns the user-facing text for err and whether err was expected.
func message(err error) (string, bool) {
	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return k.msg, true
		}
	}
	return "Something went wrong: " + err.Error(), false
}

func (a *App) notifySuccess(msg string) {
	printlnFn("[ok] " + msg)
}

// notifyError reports err to the user, prefixed with what failed, and
// returns it. Unexpected errors are also logged.
func (a *App) notifyError(ctx context.Context, what string, err error) error {
	msg, known := message(err)
	if !known {
		a.logger.Error(ctx, what, "error", err)
	}
	if what != "" {
		msg = what + ": " + msg
	}
	printlnFn("[error] " + msg)
	return err
}
