package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/retrorevive/internal/client/restore"
)

// Restore selects the image at path and runs the restoration, printing each
// stage as it starts.
func (a *App) Restore(ctx context.Context, path string) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	a.route = RouteRestore

	if err := a.workflow.Select(path); err != nil {
		return a.notifyError(ctx, "Upload failed", err)
	}

	res, err := a.workflow.Run(ctx, func(s restore.Stage) {
		printlnFn(fmt.Sprintf("[%d/%d] %s", s.Index, s.Total, s.Name))
	})
	if err != nil {
		return a.notifyError(ctx, "Restoration failed", err)
	}

	a.notifySuccess("Image restored successfully!")
	printlnFn("Restored image: " + res.RestoredURL)
	printlnFn("Use 'save' to keep it in your gallery or 'reset' to start over.")
	return nil
}

// Save stores the finished restoration in the gallery for the current user.
func (a *App) Save(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	u := a.session.CurrentUser()

	rec, err := a.workflow.Save(ctx, u.ID)
	if err != nil {
		return a.notifyError(ctx, "Save failed", err)
	}
	a.notifySuccess("Image saved to your gallery!")
	printlnFn("Saved as " + rec.ID)
	return nil
}

// Reset discards the selected photo and any result.
func (a *App) Reset(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	a.workflow.Reset()
	a.route = RouteRestore
	a.renderWorkflow()
	return nil
}

func (a *App) renderWorkflow() {
	s := a.workflow.Snapshot()
	switch {
	case s.Running:
		printlnFn("Restoring " + s.Filename + "...")
	case s.Restored:
		printlnFn(fmt.Sprintf("%s is restored. Use 'save' or 'reset'.", s.Filename))
	case s.Selected:
		printlnFn(s.Filename + " is selected.")
	default:
		printlnFn("Upload your photo with 'restore <file>'. JPG, PNG and other image formats are supported.")
	}
}
