package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
)

// urlPreview is how much of a long URL show prints.
const urlPreview = 64

// Saved lists the gallery.
func (a *App) Saved(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	a.route = RouteSaved
	return a.render(ctx)
}

func (a *App) renderGallery(ctx context.Context) error {
	items, err := a.gallery.List(ctx)
	if err != nil {
		return a.notifyError(ctx, "Loading gallery failed", err)
	}
	if len(items) == 0 {
		printlnFn("No saved images yet. Restore your first photo with 'restore <file>'.")
		return nil
	}

	printlnFn(fmt.Sprintf("%d saved restoration(s):", len(items)))
	for _, it := range items {
		printlnFn(formatRow(it))
	}
	return nil
}

func formatRow(it models.RestoredImage) string {
	date := it.UploadDate
	if t, err := it.UploadTime(); err == nil {
		date = t.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("  %s  %-24s  %s  %ds", it.ID, it.Filename, date, it.ProcessingTime)
}

// Show prints one saved restoration.
func (a *App) Show(ctx context.Context, id string) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	it, err := a.gallery.Get(ctx, id)
	if err != nil {
		return a.notifyError(ctx, "Show failed", err)
	}

	printlnFn("ID:              " + it.ID)
	printlnFn("Filename:        " + it.Filename)
	printlnFn("Uploaded:        " + it.UploadDate)
	printlnFn("Owner:           " + it.UserID)
	printlnFn(fmt.Sprintf("Processing time: %ds", it.ProcessingTime))
	printlnFn("Original:        " + truncate(it.OriginalURL, urlPreview))
	printlnFn("Restored:        " + truncate(it.RestoredURL, urlPreview))
	return nil
}

// Delete removes one saved restoration. Unknown ids are reported, not
// treated as failures of the store.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	if _, err := a.gallery.Get(ctx, id); err != nil {
		return a.notifyError(ctx, "Delete failed", err)
	}
	if err := a.gallery.Delete(ctx, id); err != nil {
		return a.notifyError(ctx, "Delete failed", err)
	}
	a.notifySuccess("Image deleted successfully")
	return nil
}

// Clear removes every saved restoration after confirmation.
func (a *App) Clear(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	ok, err := Confirm(a.reader, "Delete all saved restorations?", a.out)
	if err != nil {
		return a.notifyError(ctx, "Clear failed", err)
	}
	if !ok {
		printlnFn("Nothing deleted")
		return nil
	}
	if err := a.gallery.Clear(ctx); err != nil {
		return a.notifyError(ctx, "Clear failed", err)
	}
	a.notifySuccess("Gallery cleared")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..." + fmt.Sprintf(" (%d chars)", len(s))
}

// joinArgs rebuilds a single argument, such as a file name with spaces.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
