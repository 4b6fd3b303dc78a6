package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/retrorevive/internal/client/restore"
)

// Download writes the photo of a saved restoration (or, with an empty id,
// of the current one) to dest. A directory dest receives the file under its
// original name. Existing files are never overwritten.
func (a *App) Download(ctx context.Context, id, dest string) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}

	var (
		filename string
		data     []byte
		err      error
	)
	if id == "" {
		filename, data, err = a.workflow.Original()
	} else {
		filename, data, err = a.savedOriginal(ctx, id)
	}
	if err != nil {
		return a.notifyError(ctx, "Download failed", err)
	}

	path, err := writeNewFile(dest, filename, data)
	if err != nil {
		return a.notifyError(ctx, "Download failed", err)
	}

	if id == "" {
		a.notifySuccess("Image downloaded successfully!")
	} else {
		a.notifySuccess("Downloaded " + filename)
	}
	printlnFn("Written to " + path)
	return nil
}

func (a *App) savedOriginal(ctx context.Context, id string) (string, []byte, error) {
	it, err := a.gallery.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	_, data, err := restore.DecodeDataURL(it.OriginalURL)
	if err != nil {
		return "", nil, fmt.Errorf("restoration %s: %w", id, err)
	}
	return it.Filename, data, nil
}

// writeNewFile creates dest (or dest/filename when dest is a directory) and
// writes data to it.
func writeNewFile(dest, filename string, data []byte) (string, error) {
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, filepath.Base(filename))
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dest, nil
}
