// Package restore runs the simulated photo restoration: select an image, walk
// a fixed sequence of timed stages, produce the stock restored image and,
// optionally, save the pair to the gallery.
//
// No image processing happens; the stages only take time.
package restore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/retrorevive/internal/client/models"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

const (
	// RestoredImageURL is the image every restoration resolves to.
	RestoredImageURL = "https://images.pexels.com/photos/1054218/pexels-photo-1054218.jpeg?auto=compress&cs=tinysrgb&w=800"

	DefaultFilename   = "restored-image.jpg"
	DefaultStageDelay = 1500 * time.Millisecond
)

// Stages are walked in order by Run.
var Stages = []string{
	"Analyzing image structure...",
	"Detecting damage patterns...",
	"Applying neural network models...",
	"Reconstructing damaged areas...",
	"Enhancing colors and contrast...",
	"Finalizing restoration...",
}

var (
	ErrNotImage    = errors.New("please upload an image file")
	ErrNoImage     = errors.New("no image selected")
	ErrNotRestored = errors.New("image has not been restored yet")
	ErrBusy        = errors.New("a restoration is already running")
	ErrAbandoned   = errors.New("restoration abandoned")
	ErrBadDataURL  = errors.New("malformed data URL")
)

// Saver persists a finished restoration. *gallery.Store implements it.
type Saver interface {
	Save(ctx context.Context, rec models.RestoredImage) error
}

// Stage is reported to the progress callback before each step.
type Stage struct {
	Index int
	Total int
	Name  string
}

// Result is the outcome of a finished Run.
type Result struct {
	OriginalURL string
	RestoredURL string
	Duration    time.Duration
}

// Snapshot is the view-facing state of a Workflow.
type Snapshot struct {
	Filename string
	Selected bool
	Running  bool
	Restored bool
}

// Workflow holds one selected image and its restoration state.
type Workflow struct {
	gallery    Saver
	logger     logging.Logger
	stageDelay time.Duration
	now        func() time.Time
	newID      func() string

	mu          sync.Mutex
	generation  uint64
	filename    string
	originalURL string
	running     bool
	result      *Result
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithStageDelay sets the wait after each stage (DefaultStageDelay by default).
func WithStageDelay(d time.Duration) Option {
	return func(w *Workflow) { w.stageDelay = d }
}

// WithClock overrides the time source for run duration and upload date.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithIDGenerator replaces the record id source (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(w *Workflow) { w.newID = fn }
}

// New returns an idle Workflow saving into gallery.
func New(gallery Saver, logger logging.Logger, opts ...Option) *Workflow {
	w := &Workflow{
		gallery:    gallery,
		logger:     logger.With("component", "restore"),
		stageDelay: DefaultStageDelay,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Select loads the image at path as the next restoration input.
func (w *Workflow) Select(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return w.SelectBytes(filepath.Base(path), data)
}

// SelectBytes uses data, named filename, as the next restoration input.
// Content that does not sniff as image/* is rejected with ErrNotImage and
// leaves the current selection in place.
func (w *Workflow) SelectBytes(filename string, data []byte) error {
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return fmt.Errorf("%w: %s is %s", ErrNotImage, filename, mime)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.filename = filename
	w.originalURL = EncodeDataURL(mime, data)
	w.result = nil
	w.running = false

	w.logger.Debug(context.Background(), "image selected", "filename", filename, "mime", mime, "bytes", len(data))
	return nil
}

// Run walks Stages, calling progress (if non-nil) before each one and
// waiting the stage delay after it. Cancelling ctx abandons the run and
// returns ctx.Err(). A Select or Reset during the run makes it return
// ErrAbandoned without a result.
func (w *Workflow) Run(ctx context.Context, progress func(Stage)) (*Result, error) {
	w.mu.Lock()
	switch {
	case w.originalURL == "":
		w.mu.Unlock()
		return nil, ErrNoImage
	case w.running:
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.running = true
	w.result = nil
	gen := w.generation
	original := w.originalURL
	w.mu.Unlock()

	start := w.now()
	for i, name := range Stages {
		if progress != nil {
			progress(Stage{Index: i + 1, Total: len(Stages), Name: name})
		}
		if err := sleep(ctx, w.stageDelay); err != nil {
			w.finish(gen, nil)
			return nil, err
		}
	}

	res := &Result{OriginalURL: original, RestoredURL: RestoredImageURL, Duration: w.now().Sub(start)}
	if !w.finish(gen, res) {
		return nil, ErrAbandoned
	}
	w.logger.Info(ctx, "restoration finished", "duration", res.Duration)
	return res, nil
}

// finish records res if the selection is still the one the run started with.
func (w *Workflow) finish(gen uint64, res *Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation != gen {
		return false
	}
	w.running = false
	w.result = res
	return true
}

// Save stores the finished restoration in the gallery under a new id and
// returns the saved record.
func (w *Workflow) Save(ctx context.Context, userID string) (*models.RestoredImage, error) {
	w.mu.Lock()
	if w.result == nil {
		w.mu.Unlock()
		return nil, ErrNotRestored
	}
	filename := w.filename
	if filename == "" {
		filename = DefaultFilename
	}
	rec := models.RestoredImage{
		ID:             w.newID(),
		OriginalURL:    w.result.OriginalURL,
		RestoredURL:    w.result.RestoredURL,
		Filename:       filename,
		UploadDate:     models.FormatUploadDate(w.now()),
		UserID:         userID,
		ProcessingTime: wholeSeconds(w.result.Duration),
	}
	w.mu.Unlock()

	if err := w.gallery.Save(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Original returns the file name and bytes of the restored image's input.
// It needs a finished run, like Save.
func (w *Workflow) Original() (string, []byte, error) {
	w.mu.Lock()
	if w.result == nil {
		w.mu.Unlock()
		return "", nil, ErrNotRestored
	}
	filename, url := w.filename, w.result.OriginalURL
	w.mu.Unlock()

	if filename == "" {
		filename = DefaultFilename
	}
	_, data, err := DecodeDataURL(url)
	if err != nil {
		return "", nil, err
	}
	return filename, data, nil
}

// Reset drops the selection and any result, abandoning a running restoration.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.generation++
	w.filename = ""
	w.originalURL = ""
	w.running = false
	w.result = nil
}

// Snapshot returns the current state for display.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Filename: w.filename,
		Selected: w.originalURL != "",
		Running:  w.running,
		Restored: w.result != nil,
	}
}

// EncodeDataURL builds a base64 data URL, as a browser FileReader does.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL splits a base64 data URL into its media type and bytes.
// Only base64 payloads are accepted.
func DecodeDataURL(u string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrBadDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrBadDataURL)
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: not base64", ErrBadDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBadDataURL, err)
	}
	return mime, data, nil
}

// wholeSeconds rounds d up to whole seconds, never below one.
func wholeSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
