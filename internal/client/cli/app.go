package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/retrorevive/internal/client/config"
	"github.com/dmitrijs2005/retrorevive/internal/client/device"
	"github.com/dmitrijs2005/retrorevive/internal/client/gallery"
	"github.com/dmitrijs2005/retrorevive/internal/client/restore"
	"github.com/dmitrijs2005/retrorevive/internal/client/session"
	"github.com/dmitrijs2005/retrorevive/internal/logging"
)

// App owns the client components for one run of the program.
type App struct {
	logger   logging.Logger
	session  *session.Manager
	gallery  *gallery.Store
	workflow *restore.Workflow
	closer   io.Closer

	route  Route
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the device database at cfg.DBPath and builds the session
// manager, gallery and restoration workflow on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := device.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open device storage: %w", err)
	}

	sm := session.NewManager(repos.Users, logger, session.WithDelay(cfg.AuthDelay))
	gs := gallery.NewLocal(repos.Storage, logger)
	wf := restore.New(gs, logger, restore.WithStageDelay(cfg.StageDelay))

	a := newApp(sm, gs, wf, logger, os.Stdin, os.Stdout)
	a.closer = repos
	return a, nil
}

func newApp(sm *session.Manager, gs *gallery.Store, wf *restore.Workflow, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		logger:   logger,
		session:  sm,
		gallery:  gs,
		workflow: wf,
		route:    RouteLogin,
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run shows the entry view and serves commands until EOF, exit or ctx is
// done. The device database is closed on return.
func (a *App) Run(ctx context.Context) error {
	defer a.close(ctx)

	printlnFn("Retro Revive (type 'help' for commands)")
	_ = a.Go(ctx, string(RouteHome))

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.closer == nil {
		return
	}
	if err := a.closer.Close(); err != nil {
		a.logger.Error(ctx, "close device storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

// status is shown in the prompt: the current route and, when signed in, the
// user's email.
func (a *App) status() string {
	if u := a.session.CurrentUser(); u != nil {
		return fmt.Sprintf("%s (%s)", a.route, u.Email)
	}
	return string(a.route)
}
