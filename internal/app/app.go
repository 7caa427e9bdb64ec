// Package app wires configuration, logging, the correlation store, the
// checker and the HTTP API into one long-running process.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/n0t3b00k-checker/internal/api"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/checker"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/config"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/fakedata"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/logging"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/notebook"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/repositories/repomanager"
	"github.com/dmitrijs2005/n0t3b00k-checker/internal/wire"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *repomanager.Store
	checker *checker.Checker
}

// NewLogger builds the logger described by c.
func NewLogger(c *config.Config) (logging.Logger, error) {
	return logging.New(logging.Options{
		Backend: c.LogBackend,
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Output:  os.Stdout,
	})
}

// ClientFactory returns notebook clients configured from c.
func ClientFactory(c *config.Config) (checker.ClientFactory, error) {
	framing, err := wire.ParseFraming(c.Framing)
	if err != nil {
		return nil, err
	}
	return func(l logging.Logger) checker.NotebookClient {
		return notebook.NewClient(l,
			notebook.WithPort(c.ServicePort),
			notebook.WithFraming(framing),
			notebook.WithDialTimeout(c.DialTimeout),
		)
	}, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := NewLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	factory, err := ClientFactory(c)
	if err != nil {
		return nil, err
	}

	store, err := repomanager.Open(ctx, c.StoreBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	ch := checker.NewChecker(store.Users, fakedata.NewGenerator(0), factory, logger)

	return &App{config: c, logger: logger, store: store, checker: ch}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := api.NewServer(app.config.ListenAddr, app.checker, checker.Info(), app.logger,
		app.config.TaskTimeout, app.config.MaxTaskTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend, "framing", app.config.Framing)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "Closing store failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
