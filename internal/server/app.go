// Package server wires the directory service together: it loads the seed
// directory, builds the store and session registry, and runs the auth and
// directory endpoints until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Jan540/account-manager/internal/logging"
	"github.com/Jan540/account-manager/internal/server/auth"
	"github.com/Jan540/account-manager/internal/server/config"
	"github.com/Jan540/account-manager/internal/server/directory"
	"github.com/Jan540/account-manager/internal/server/events"
	"github.com/Jan540/account-manager/internal/server/seed"
	"github.com/Jan540/account-manager/internal/server/sessions"
	"github.com/Jan540/account-manager/internal/server/tcp"
	"github.com/Jan540/account-manager/internal/server/udp"
)

// seams for tests
var (
	dialAMQP     = events.DialAMQP
	openPostgres = seed.OpenPostgres
	dialS3       = seed.DialS3
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	store      *directory.Store
	sessions   *sessions.Registry
	dispatcher *events.Dispatcher
	publisher  *events.AMQPPublisher
	udp        *udp.UDPServer
	tcp        *tcp.TCPServer
}

// NewApp loads the seed directory and builds every component. A nil logger
// means JSON logs on stdout.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	if logger == nil {
		logger = logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	}

	data, err := loadSeed(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("seed load error: %w", err)
	}

	observers := events.Fanout{events.NewLogObserver(logger)}

	var publisher *events.AMQPPublisher
	if c.AMQPURL != "" {
		publisher, err = dialAMQP(c.AMQPURL, c.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("amqp init error: %w", err)
		}
		observers = append(observers, publisher)
	}

	dispatcher := events.NewDispatcher(observers, c.EventBufferSize, logger)

	store, err := directory.New(data, dispatcher)
	if err != nil {
		dispatcher.Close()
		if publisher != nil {
			publisher.Close()
		}
		return nil, fmt.Errorf("directory init error: %w", err)
	}

	var issuer sessions.TokenIssuer = auth.UUIDIssuer{}
	if c.SecretKey != "" {
		issuer = auth.NewIssuer([]byte(c.SecretKey), c.TokenValidityDuration)
	}
	registry := sessions.NewRegistry(store, issuer, dispatcher, logger)

	logger.Info(ctx, "directory loaded", "users", len(data.Users), "groups", len(data.Groups), "source", c.SeedSource)

	return &App{
		config:     c,
		logger:     logger,
		store:      store,
		sessions:   registry,
		dispatcher: dispatcher,
		publisher:  publisher,
		udp:        udp.NewUDPServer(c.UDPAddr, logger, registry),
		tcp:        tcp.NewTCPServer(c.TCPAddr, logger, store),
	}, nil
}

func loadSeed(ctx context.Context, c *config.Config, logger logging.Logger) (*seed.Data, error) {
	switch c.SeedSource {
	case config.SeedSourceDir, "":
		return seed.NewCSVLoader(seed.DirSource{Dir: c.SeedDir}).Load(ctx)

	case config.SeedSourceS3:
		src, err := dialS3(ctx, seed.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return seed.NewCSVLoader(src).Load(ctx)

	case config.SeedSourcePostgres:
		loader, err := openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := loader.Close(); err != nil {
				logger.Warn(ctx, "close seed database", "error", err)
			}
		}()
		return loader.Load(ctx)

	default:
		return nil, fmt.Errorf("unknown seed source %q", c.SeedSource)
	}
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

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "endpoint failed", "endpoint", name, "error", err)
		cancelFunc()
	}
}

// Run serves both endpoints until ctx is cancelled, a shutdown signal is
// received, or either endpoint fails. Queued events are flushed before it
// returns.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "auth", app.udp)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "directory", app.tcp)
	}()

	wg.Wait()

	app.logOpenSessions(ctx)

	app.dispatcher.Close()
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Warn(ctx, "close amqp publisher", "error", err)
		}
	}
	if n := app.dispatcher.Dropped(); n > 0 {
		app.logger.Warn(ctx, "events dropped", "count", n)
	}

	app.logger.Info(ctx, "App stopped")
}

func (app *App) logOpenSessions(ctx context.Context) {
	open := app.sessions.List()
	if len(open) == 0 {
		return
	}
	logins := make([]string, 0, len(open))
	for _, s := range open {
		logins = append(logins, s.User.Login)
	}
	app.logger.Info(ctx, "sessions open at shutdown", "count", len(open), "logins", logins)
}
