package cli

import (
	"bufio"
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/config"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/directory"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/gateway"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/localdb"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/services"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// App is the station's application context. Everything the REPL commands
// need hangs off it; there is no package-level state.
type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *localdb.Store
	gw      gateway.Gateway
	session *services.SessionService
	queue   *services.QueueService
	intake  *services.IntakeService
	disp    *services.Dispatcher

	reader  *bufio.Reader
	guardID string

	resident *api.Resident
	admin    bool
	mode     atomic.Value // Mode
	stale    atomic.Bool
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := localdb.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing local database", "error", err)
		return nil, err
	}

	gw := gateway.NewRestGateway(c.ServerEndpointAddr)
	dir := directory.New(gw)

	queueService := services.NewQueueService(store.Queue, gw, logger)

	guardID := c.GuardID
	if guardID == "" {
		guardID = common.DefaultGuardID
	}

	a := &App{
		config:  c,
		logger:  logger,
		store:   store,
		gw:      gw,
		session: services.NewSessionService(gw, store.Session, logger),
		queue:   queueService,
		intake:  services.NewIntakeService(dir, gw, queueService, logger),
		reader:  bufio.NewReader(os.Stdin),
		guardID: guardID,
	}
	a.mode.Store(ModeOffline)

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	a.disp = services.NewDispatcher(rdb, services.DispatcherHooks{
		Refresh: func(context.Context) { a.stale.Store(true) },
		Notify:  a.notify,
		ResidentFlatID: func() string {
			if a.resident == nil {
				return ""
			}
			return a.resident.FlatID
		},
	}, logger)

	return a, nil
}

func (a *App) Mode() Mode {
	return a.mode.Load().(Mode)
}

func (a *App) isOnline() bool {
	return a.Mode() == ModeOnline
}

func (a *App) isLoggedIn() bool {
	return a.resident != nil
}

func (a *App) isAdmin() bool {
	return a.admin
}

// setMode records a connectivity flip. Coming back online drains the
// offline queue in submission order.
func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.Mode() == mode {
		return
	}
	a.mode.Store(mode)
	printlnFn("Switched to " + string(mode) + " mode")

	if mode == ModeOnline {
		drained, err := a.queue.Drain(ctx)
		if err != nil {
			a.logger.Warn(ctx, "queue drain interrupted", "drained", drained, "error", err)
			return
		}
		if drained > 0 {
			printlnFn("Delivered", drained, "queued submission(s)")
		}
	}
}

// StartOnlineStatusWatcher probes the server on a fixed interval and flips
// the station mode accordingly. It blocks until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.gw.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) notify(n services.Notification) {
	switch n.Kind {
	case services.NotifyNewRequest:
		printlnFn("\n* Visitor waiting at the gate for your flat:", n.Request.VisitorName)
	case services.NotifyStatusChange:
		printlnFn("\n* Request", n.Request.ID, "was", n.Request.Status)
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.admin {
		s = "admin "
	} else if a.resident != nil {
		s = a.resident.Phone + " "
	}
	s = s + string(a.Mode())
	if a.stale.Load() {
		s = s + " *"
	}
	return "(" + s + ")"
}

// Run restores any cached session, starts the connectivity watcher and the
// change dispatcher, then hands control to the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	restored, err := a.session.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}
	if restored != nil {
		a.resident = restored
		printlnFn("Welcome back,", restored.Phone)
	}

	if err := a.gw.Ping(ctx); err == nil {
		a.mode.Store(ModeOnline)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	go a.disp.Run(ctx)

	printlnFn("Visitor gate station (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
