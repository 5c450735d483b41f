package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/leadbot/core/bootstrap"
	corecmd "github.com/m3rciful/leadbot/core/cmd"
	coredatabase "github.com/m3rciful/leadbot/core/database"
	"github.com/m3rciful/leadbot/core/logger"
	coretelegram "github.com/m3rciful/leadbot/core/telegram"
	"github.com/m3rciful/leadbot/core/telegram/router"
	"github.com/m3rciful/leadbot/internal/flow"
	"github.com/m3rciful/leadbot/internal/lead"
	"github.com/m3rciful/leadbot/internal/storage/postgres"
	sheetstore "github.com/m3rciful/leadbot/internal/storage/sheets"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const janitorInterval = 0 // 0 lets the janitor pick its default tick

// App holds the wired lead capture bot.
type App struct {
	cfg *Config
	db  *sqlx.DB

	service    *lead.Service
	sessions   *flow.Sessions
	controller *flow.Controller
	registry   *coretelegram.Registry

	prompter *botPrompter
	notifier *botNotifier

	health      *healthServer
	stopJanitor context.CancelFunc
}

// New bootstraps infrastructure and wires the dialogue pipeline.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	variant, err := flow.VariantByName(cfg.Flow.Variant)
	if err != nil {
		return nil, fmt.Errorf("app: %w: %q", err, cfg.Flow.Variant)
	}

	var dbCfg *coredatabase.Config
	if cfg.Storage.Backend == BackendPostgres {
		dbCfg = &cfg.Database
	}
	boot, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: dbCfg,
	})
	if err != nil {
		return nil, err
	}

	var store lead.Store
	switch cfg.Storage.Backend {
	case BackendPostgres:
		store = postgres.NewStore(boot.DB)
	case BackendSheets:
		store, err = sheetstore.NewStore(context.Background(), cfg.Sheets, variant.Columns)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("app: unsupported storage backend %q", cfg.Storage.Backend)
	}

	notifier := &botNotifier{}
	service := lead.NewService(store, notifier, cfg.Telegram.AdminID, variant.Columns)

	sessions := flow.NewSessions(cfg.Flow.SessionTTL())
	prompter := &botPrompter{}
	controller := flow.NewController(variant, sessions, prompter, leadSink{svc: service})

	registry, err := buildRegistry(controller, service)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		db:         boot.DB,
		service:    service,
		sessions:   sessions,
		controller: controller,
		registry:   registry,
		prompter:   prompter,
		notifier:   notifier,
	}

	logger.L.With("component", "app").Info("app wired",
		slog.String("event", "wired"),
		slog.String("backend", cfg.Storage.Backend),
		slog.String("variant", variant.Name),
	)
	return a, nil
}

// TelegramRunOptions assembles the bot runtime options.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()
	reg := a.registry

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
		OnAdminReject: func(c tele.Context) error {
			return nil
		},
	})
	routes = append(routes, router.TextRoute(conversation{ctrl: a.controller}, reg, router.TextOptions{}))
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	a.prompter.bind(rt.Bot, rt.Dispatcher)
	a.notifier.bind(rt.Bot)

	a.health = startHealth(a.cfg.Health.Listen)

	janitorCtx, cancel := context.WithCancel(context.Background())
	a.stopJanitor = cancel
	go a.sessions.Janitor(janitorCtx, janitorInterval)

	return nil
}

func (a *App) onStop(ctx context.Context, rt coretelegram.Runtime) error {
	if a.stopJanitor != nil {
		a.stopJanitor()
	}
	a.health.shutdown(ctx)
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.DB.Warn("db close failed",
				slog.String("event", "close"),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

// Bootstrap adapts New to the generic runner contract.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	return New(cfg)
}
