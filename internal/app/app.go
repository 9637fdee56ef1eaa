package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/curalink/curalink-backend/internal/data/db"
	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
	"github.com/curalink/curalink-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Hub      *realtime.Hub

	cancel context.CancelFunc
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := realtime.NewHub(log)
	clientset := wireClients(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := serviceset.Forum.SeedCategories(context.Background()); err != nil {
		log.Warn("Forum category seed failed", "error", err)
	}

	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Clients:  clientset,
		Services: serviceset,
		Hub:      hub,
	}, nil
}

// Start begins the background work: forwarding bus events into the local
// SSE hub. Safe to call once; Close stops it.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Clients.Bus.StartForwarder(ctx, func(m realtime.Message) {
		a.Hub.Broadcast(m)
	}); err != nil {
		a.Log.Warn("Bus forwarder failed to start", "error", err)
	}
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.Bus != nil {
		_ = a.Clients.Bus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
