package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"

	"github.com/brewnote/cafepos/internal/coupon"
	"github.com/brewnote/cafepos/internal/event"
	"github.com/brewnote/cafepos/internal/menu"
	"github.com/brewnote/cafepos/internal/mongo"
	"github.com/brewnote/cafepos/internal/order"
	"github.com/brewnote/cafepos/internal/seeding"
	"github.com/brewnote/cafepos/internal/settings"
	"github.com/brewnote/cafepos/internal/staff"
	"github.com/brewnote/cafepos/internal/tables"
)

const (
	appNamespace = "CAFEPOS"
	appName      = "cafepos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	orderRepo := mongo.NewOrderRepo(db)
	tableRepo := mongo.NewTableRepo(db)
	menuRepo := mongo.NewMenuItemRepo(db)
	couponRepo := mongo.NewCouponRepo(db)
	settingsRepo := mongo.NewSettingsRepo(db)
	userRepo := mongo.NewUserRepo(db)

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
	}

	// Lifecycle events are advisory; polling the HTTP API remains the
	// synchronization contract, so a missing broker is not fatal.
	var publisher events.Publisher
	natsURL := config.GetStringOrDef("nats.url", "")
	if natsURL != "" {
		pub, err := event.NewNATSPublisher(natsURL)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		publisher = pub
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStop: func(context.Context) error {
				return pub.Close()
			},
		})
	}

	hd := order.HandlerDeps{
		OrderRepo: orderRepo,
		TableRepo: tableRepo,
		Tax:       settings.NewRepoProvider(settingsRepo),
		Publisher: publisher,
	}

	orderHandler := order.NewHandler(hd, config, logger)
	tableHandler := tables.NewHandler(tableRepo, config, logger)
	menuHandler := menu.NewHandler(menuRepo, config, logger)
	couponHandler := coupon.NewHandler(couponRepo, config, logger)
	settingsHandler := settings.NewHandler(settingsRepo, config, logger)
	staffHandler := staff.NewHandler(userRepo, config, logger)

	demoEnabled, _ := config.GetString("seeding.demo")
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		lifecycles = append(lifecycles, apt.LifecycleHooks{
			OnStart: func(context.Context) error {
				return seeding.SeedingFunc(appName, baseRepo.GetDatabase, logger)(seedCtx)
			},
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		})
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port",
			orderHandler,
			tableHandler,
			menuHandler,
			couponHandler,
			settingsHandler,
			staffHandler,
		),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
