package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/appetiteclub/floor/pkg"
	"github.com/appetiteclub/floor/services/floor/internal/floor"
	"github.com/appetiteclub/floor/services/floor/internal/mongo"
	"github.com/appetiteclub/floor/services/floor/internal/remote"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "FLOOR"
	appName      = "floor"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

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

	lifecycle := []interface{}{}

	loc, err := time.LoadLocation(config.GetStringOrDef("floor.timezone", "Local"))
	if err != nil {
		log.Fatalf("%s(%s) invalid floor.timezone: %v", appName, appVersion, err)
	}

	var gw floor.Gateway
	switch kind := config.GetStringOrDef("gateway.kind", "mongo"); kind {
	case "remote":
		remoteGW, err := remote.NewGateway(config, logger)
		if err != nil {
			log.Fatalf("%s(%s) cannot create store gateway: %v", appName, appVersion, err)
		}
		gw = remoteGW

	case "mongo":
		mongoGW := mongo.NewGateway(config, logger, loc)
		if err := mongoGW.Start(ctx); err != nil {
			log.Fatalf("%s(%s) cannot start mongo gateway: %v", appName, appVersion, err)
		}
		lifecycle = append(lifecycle, aqm.LifecycleHooks{
			OnStop: mongoGW.Stop,
		})
		gw = mongoGW

	default:
		log.Fatalf("%s(%s) unknown gateway.kind %q", appName, appVersion, kind)
	}

	var notifier floor.Notifier = floor.NoopNotifier{}
	if config.GetStringOrDef("nats.enabled", "true") == "true" {
		natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

		publisher, err := pkg.NewNATSPublisher(natsURL, appName)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}

		lifecycle = append(lifecycle, aqm.LifecycleHooks{
			OnStop: func(context.Context) error {
				return publisher.Close()
			},
		})
		notifier = floor.NewEventNotifier(publisher, logger)
	}

	store := floor.NewStore(gw,
		floor.WithLogger(logger),
		floor.WithNotifier(notifier),
		floor.WithLocation(loc),
	)

	refreshHooks := aqm.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := store.Refresh(ctx); err != nil {
				logger.Errorf("Initial snapshot load failed: %v", err)
			}
			return nil
		},
	}
	lifecycle = append(lifecycle, refreshHooks)

	demoEnabled, _ := config.GetString("seeding.demo")
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled for floor service")
		lifecycle = append(lifecycle, aqm.LifecycleHooks{
			OnStart: floor.DemoSeedingFunc(seedCtx, store, gw, seedFS, logger),
			OnStop:  floor.StopFunc(cancelSeeds),
		})
	}

	handler := floor.NewHandler(store, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithLifecycle(lifecycle...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
