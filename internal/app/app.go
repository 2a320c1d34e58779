package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avstrong/holidaze/internal/authz"
	"github.com/avstrong/holidaze/internal/booking"
	"github.com/avstrong/holidaze/internal/config"
	"github.com/avstrong/holidaze/internal/gateway"
	"github.com/avstrong/holidaze/internal/idgen/uuidgen"
	"github.com/avstrong/holidaze/internal/logger"
	"github.com/avstrong/holidaze/internal/session"
	"github.com/avstrong/holidaze/internal/storage/file"
	"github.com/avstrong/holidaze/internal/storage/memory"
	"github.com/avstrong/holidaze/internal/storage/redis"
	"github.com/avstrong/holidaze/internal/transport/web"
)

const defaultConfigPath = "configs/config.yaml"

type storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	configPath := os.Getenv("HOLIDAZE_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := l.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	if cfg.API.Key == "" {
		l.LogInfo("No API key configured, authenticated calls will be rejected by the remote API")
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("resolve calendar timezone: %w", err)
	}

	store, closeStore, err := newStorage(ctx, l, cfg.Store)
	if err != nil {
		return fmt.Errorf("init %s storage: %w", cfg.Store.Driver, err)
	}
	defer closeStore()

	l.LogInfo("Session storage '%s' is ready", cfg.Store.Driver)

	sessionStore := session.New(l, store)

	gw, err := gateway.New(gateway.Conf{
		L:           l,
		BaseURL:     cfg.API.BaseURL,
		APIKey:      cfg.API.Key,
		Timeout:     cfg.API.Timeout,
		MaxFailures: cfg.API.Breaker.MaxFailures,
		OpenTimeout: cfg.API.Breaker.OpenTimeout,
		Tracer:      nil,
		Metrics:     gateway.NewMetrics(prometheus.DefaultRegisterer),
	}, sessionStore, uuidgen.New())
	if err != nil {
		return fmt.Errorf("init gateway: %w", err)
	}

	enforcer, err := authz.New()
	if err != nil {
		return fmt.Errorf("init access policy: %w", err)
	}

	bookManager := booking.New(booking.Config{
		L:        l,
		Location: loc,
		Featured: cfg.Home.Featured,
	}, gw, sessionStore, enforcer)

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      l.StdLogger(),
		Host:              cfg.Listen.Host,
		Port:              cfg.Listen.Port,
		ReadHeaderTimeout: cfg.Listen.ReadHeaderTimeout,
		LivenessEndpoint:  "/liveness",
		Location:          loc,
		Metrics:           promhttp.Handler(),
	}

	srv, err := web.New(ctx, webConf, bookManager)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

func newStorage(ctx context.Context, l *logger.Logger, conf config.StoreConfig) (storage, func(), error) {
	switch conf.Driver {
	case config.DriverMemory:
		return memory.New(memory.Config{L: l}), func() {}, nil
	case config.DriverRedis:
		store := redis.New(redis.Config{
			L:        l,
			Address:  conf.Redis.Address,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
			Prefix:   conf.Redis.Prefix,
		})

		if err := store.Ping(ctx); err != nil {
			_ = store.Close()

			return nil, nil, err
		}

		return store, func() {
			if err := store.Close(); err != nil {
				l.LogErrorf("Failed to close redis: %v", err.Error())
			}
		}, nil
	default:
		store, err := file.New(file.Config{L: l, Path: conf.Path})
		if err != nil {
			return nil, nil, err
		}

		return store, func() {}, nil
	}
}
