// Command storefront runs the storefront record-keeper: a MySQL-backed
// customer/order/product service with a Redis read-through cache in front
// of the hot lookup paths.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"storefront/pkg/api"
	"storefront/pkg/cache"
	"storefront/pkg/db"
	"storefront/pkg/logging"
	"storefront/pkg/redis"
	"storefront/pkg/service"
	"storefront/pkg/store"
)

type serverConfig struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func main() {
	var logCfg logging.Config
	if err := env.Parse(&logCfg); err != nil {
		println("failed to parse log config:", err.Error())
		os.Exit(1)
	}
	logger := logging.Setup(logCfg)

	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("storefront exited")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	var (
		dbCfg    db.Config
		cacheCfg redis.Config
		srvCfg   serverConfig
	)
	if err := env.Parse(&dbCfg); err != nil {
		return err
	}
	if err := env.Parse(&cacheCfg); err != nil {
		return err
	}
	if err := env.Parse(&srvCfg); err != nil {
		return err
	}

	dbManager, err := db.NewManager(&dbCfg)
	if err != nil {
		return err
	}
	defer dbManager.Close()

	if err := dbManager.DB().AutoMigrate(store.Models()...); err != nil {
		return err
	}

	cacheManager, err := redis.NewManager(&cacheCfg)
	if err != nil {
		return err
	}
	defer cacheManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheManager.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("cache store unreachable at startup, continuing without it")
	}
	cancel()

	engine := cache.NewEngine(cacheManager, logging.NewLogger("cache"))
	gateway := store.NewGateway(dbManager)

	customers := service.NewCustomerService(gateway.Customers, engine, logging.NewLogger("customers"))
	orders := service.NewOrderService(gateway.Orders, gateway.Customers, engine, logging.NewLogger("orders"))
	products := service.NewProductService(gateway.Products, engine, logging.NewLogger("products"))
	admin := service.NewAdminService(engine, cacheManager, gateway.Customers, gateway.Products, logging.NewLogger("admin"))

	router := api.NewRouter(customers, orders, products, admin, dbManager, cacheManager, logging.NewLogger("http"))

	server := &http.Server{
		Addr:         srvCfg.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
		IdleTimeout:  srvCfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srvCfg.Addr).Msg("storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
