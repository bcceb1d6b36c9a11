package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/catalog"
	"github.com/anyulbade/payment-wallet-service/internal/config"
	"github.com/anyulbade/payment-wallet-service/internal/database"
	"github.com/anyulbade/payment-wallet-service/internal/gateway"
	"github.com/anyulbade/payment-wallet-service/internal/handler"
	"github.com/anyulbade/payment-wallet-service/internal/kvstore"
	"github.com/anyulbade/payment-wallet-service/internal/middleware"
	"github.com/anyulbade/payment-wallet-service/internal/repository"
	"github.com/anyulbade/payment-wallet-service/internal/service"
)

// storage is one backend's set of repositories.
type storage struct {
	users   service.UserRepository
	wallets service.WalletRepository
	txns    service.TransactionRepository
	methods service.PaymentMethodRepository
	audit   service.AuditRepository
	pinger  handler.Pinger
	closeFn func()
	seed    func(context.Context) error
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open storage")
	}
	defer store.closeFn()

	if cfg.SeedUsers {
		if err := store.seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed users")
		}
	}

	currencies, reload, err := loadCurrencyTable(cfg.CurrencyRatesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load currency table")
	}

	payments := buildPaymentService(cfg, store, currencies)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(store.pinger, cfg.StorageBackend)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.SetupSwagger(router)
	handler.RegisterRoutes(router.Group("/api/v1"), payments)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.GatewayTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StorageBackend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range quit {
		if sig != syscall.SIGHUP {
			break
		}
		if reload == nil {
			log.Warn().Msg("SIGHUP ignored: currency table is built in")
			continue
		}
		if err := reload(); err != nil {
			log.Error().Err(err).Msg("currency table reload failed, keeping previous rates")
		}
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storage{
			users:   repository.NewUserRepository(pool),
			wallets: repository.NewWalletRepository(pool),
			txns:    repository.NewTransactionRepository(pool),
			methods: repository.NewPaymentMethodRepository(pool),
			audit:   repository.NewAuditRepository(pool),
			pinger:  pool,
			closeFn: pool.Close,
			seed:    func(ctx context.Context) error { return database.SeedData(ctx, pool) },
		}, nil

	case config.BackendRedis:
		client := kvstore.NewRedisClient(cfg.RedisAddrs, cfg.RedisPassword, cfg.RedisDB)
		kv := kvstore.NewRedisKV(client, cfg.RedisPrefix)
		if err := kv.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return kvStorage(kv, func() { _ = client.Close() }), nil

	default:
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return kvStorage(kvstore.NewMemoryKV(), func() {}), nil
	}
}

func kvStorage(kv kvstore.KV, closeFn func()) *storage {
	users := kvstore.NewUserStore(kv)
	return &storage{
		users:   users,
		wallets: kvstore.NewWalletStore(kv),
		txns:    kvstore.NewTransactionStore(kv),
		methods: kvstore.NewPaymentMethodStore(kv),
		audit:   kvstore.NewAuditStore(kv),
		pinger:  kv,
		closeFn: closeFn,
		seed: func(ctx context.Context) error {
			demo, err := database.DemoUsers()
			if err != nil {
				return err
			}
			for _, u := range demo {
				if err := users.Save(ctx, u); err != nil {
					return err
				}
			}
			log.Info().Int("total", len(demo)).Msg("seeded demo users")
			return nil
		},
	}
}

// loadCurrencyTable returns the built-in table, or a file-backed one with its
// reload func when path is set.
func loadCurrencyTable(path string) (catalog.CurrencyTable, func() error, error) {
	if path == "" {
		return catalog.DefaultCurrencyTable(), nil, nil
	}
	table, err := catalog.NewFileTable(path)
	if err != nil {
		return nil, nil, err
	}
	return table, table.Reload, nil
}

func buildPaymentService(cfg *config.Config, store *storage, currencies catalog.CurrencyTable) *service.PaymentService {
	clock := service.SystemClock{}
	locks := service.NewUserLocks()
	gw := &gateway.Simulated{Delay: cfg.GatewayDelay, DeclineOver: cfg.GatewayDeclineOver}

	converter := service.NewCurrencyConverter(currencies)
	methods := service.NewPaymentMethodService(store.methods, catalog.DefaultRegionRails(), clock, locks)
	ledger := service.NewLedgerService(store.txns, clock, locks)
	wallets := service.NewWalletService(store.wallets, store.audit, converter, ledger, methods, clock, locks)
	processor := service.NewPaymentProcessor(ledger, methods, wallets, converter, gw, cfg.CommissionRate, cfg.GatewayTimeout, locks)
	statements := service.NewStatementService(ledger, converter)

	return service.NewPaymentService(store.users, methods, ledger, wallets, processor, statements, converter)
}
