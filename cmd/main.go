package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/messaging"
	"restaurant-pos/internal/services/account"
	"restaurant-pos/internal/services/catalog"
	"restaurant-pos/internal/services/ingredient"
	"restaurant-pos/internal/services/kitchen"
	"restaurant-pos/internal/services/notification"
	"restaurant-pos/internal/services/order"
	"restaurant-pos/internal/services/tenant"
	"restaurant-pos/internal/services/tracking"
	"restaurant-pos/migrations"
)

const defaultConfigFile = ".env"

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (admin-api, kitchen-display, notification-subscriber, migrate, create-superadmin)")
		configFile = flag.String("config", defaultConfigFile, "Path to the dotenv configuration file")
		login      = flag.String("login", "", "Superadmin login (create-superadmin mode)")
		password   = flag.String("password", "", "Superadmin password (create-superadmin mode)")
		prefetch   = flag.Int("prefetch", 5, "RabbitMQ prefetch count for consumers")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	path := *configFile
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && path == defaultConfigFile {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "admin-api":
		err = runAdminAPI(ctx, cfg, log)
	case "kitchen-display":
		err = runKitchenDisplay(ctx, cfg, log, *prefetch)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "migrate":
		err = runMigrate(ctx, cfg, log)
	case "create-superadmin":
		err = runCreateSuperadmin(ctx, cfg, log, *login, *password)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func openDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(ctx, migrations.Files); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func runMigrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	db.Close()
	log.Info("migrations_applied", "Database schema is up to date", "", nil)
	return nil
}

func runCreateSuperadmin(ctx context.Context, cfg *config.Config, log *logger.Logger, login, password string) error {
	if login == "" || password == "" {
		return fmt.Errorf("--login and --password are required")
	}
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	accounts := account.NewService(account.NewPostgresRepository(db), tokens, cfg.Auth.BcryptCost)
	id, err := accounts.CreateSuperadmin(ctx, login, password)
	if err != nil {
		return err
	}
	log.Info("superadmin_created", fmt.Sprintf("Superadmin %s saved", login), "", map[string]interface{}{
		"superadmin_id": id,
	})
	return nil
}

func runAdminAPI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	var (
		publisher order.Publisher
		broker    tracking.Broker
	)
	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("rabbitmq_unavailable", "Running without messaging, kitchen tickets will not be sent", requestID, err, nil)
		publisher = messaging.NewNoopPublisher(log)
	} else {
		defer conn.Close()
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		publisher = messaging.NewPublisher(conn, log)
		broker = conn
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	tenantRepo := tenant.NewPostgresRepository(db)
	catalogRepo := catalog.NewPostgresRepository(db)
	ingredientRepo := ingredient.NewPostgresRepository(db)

	reader := catalog.NewReader(catalogRepo)
	pricer := ingredient.NewPricer(ingredientRepo)
	orders := order.NewService(order.NewPostgresRepository(db), reader, pricer, publisher, order.NewDraftStore(), log, loc)

	accountHandler := account.NewHandler(account.NewService(account.NewPostgresRepository(db), tokens, cfg.Auth.BcryptCost), log)
	tenantHandler := tenant.NewHandler(tenant.NewService(tenantRepo, cfg.Auth.BcryptCost), log)
	catalogHandler := catalog.NewHandler(catalog.NewService(catalogRepo, ingredientRepo), reader, log)
	ingredientHandler := ingredient.NewHandler(ingredient.NewService(ingredientRepo, catalogRepo), log)
	orderHandler := order.NewHandler(orders, log)
	trackingHandler := tracking.NewHandler(tracking.NewService(tracking.NewPostgresRepository(db), broker, log), log)

	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(httpx.WithLogging(log)))
	accountHandler.RegisterPublicRoutes(router)
	trackingHandler.RegisterPublicRoutes(router)

	authed := router.NewRoute().Subrouter()
	authed.Use(auth.Middleware(tokens, log))
	accountHandler.RegisterRoutes(authed)
	tenantHandler.RegisterTenantRoutes(authed)

	scoped := authed.PathPrefix("/tenants/{tenantID}").Subrouter()
	scoped.Use(auth.RequireTenant(log))
	tenantHandler.RegisterRoutes(scoped)
	catalogHandler.RegisterRoutes(scoped)
	ingredientHandler.RegisterRoutes(scoped)
	orderHandler.RegisterRoutes(scoped)
	trackingHandler.RegisterRoutes(scoped)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("service_started", fmt.Sprintf("Admin API started on port %d", cfg.HTTP.Port), requestID, map[string]interface{}{
			"port":     cfg.HTTP.Port,
			"timezone": loc.String(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runKitchenDisplay(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	consumer := messaging.NewConsumer(conn, log, messaging.KitchenQueue, "kitchen-display", prefetch)
	return kitchen.NewDisplay(consumer, os.Stdout, log).Run(ctx)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	return notification.NewSubscriber(consumer, os.Stdout, log).Run(ctx)
}
