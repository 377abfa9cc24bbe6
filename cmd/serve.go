package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/config"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/handlers"
	customMiddleware "github.com/Madhav-Gupta-28/kopi-shop-backend-go/middleware"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/repository"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/routes"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/services"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")
}

func newGateway(cfg *config.Config, logger echo.Logger) utils.PaymentGateway {
	if cfg.Midtrans.ServerKey == "" {
		logger.Warn("MIDTRANS_SERVER_KEY is empty; only cash-on-delivery orders can be placed")
		return utils.DisabledGateway{}
	}
	gateway, err := utils.NewMidtransGateway(cfg.Midtrans.ServerKey, cfg.Midtrans.Production, cfg.Midtrans.Timeout)
	if err != nil {
		logger.Warnf("payment gateway disabled: %v", err)
		return utils.DisabledGateway{}
	}
	return gateway
}

func newPublisher(cfg *config.Config, logger echo.Logger) (services.EventPublisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("KAFKA_BROKERS is empty; order events are not published")
		return services.NopPublisher{}, func() {}
	}
	publisher, err := services.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		logger.Errorf("order events disabled: %v", err)
		return services.NopPublisher{}, func() {}
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Errorf("failed to close Kafka producer: %v", err)
		}
	}
}

func runServe(ctx context.Context) error {
	// Load environment variables
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(parseLevel(cfg.LogLevel))
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.Metrics())

	// Connect to MongoDB
	dbCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	db, err := database.ConnectDB(dbCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Disconnect(context.Background(), db); err != nil {
			e.Logger.Errorf("failed to disconnect from MongoDB: %v", err)
		}
	}()
	if err := database.EnsureIndexes(dbCtx, db); err != nil {
		return err
	}

	users := repository.NewUserRepository(db)
	tokens := repository.NewTokenRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)
	addresses := repository.NewAddressRepository(db)

	publisher, closePublisher := newPublisher(cfg, e.Logger)
	defer closePublisher()

	issuer := utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := services.NewAuthService(users, tokens, issuer, e.Logger)
	productService := services.NewProductService(products, e.Logger)
	orderService := services.NewOrderService(orders, products, newGateway(cfg, e.Logger), publisher, e.Logger)
	addressService := services.NewAddressService(addresses)

	// Setup routes
	routes.SetupRoutes(e, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Users:    handlers.NewUserHandler(authService, addressService),
		Products: handlers.NewProductHandler(productService),
		Orders:   handlers.NewOrderHandler(orderService),
	}, authService)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.Logger.Infof("server starting on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
