package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/AndresTafur217/StorePrototypeApi/internal/config"
	"github.com/AndresTafur217/StorePrototypeApi/internal/gateway"
	"github.com/AndresTafur217/StorePrototypeApi/internal/notify"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/repository"
	"github.com/AndresTafur217/StorePrototypeApi/internal/server"
	"github.com/AndresTafur217/StorePrototypeApi/internal/service"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/AndresTafur217/StorePrototypeApi/pkg/metrics"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "storeapi",
		Short:   "Marketplace backend with JSON-file tables",
		Version: Version,
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config.Load: %w", err)
			}

			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to yaml config file")

	return cmd
}

func serve(cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	s, err := store.New(cfg.DataDir, cfg.LockTimeout)
	if err != nil {
		return fmt.Errorf("store.New: %w", err)
	}

	products, err := repository.NewProduct(s, cfg.LowStockThreshold)
	if err != nil {
		return fmt.Errorf("repository.NewProduct: %w", err)
	}

	orders, err := repository.NewOrder(s)
	if err != nil {
		return fmt.Errorf("repository.NewOrder: %w", err)
	}

	invoices, err := repository.NewInvoice(s)
	if err != nil {
		return fmt.Errorf("repository.NewInvoice: %w", err)
	}

	notifications, err := repository.NewNotification(s)
	if err != nil {
		return fmt.Errorf("repository.NewNotification: %w", err)
	}

	ledger, err := repository.NewStockLedger(s, cfg.LowStockThreshold)
	if err != nil {
		return fmt.Errorf("repository.NewStockLedger: %w", err)
	}

	favorites, err := repository.NewFavorite(s)
	if err != nil {
		return fmt.Errorf("repository.NewFavorite: %w", err)
	}

	ratings, err := repository.NewRating(s)
	if err != nil {
		return fmt.Errorf("repository.NewRating: %w", err)
	}

	storeNotifier, err := notify.NewStoreNotifier(notifications, logger)
	if err != nil {
		return fmt.Errorf("notify.NewStoreNotifier: %w", err)
	}

	var (
		notifier port.Notifier = storeNotifier
		events   port.EventPublisher
	)

	if kafkaPublisher := notify.NewKafkaPublisher(cfg.KafkaBrokers); kafkaPublisher != nil {
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Warn("kafka close failed", "error", err)
			}
		}()

		notifier = notify.Multi{storeNotifier, kafkaPublisher}
		events = kafkaPublisher
	}

	gateways, err := gateway.FromConfig(cfg.Gateways)
	if err != nil {
		return fmt.Errorf("gateway.FromConfig: %w", err)
	}

	m := metrics.NewStoreMetrics()

	orderService, err := service.NewOrderService(orders, invoices, products, ledger, notifier, m, logger)
	if err != nil {
		return fmt.Errorf("service.NewOrderService: %w", err)
	}

	paymentService, err := service.NewPaymentService(orders, invoices, ledger, gateways, notifier, events, m, logger)
	if err != nil {
		return fmt.Errorf("service.NewPaymentService: %w", err)
	}

	invoiceService, err := service.NewInvoiceService(invoices, orders, products)
	if err != nil {
		return fmt.Errorf("service.NewInvoiceService: %w", err)
	}

	favoriteService, err := service.NewFavoriteService(favorites, products)
	if err != nil {
		return fmt.Errorf("service.NewFavoriteService: %w", err)
	}

	ratingService, err := service.NewRatingService(ratings, products, notifier, logger)
	if err != nil {
		return fmt.Errorf("service.NewRatingService: %w", err)
	}

	srv, err := server.New(orderService, paymentService, invoiceService, favoriteService, ratingService, products, notifications, logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	logger.Info("starting server", "addr", cfg.HTTPAddr, "data_dir", s.Dir())

	return srv.Run(cfg.HTTPAddr)
}
