package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"woof-coffee/api"
	"woof-coffee/bot"
	"woof-coffee/config"
	"woof-coffee/db"
	"woof-coffee/services"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "woofcoffee",
	Short: "WOOF COFFEE ordering bot, API and barista FAQ",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		zc := zap.NewProductionConfig()
		if verbose || cfg.Debug {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Telegram.Token == "" {
			return errors.New("TOKEN not set")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := buildShop(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		return runBot(ctx, s)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the Telegram bot when TOKEN is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := buildShop(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if cfg.Telegram.Token != "" {
			go func() {
				if err := runBot(ctx, s); err != nil {
					logger.Error("bot", zap.Error(err))
				}
			}()
		}

		app := api.NewApp(api.NewHandler(s.catalog, s.checkout, s.responder, logger))
		errc := make(chan error, 1)
		go func() {
			logger.Info("http listening", zap.String("addr", cfg.HTTP.Addr))
			errc <- app.Listen(cfg.HTTP.Addr)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.Init(cmd.Context(), cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()
		if err := applyMigrations(cmd.Context(), logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask the barista a question offline",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		responder, err := services.LoadResponder(cfg.Shop.FAQRulesFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), responder.Respond(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(botCmd, serveCmd, migrateCmd, askCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shop is the set of components shared by the bot and the API.
type shop struct {
	catalog   *services.Catalog
	carts     services.CartStore
	checkout  *services.Checkout
	responder *services.Responder

	closers []func()
}

func (s *shop) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func buildShop(ctx context.Context) (*shop, error) {
	s := &shop{}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	if cfg.NeedsDB() {
		if err := db.Init(ctx, cfg.DB); err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		s.closers = append(s.closers, db.Close)

		// Optional auto-migration (useful in production and for fresh DBs).
		// Set AUTO_MIGRATE=1 (or "true") to enable.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, logger); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
	}

	switch cfg.Shop.MenuSource {
	case config.MenuSourcePostgres:
		c, err := services.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		s.catalog = c
	default:
		s.catalog = services.DefaultCatalog()
	}

	switch cfg.Shop.CartStore {
	case config.CartStorePostgres:
		s.carts = services.PostgresCartStore{}
	case config.CartStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, func() { _ = client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.carts = services.NewRedisCartStore(client, "woofcoffee", cfg.Redis.CartTTL)
	default:
		s.carts = services.NewMemoryCartStore()
	}

	responder, err := services.LoadResponder(cfg.Shop.FAQRulesFile)
	if err != nil {
		return nil, err
	}
	s.responder = responder
	s.checkout = services.NewCheckout(s.catalog, services.PricingFromConfig(cfg.Shop), cfg.Shop.DeliveryETA)

	logger.Info("shop ready",
		zap.Int("menu_items", s.catalog.Len()),
		zap.String("cart_store", cfg.Shop.CartStore),
		zap.Strings("faq_rules", responder.RuleNames()),
	)
	ok = true
	return s, nil
}

func runBot(ctx context.Context, s *shop) error {
	b, err := bot.New(cfg.Telegram.Token, bot.Deps{
		Catalog:   s.catalog,
		Carts:     s.carts,
		Checkout:  s.checkout,
		Responder: s.responder,
		Delay:     services.UniformDelay(cfg.Shop.ReplyDelayMin, cfg.Shop.ReplyDelayMax),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	b.Start(ctx)
	return nil
}
