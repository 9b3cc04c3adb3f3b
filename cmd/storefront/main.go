package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gracemedia/storefront/internal/cache"
	"github.com/gracemedia/storefront/internal/cart"
	"github.com/gracemedia/storefront/internal/catalog"
	"github.com/gracemedia/storefront/internal/checkout"
	"github.com/gracemedia/storefront/internal/config"
	"github.com/gracemedia/storefront/internal/database"
	"github.com/gracemedia/storefront/internal/donations"
	"github.com/gracemedia/storefront/internal/gateway"
	h "github.com/gracemedia/storefront/internal/http"
	"github.com/gracemedia/storefront/internal/notify"
	"github.com/gracemedia/storefront/internal/orders"
	"github.com/gracemedia/storefront/internal/pricing"
	"github.com/gracemedia/storefront/internal/settings"
	"github.com/gracemedia/storefront/internal/submissions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog
	books, err := catalog.LoadFile(cfg.Catalog.BooksFile)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	catalogStore := catalog.NewStore(books)
	log.Printf("loaded %d books from %s", len(books), cfg.Catalog.BooksFile)

	// MongoDB for carts
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	cartRepo := cart.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create cart indexes: %v", err)
	}

	// Redis for the cart cache and pending redirects
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis!")
	cartCache := cache.NewRedisCache(redisClient)
	redirects := cache.NewRedirectStore(redisClient)

	// Postgres for checkout sessions, orders, donations, submissions,
	// and the notification outbox
	db, err := database.Connect(database.Credentials{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()
	if err := database.RunMigrations(db, cfg.Postgres.MigrationsDir); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Outbox poller publishing to Kafka
	outbox := notify.NewOutbox(db)
	poller := notify.NewPoller(outbox, cfg.Kafka.Brokers...)
	go poller.Run(ctx)
	defer poller.Close()

	// Payment gateways, resolved per currency
	gateways := gateway.NewRegistry(
		gateway.RazorpayConfig{
			Enabled:   cfg.Razorpay.Enabled,
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
			BaseURL:   cfg.Razorpay.BaseURL,
		},
		gateway.PayPalConfig{
			Enabled:  cfg.PayPal.Enabled,
			ClientID: cfg.PayPal.ClientID,
			Secret:   cfg.PayPal.ClientSecret,
			BaseURL:  cfg.PayPal.BaseURL,
		},
	)

	// Display preferences with change notifications
	prefs := settings.NewStore(settings.Preferences{Currency: catalog.CurrencyINR, Language: "en"})

	// Services
	cartSvc := cart.NewService(cartRepo, cartCache, catalogStore, catalog.CurrencyINR)

	// Keep stored carts priced in each visitor's preferred currency
	changes, cancelSub := prefs.Subscribe()
	defer cancelSub()
	go cartSvc.ApplyPreferenceChanges(ctx, changes)
	pricingCfg := pricing.Config{
		TaxEnabled:       cfg.Pricing.TaxEnabled,
		TaxRate:          cfg.Pricing.TaxRate,
		PackagingPerUnit: cfg.Pricing.PackagingPerUnit,
		HomeState:        cfg.Pricing.HomeState,
	}
	orderRepo := orders.NewPostgresRepository(db)
	checkoutRepo := checkout.NewPostgresRepository(db)
	checkoutSvc := checkout.NewService(checkoutRepo, cartSvc, gateways, orderRepo, outbox, pricingCfg)
	donationSvc := donations.NewService(donations.NewPostgresRepository(db), gateways, outbox)
	submissionSvc := submissions.NewService(submissions.NewPostgresRepository(db))

	router := h.NewRouter(h.Handlers{
		Books:       h.NewBooksHandler(catalogStore),
		Cart:        h.NewCartHandler(cartSvc, prefs),
		Checkout:    h.NewCheckoutHandler(checkoutSvc, redirects),
		Donations:   h.NewDonationsHandler(donationSvc),
		Orders:      h.NewOrdersHandler(orderRepo),
		Submissions: h.NewSubmissionsHandler(submissionSvc),
	}, cfg.Auth.JWTSecret, cfg.Server.RequestTimeout)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
