package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/FagneAlmeida/e-turboost.site/internal/address"
	"github.com/FagneAlmeida/e-turboost.site/internal/cart"
	"github.com/FagneAlmeida/e-turboost.site/internal/cartstore"
	"github.com/FagneAlmeida/e-turboost.site/internal/catalog"
	"github.com/FagneAlmeida/e-turboost.site/internal/checkout"
	"github.com/FagneAlmeida/e-turboost.site/internal/consumer"
	sh "github.com/FagneAlmeida/e-turboost.site/internal/http"
	"github.com/FagneAlmeida/e-turboost.site/internal/identity"
	"github.com/FagneAlmeida/e-turboost.site/internal/payment"
	"github.com/FagneAlmeida/e-turboost.site/internal/shipping"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	ViaCEPBaseURL   string
	CartFile        string
	RedisAddr       string
	KafkaBrokers    []string
	CartOwner       string
	AuthToken       string
	DebounceDelay   time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:5000"),
		ViaCEPBaseURL:   getEnv("VIACEP_BASE_URL", "https://viacep.com.br"),
		CartFile:        getEnv("CART_FILE", "cart.json"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CartOwner:       getEnv("CART_OWNER", "default"),
		AuthToken:       getEnv("AUTH_TOKEN", ""),
		DebounceDelay:   400 * time.Millisecond,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newStore picks the cart slot backend: Redis when configured (carts shared
// across instances), otherwise a local JSON file.
func newStore(cfg *Config) cartstore.Store {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		log.Printf("using redis cart store at %s", cfg.RedisAddr)
		return cartstore.NewRedis(client, cfg.CartOwner)
	}
	log.Printf("using file cart store at %s", cfg.CartFile)
	return cartstore.NewFile(cfg.CartFile)
}

func main() {
	cfg := loadConfig()

	// One instrumented client for every outbound dependency.
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}

	store := newStore(cfg)
	cartEngine := cart.NewEngine(store)
	cartEngine.Hydrate(context.Background())

	catalogClient := catalog.NewClient(cfg.APIBaseURL, httpClient)
	resolver := address.NewResolver(cfg.ViaCEPBaseURL, httpClient)
	quoter := shipping.NewQuoter(cfg.APIBaseURL, httpClient)
	shippingEngine := shipping.NewEngine(quoter.Quote, cfg.DebounceDelay)
	defer shippingEngine.Stop()

	paymentClient := payment.NewClient(cfg.APIBaseURL, httpClient, identity.Static(cfg.AuthToken))
	orc := checkout.NewOrchestrator(cartEngine, catalogClient, shippingEngine, paymentClient)

	cartHandler := sh.NewCartHandler(cartEngine)
	catalogHandler := sh.NewCatalogHandler(catalogClient)
	checkoutHandler := sh.NewCheckoutHandler(orc, resolver, shippingEngine)
	router := sh.NewRouter(cartHandler, catalogHandler, checkoutHandler, cfg.RequestTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.KafkaBrokers) > 0 {
		orderConsumer := consumer.New(store, cfg.CartOwner, cfg.KafkaBrokers...)
		defer orderConsumer.Close()
		go orderConsumer.Run(ctx)
		log.Printf("order consumer listening on %v", cfg.KafkaBrokers)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
