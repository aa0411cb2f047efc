package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/lojaflor/erp-api/internal/cart"
	"github.com/lojaflor/erp-api/internal/catalog"
	"github.com/lojaflor/erp-api/internal/config"
	"github.com/lojaflor/erp-api/internal/httpx"
	kafkax "github.com/lojaflor/erp-api/internal/kafka"
	"github.com/lojaflor/erp-api/internal/postgres"
	"github.com/lojaflor/erp-api/internal/redisx"
	"github.com/lojaflor/erp-api/internal/sales"
	"github.com/lojaflor/erp-api/internal/sellers"
	"github.com/lojaflor/erp-api/internal/stock"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, sales.TopicSaleCompleted, 1024)
	prod.Start(ctx)

	// Repos & stores
	catalogRepo := &catalog.Repo{DB: db}
	stockRepo := &stock.Repo{DB: db}
	salesRepo := &sales.Repo{DB: db}
	sellersRepo := &sellers.Repo{DB: db}
	sessions := &sellers.Sessions{Redis: rdb}
	carts := cart.NewStore()

	// Router
	router := httpx.NewRouter()
	ah := &httpx.AuthHandler{Sellers: sellersRepo, Sessions: sessions}

	router.Group(func(r chi.Router) {
		r.Use(httpx.Auth(sessions))

		(&httpx.CatalogHandler{Repo: catalogRepo}).Register(r)
		(&httpx.StockHandler{
			Repo:      stockRepo,
			Catalog:   catalogRepo,
			Redis:     rdb,
			Threshold: cfg.LowStockThreshold,
		}).Register(r)
		(&httpx.CartHandler{Carts: carts, Catalog: catalogRepo, Stock: stockRepo}).Register(r)
		(&httpx.SalesHandler{
			Repo:     salesRepo,
			Producer: prod,
			Redis:    rdb,
			Carts:    carts,
			Service:  cfg.ServiceName,
		}).Register(r)
		(&httpx.SellersHandler{Repo: sellersRepo}).Register(r)

		ah.Register(router, r)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
