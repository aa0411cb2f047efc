package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lojaflor/erp-api/internal/config"
	kafkax "github.com/lojaflor/erp-api/internal/kafka"
	"github.com/lojaflor/erp-api/internal/postgres"
	"github.com/lojaflor/erp-api/internal/redisx"
	"github.com/lojaflor/erp-api/internal/sales"
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
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &sales.Service{
		Stock:       &stock.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-stockworker",
	}

	// Consumer
	group := getenv("STOCKWORKER_GROUP", "stockworker-svc")
	workers := mustAtoi(os.Getenv("STOCKWORKER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, sales.TopicSaleCompleted, workers)

	go func() {
		log.Printf("stockworker consumer started: group=%s topic=%s workers=%d", group, sales.TopicSaleCompleted, workers)
		if err := cons.Start(ctx, svc.HandleSaleCompleted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
