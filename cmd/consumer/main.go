package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/profilestream/profilestream/internal/broker"
	"github.com/profilestream/profilestream/internal/config"
	"github.com/profilestream/profilestream/internal/pipeline"
	"github.com/profilestream/profilestream/internal/sink"
	"github.com/profilestream/profilestream/internal/transform"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting consumer: broker=%s stream=%s durable=%s index=%s",
		cfg.Broker.URL, cfg.Broker.Stream, cfg.Broker.Durable, cfg.OpenSearch.Index)

	client, err := broker.Connect(broker.Config{
		URL:           cfg.Broker.URL,
		Name:          "profilestream-consumer",
		Stream:        cfg.Broker.Stream,
		Subject:       cfg.Broker.Subject,
		Durable:       cfg.Broker.Durable,
		MaxReconnects: cfg.Broker.MaxReconnects,
		ReconnectWait: cfg.Broker.ReconnectWait,
		Timeout:       cfg.Broker.ConnectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to broker: %v", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer, err := client.EnsureConsumer(ctx)
	if err != nil {
		log.Fatalf("Failed to ensure consumer: %v", err)
	}

	store, err := sink.Connect(sink.Config{
		URL:           cfg.OpenSearch.URL,
		Username:      cfg.OpenSearch.Username,
		Password:      cfg.OpenSearch.Password,
		Index:         cfg.OpenSearch.Index,
		TLSSkipVerify: cfg.OpenSearch.TLSSkipVerify,
	})
	if err != nil {
		log.Fatalf("Failed to connect to OpenSearch: %v", err)
	}
	if err := store.EnsureIndex(ctx); err != nil {
		log.Fatalf("Failed to ensure index: %v", err)
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Port)
	}

	loop := pipeline.New(
		broker.NewPoller(consumer, cfg.Broker.PollWait),
		transform.NewEngine(),
		store,
	)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Consumer loop error: %v", err)
	}

	log.Println("Shutting down...")
	if err := client.Drain(); err != nil {
		log.Printf("Drain failed: %v", err)
	}
	log.Println("Consumer stopped")
}

func serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("Metrics server error: %v", err)
	}
}
