package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/profilestream/profilestream/internal/broker"
	"github.com/profilestream/profilestream/internal/config"
	"github.com/profilestream/profilestream/internal/generator"
	"github.com/profilestream/profilestream/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	count := flag.Int("count", 1, "number of events to generate and publish")
	flushTimeout := flag.Duration("flush-timeout", 30*time.Second, "max time to wait for delivery acks before exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting producer: broker=%s subject=%s mode=%s count=%d",
		cfg.Broker.URL, cfg.Broker.Subject, cfg.Generator.Mode, *count)

	client, err := broker.Connect(broker.Config{
		URL:           cfg.Broker.URL,
		Name:          "profilestream-producer",
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

	ctx := context.Background()
	if _, err := client.EnsureStream(ctx); err != nil {
		log.Fatalf("Failed to ensure stream: %v", err)
	}

	source := newSource(cfg)
	producer := broker.NewProducer(client)

	published := 0
	for i := 0; i < *count; i++ {
		event, err := source.Generate(ctx)
		if err != nil {
			// A failed generation cycle is logged and skipped; the
			// remaining cycles still run.
			metrics.ProduceFailures.Inc()
			log.Printf("generation cycle failed: %v", err)
			continue
		}

		payload, err := json.Marshal(event)
		if err != nil {
			metrics.ProduceFailures.Inc()
			log.Printf("failed to serialize event id=%s: %v", event.ID, err)
			continue
		}

		if err := producer.Publish(ctx, event.ID, payload); err != nil {
			metrics.ProduceFailures.Inc()
			log.Printf("failed to publish event id=%s: %v", event.ID, err)
			continue
		}
		metrics.EventsProduced.Inc()
		published++
	}

	// The flush is the delivery-durability boundary: exiting before it
	// completes may drop messages still in flight.
	flushCtx, cancel := context.WithTimeout(ctx, *flushTimeout)
	defer cancel()
	if err := producer.Flush(flushCtx); err != nil {
		log.Fatalf("Flush failed: %v", err)
	}

	if err := client.Drain(); err != nil {
		log.Printf("Drain failed: %v", err)
	}

	log.Printf("Producer finished: published=%d delivered=%d failed=%d",
		published, producer.Delivered(), producer.Failed())
}

func newSource(cfg *config.Config) generator.Source {
	if cfg.Generator.Mode == "local" {
		return generator.NewFakeSource(time.Now().UnixNano())
	}
	return generator.NewLiveSource(
		generator.NewRandomUserClient(cfg.Generator.UserURL, cfg.Generator.Timeout),
		generator.NewGeocodeClient(cfg.Generator.GeocodeURL, cfg.Generator.GeocodeAPIKey, cfg.Generator.Timeout),
		nil,
	)
}
