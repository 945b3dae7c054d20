package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
)

const groupID = "shipment-events-consumer-group"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}

	log.Println("Starting shipment events consumer...")

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{brokers},
		GroupID:        groupID,
		Topic:          storage.TopicStatusEvents,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("Error closing Kafka reader: %v", err)
		}
	}()

	log.Printf("Consumer connected to topic '%s' on brokers %s", storage.TopicStatusEvents, brokers)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown signal received, stopping consumer.")
			return
		default:
			m, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error reading message: %v", err)
				time.Sleep(5 * time.Second)
				continue
			}

			var event repository.StatusEventPayload
			if err := json.Unmarshal(m.Value, &event); err != nil {
				log.Printf("Skipping malformed event at offset %d: %v", m.Offset, err)
				continue
			}

			fmt.Printf("\n--- STATUS EVENT ---\n")
			fmt.Printf("Shipment:  %s\n", event.ShipmentID)
			fmt.Printf("Change:    %s -> %s\n", event.OldStatus, event.NewStatus)
			fmt.Printf("Actor:     %s\n", event.Actor)
			fmt.Printf("ChangedAt: %s\n", event.ChangedAt.Format(time.RFC3339))
			fmt.Printf("Offset:    %d\n", m.Offset)
			fmt.Println("--- END EVENT ---")
		}
	}
}
