package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/dwd-weather-api/internal/config"
	"github.com/couchcryptid/dwd-weather-api/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes decoded snapshots to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one snapshot and writes it to the topic. The station id
// is the message key, so all snapshots of one station land on one partition.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s %s: %w", snap.Resource, snap.Station, err)
	}
	w.logger.Debug("snapshot published", "resource", snap.Resource, "station", snap.Station)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// envelope is the message value: the decoded payload plus its provenance.
type envelope struct {
	Resource  string    `json:"resource"`
	Station   string    `json:"station"`
	DecodedAt time.Time `json:"decoded_at"`
	Payload   any       `json:"payload"`
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(envelope{
		Resource:  snap.Resource,
		Station:   snap.Station,
		DecodedAt: snap.DecodedAt.UTC(),
		Payload:   snap.Payload,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s snapshot: %w", snap.Resource, err)
	}
	key := snap.Station
	if key == "" {
		key = snap.Resource
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "resource", Value: []byte(snap.Resource)},
			{Key: "decoded_at", Value: []byte(snap.DecodedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
