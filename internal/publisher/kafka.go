// Package publisher streams simulated readings to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sebasr/ecosense-service/internal/models"
)

// DefaultTopic receives readings when no topic is configured
const DefaultTopic = "ecosense.readings"

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReadingMessage is the JSON value of every published message
type ReadingMessage struct {
	StationID   string         `json:"stationId"`
	StationName string         `json:"stationName"`
	Reading     models.Reading `json:"reading"`
}

// KafkaPublisher publishes readings keyed by station so that one station's
// readings stay ordered on a single partition.
type KafkaPublisher struct {
	w           messageWriter
	topic       string
	stationID   string
	stationName string
	logger      *slog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers
func NewKafkaPublisher(brokers []string, topic string, station models.Station, logger *slog.Logger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, topic, station, logger)
}

func newKafkaPublisher(w messageWriter, topic string, station models.Station, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		w:           w,
		topic:       topic,
		stationID:   station.ID.String(),
		stationName: station.Name,
		logger:      logger,
	}
}

// Name implements simulation.Sink
func (p *KafkaPublisher) Name() string { return "kafka" }

// Publish writes one reading
func (p *KafkaPublisher) Publish(ctx context.Context, r models.Reading) error {
	b, err := json.Marshal(ReadingMessage{StationID: p.stationID, StationName: p.stationName, Reading: r})
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	msg := kafka.Message{Key: []byte(p.stationID), Value: b, Time: r.Time()}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write to %s: %w", p.topic, err)
	}
	p.logger.Debug("reading published", "topic", p.topic, "timestamp", r.Timestamp, "aqi", r.AQI)
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
