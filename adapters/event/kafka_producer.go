package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/niyatisanja0206/resume-builder/internal/config"
)

const (
	TopicDownloadEvents = "resume.download.events"
)

// DownloadEventPayload records a completed or attempted export. Attempts
// from the degraded fallback renderer are published too so the download
// funnel stays observable even when the PDF engine is down.
type DownloadEventPayload struct {
	UserEmail  string     `json:"user_email"`
	ResumeID   *uuid.UUID `json:"resume_id,omitempty"`
	TemplateID string     `json:"template_id"`
	Completed  bool       `json:"completed"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type KafkaProducerClient struct {
	DownloadEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	downloadWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicDownloadEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		DownloadEventsWriter: downloadWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishDownloadEvent(ctx context.Context, payload DownloadEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode download event: %w", err)
	}

	return c.DownloadEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.UserEmail),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.DownloadEventsWriter != nil {
		c.DownloadEventsWriter.Close()
	}
}
