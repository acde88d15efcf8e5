package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

type NATSEventPublisher struct {
	conn *nats.Conn
}

func NewNATSEventPublisher(url string) (*NATSEventPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("weddingplanner"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSEventPublisher{conn: conn}, nil
}

func (p *NATSEventPublisher) Publish(_ context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

func (p *NATSEventPublisher) Close() error {
	return p.conn.Drain()
}
