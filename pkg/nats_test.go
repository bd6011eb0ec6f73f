package pkg

import (
	"context"
	"testing"
)

func TestNATSPublisherNotConnected(t *testing.T) {
	tests := []struct {
		name      string
		publisher *NATSPublisher
	}{
		{name: "nilPublisher", publisher: nil},
		{name: "nilConnection", publisher: &NATSPublisher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.publisher.Publish(context.Background(), TableStatusTopic, []byte("{}")); err == nil {
				t.Error("Publish() error = nil, want not connected")
			}
			if err := tt.publisher.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestNewNATSPublisherUnreachable(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", "floor-test"); err == nil {
		t.Error("NewNATSPublisher() error = nil for an unreachable server")
	}
}
