package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/messaging"
	"restaurant-pos/internal/models"
)

func TestFormatNotification(t *testing.T) {
	ts := time.Date(2025, 1, 1, 18, 5, 0, 0, time.UTC)
	tests := []struct {
		name   string
		update models.StatusUpdateMessage
		want   string
	}{
		{
			name:   "ready",
			update: models.StatusUpdateMessage{OrderNumber: "250101-004", OldStatus: models.StatusPreparing, NewStatus: models.StatusReady, Timestamp: ts},
			want:   "[18:05:00] Order 250101-004 is ready to be served!",
		},
		{
			name:   "delivered",
			update: models.StatusUpdateMessage{OrderNumber: "250101-005", NewStatus: models.StatusDelivered, ChangedBy: "kuba", Timestamp: ts},
			want:   "[18:05:00] Order 250101-005 delivered by kuba.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatNotification(&tt.update); got != tt.want {
				t.Errorf("FormatNotification() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubscriber_HandleMessage(t *testing.T) {
	var out bytes.Buffer
	s := NewSubscriber(nil, &out, logger.NewWithWriter("test", io.Discard))

	if err := s.HandleMessage(context.Background(), []byte("not json")); !errors.Is(err, messaging.ErrMalformed) {
		t.Errorf("HandleMessage() error = %v, want malformed", err)
	}

	body := []byte(`{"order_number":"250101-001","old_status":"new","new_status":"preparing","timestamp":"2025-01-01T12:00:00Z"}`)
	if err := s.HandleMessage(context.Background(), body); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if out.String() != "[12:00:00] Order 250101-001 is being prepared.\n" {
		t.Errorf("output = %q", out.String())
	}
}
