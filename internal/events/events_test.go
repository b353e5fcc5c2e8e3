package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/groblegark/entityd/internal/model"
	"github.com/nats-io/nats.go"
)

func TestNoopPublisher_Publish(t *testing.T) {
	pub := &NoopPublisher{}
	err := pub.Publish(context.Background(), TopicEntityCreated, EntityCreated{})
	if err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_Close(t *testing.T) {
	pub := &NoopPublisher{}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNoopPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture published messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	received := make(chan []byte, 1)
	sub, err := nc.Subscribe(TopicEntityCreated, func(msg *nats.Msg) {
		received <- msg.Data
	})
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		t.Fatalf("flushing subscription: %v", err)
	}

	event := EntityCreated{Entity: &model.Entity{
		ID:        1,
		CreatedBy: "alice",
		Data:      json.RawMessage(`{"a":1}`),
	}}
	if err := pub.Publish(context.Background(), TopicEntityCreated, event); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	select {
	case data := <-received:
		var got EntityCreated
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshaling received event: %v", err)
		}
		if got.Entity == nil || got.Entity.ID != 1 || got.Entity.CreatedBy != "alice" {
			t.Errorf("received event %+v", got.Entity)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
