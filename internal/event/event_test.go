package event

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	var hooked []Type
	bus.OnHandlerError(func(t Type, _ error) { hooked = append(hooked, t) })

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
	if len(hooked) != 1 || hooked[0] != eventType {
		t.Errorf("Expected one hook call for %s, got %v", eventType, hooked)
	}
}

func TestNewActionEvent(t *testing.T) {
	evt := NewActionEvent(ActionResolved, ActionPayloadV1{
		Key:     "water-1001-0",
		Action:  "water",
		PlotID:  "1001",
		Outcome: "succeeded",
	})

	if evt.Type != ActionResolved {
		t.Errorf("Expected type %s, got %s", ActionResolved, evt.Type)
	}
	if evt.GetMetadataValue("key") != "water-1001-0" {
		t.Errorf("Expected key metadata, got %v", evt.GetMetadataValue("key"))
	}

	payload, err := DecodePayload[ActionPayloadV1](evt.Payload)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.Timestamp == 0 {
		t.Error("Expected timestamp to be filled")
	}
}

func TestDecodePayload_FromMap(t *testing.T) {
	raw := map[string]interface{}{"farm_id": "42", "attempts": 3, "successes": 1}

	payload, err := DecodePayload[RefreshPayloadV1](raw)
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.FarmID != "42" || payload.Attempts != 3 || payload.Successes != 1 {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

func TestDecodePayload_PointerAndMismatch(t *testing.T) {
	payload, err := DecodePayload[ClockPayloadV1](&ClockPayloadV1{Stale: true, ConsecutiveFailures: 2})
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if !payload.Stale || payload.ConsecutiveFailures != 2 {
		t.Errorf("Unexpected payload: %+v", payload)
	}

	if _, err := DecodePayload[ClockPayloadV1]("not a payload"); err == nil {
		t.Error("Expected error decoding a string into a struct")
	}
}
