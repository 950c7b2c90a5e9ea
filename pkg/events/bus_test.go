package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var got []string
	bus.Subscribe(TypeUtterance, func(e Event) {
		got = append(got, e.Data["text"].(string))
	})

	bus.PublishEvent(TypeUtterance, map[string]interface{}{"text": "첫 번째"}, "test")
	bus.PublishEvent(TypeUtterance, map[string]interface{}{"text": "두 번째"}, "test")

	assert.Equal(t, []string{"첫 번째", "두 번째"}, got)
}

func TestWildcardSubscriberSeesEverything(t *testing.T) {
	bus := NewEventBus()
	var types []string
	bus.Subscribe("*", func(e Event) { types = append(types, e.Type) })

	bus.PublishEvent(TypePhaseChanged, nil, "test")
	bus.PublishEvent(TypeCrmUpdated, nil, "test")

	assert.Equal(t, []string{TypePhaseChanged, TypeCrmUpdated}, types)
}

func TestTypedSubscriberIgnoresOtherTypes(t *testing.T) {
	bus := NewEventBus()
	count := 0
	bus.Subscribe(TypeRunnerStep, func(Event) { count++ })

	bus.PublishEvent(TypePhaseChanged, nil, "test")
	assert.Zero(t, count)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	bus.Subscribe(TypeError, func(Event) { count++ })
	bus.Unsubscribe(TypeError)

	bus.PublishEvent(TypeError, nil, "test")
	assert.Zero(t, count)
}

func TestPublishStampsTimestamp(t *testing.T) {
	bus := NewEventBus()
	var seen Event
	bus.Subscribe(TypeError, func(e Event) { seen = e })

	bus.Publish(Event{Type: TypeError})
	require.False(t, seen.Timestamp.IsZero())
}
