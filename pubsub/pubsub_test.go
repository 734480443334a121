package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SubscribeValidatesStream(t *testing.T) {
	var registry Registry

	_, err := registry.Subscribe(nil)
	assert.Error(t, err)

	_, err = registry.Subscribe(make(chan Event))
	assert.Error(t, err, "unbuffered streams can't receive non-blocking sends")
}

func TestRegistry_PublishReachesEverySubscriber(t *testing.T) {
	var registry Registry

	streams := []chan Event{
		make(chan Event, 1),
		make(chan Event, 1),
	}
	for _, stream := range streams {
		_, err := registry.Subscribe(stream)
		require.NoError(t, err)
	}

	registry.Publish(Event{Kind: "uploaded", Payload: "abc123"})

	for _, stream := range streams {
		select {
		case event := <-stream:
			assert.Equal(t, "uploaded", event.Kind)
			assert.Equal(t, "abc123", event.Payload)
		default:
			assert.Fail(t, "subscriber didn't receive the event")
		}
	}
}

func TestRegistry_PublishSkipsFullStreams(t *testing.T) {
	var registry Registry

	full := make(chan Event, 1)
	full <- Event{Kind: "stale"}
	_, err := registry.Subscribe(full)
	require.NoError(t, err)

	empty := make(chan Event, 1)
	_, err = registry.Subscribe(empty)
	require.NoError(t, err)

	registry.Publish(Event{Kind: "uploaded"})

	assert.Equal(t, "stale", (<-full).Kind, "full stream keeps its old event")
	assert.Equal(t, "uploaded", (<-empty).Kind)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	var registry Registry

	stream := make(chan Event, 1)
	id, err := registry.Subscribe(stream)
	require.NoError(t, err)

	registry.Unsubscribe(id)
	registry.Publish(Event{Kind: "uploaded"})

	select {
	case <-stream:
		assert.Fail(t, "unsubscribed stream received an event")
	default:
	}
}

func TestRegistry_UnsubscribeUnknownID(t *testing.T) {
	var registry Registry
	registry.Unsubscribe("never-subscribed")
}
