package pubsub

import (
	"errors"
	"sync"

	"github.com/rs/xid"
)

// Event describes something that happened to a puzzle in the archive: one
// was uploaded, verified, unlocked, or removed.
type Event struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// SubscriberID identifies a subscribed client so that it can later be
// unsubscribed.
type SubscriberID string

// Registry fans archive events out to every subscribed client stream.  It is
// safe to use from multiple goroutines.
type Registry struct {
	sync.Mutex
	streams map[SubscriberID]chan<- Event
}

// Subscribe registers a stream to receive all future events.  The stream
// must be buffered; events for a subscriber whose stream is full are
// dropped rather than blocking the publisher.  The returned id unsubscribes
// the stream later.  The stream must not be closed before unsubscribing.
func (r *Registry) Subscribe(stream chan<- Event) (SubscriberID, error) {
	if stream == nil {
		return "", errors.New("nil event stream")
	}

	if cap(stream) == 0 {
		return "", errors.New("event stream must have a non-zero capacity")
	}

	r.Lock()
	defer r.Unlock()

	if r.streams == nil {
		r.streams = make(map[SubscriberID]chan<- Event)
	}

	id := SubscriberID(xid.New().String())
	r.streams[id] = stream

	return id, nil
}

// Unsubscribe removes a previously subscribed stream.  Unknown ids are
// ignored.
func (r *Registry) Unsubscribe(id SubscriberID) {
	r.Lock()
	defer r.Unlock()

	delete(r.streams, id)
}

// Publish sends an event to every subscriber.  Sends are non-blocking: a
// subscriber that isn't draining its stream misses the event.
func (r *Registry) Publish(event Event) {
	r.Lock()
	defer r.Unlock()

	for _, stream := range r.streams {
		select {
		case stream <- event:
		default:
		}
	}
}
