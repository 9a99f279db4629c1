package adapter

import (
	"sort"
	"sync"

	"github.com/harpproto/harp/internal/doc"
	"github.com/harpproto/harp/internal/identity"
)

// Event is a generic platform event. Each platform defines its own event
// types and payload keys.
type Event struct {
	// Platform identifies the source platform ("moltx", "airc", ...).
	Platform string

	// EventType is the platform-specific event name.
	EventType string

	// Timestamp is the ISO 8601 time of the event.
	Timestamp string

	// Entities lists the entities involved. The first entry is treated as
	// the acting party.
	Entities []identity.EntityID

	// Payload carries platform-specific fields.
	Payload map[string]any
}

// Actor returns the acting entity, or "" when the event names none.
func (e Event) Actor() identity.EntityID {
	if len(e.Entities) == 0 {
		return ""
	}
	return e.Entities[0]
}

// An Adapter translates one platform's events into document sections.
type Adapter interface {
	// Platform is the platform identifier this adapter handles.
	Platform() string

	// Description is a human-readable summary of what the adapter captures.
	Description() string

	// Produces lists the section types the adapter can emit.
	Produces() []doc.SectionType

	// CanHandle reports whether the adapter recognizes an event type.
	CanHandle(eventType string) bool

	// Translate turns an event into sections. Irrelevant events yield nil.
	Translate(e Event) []doc.Section
}

// Registry routes events to the adapter registered for their platform.
// Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register installs an adapter, replacing any previous adapter for the
// same platform.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	r.adapters[a.Platform()] = a
	r.mu.Unlock()
}

// Get returns the adapter for a platform, or nil when none is registered.
func (r *Registry) Get(platform string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[platform]
}

// Translate routes an event to its platform's adapter. Events for
// unregistered platforms or unrecognized event types yield nil.
func (r *Registry) Translate(e Event) []doc.Section {
	a := r.Get(e.Platform)
	if a == nil || !a.CanHandle(e.EventType) {
		return nil
	}
	return a.Translate(e)
}

// List returns all registered adapters ordered by platform name.
func (r *Registry) List() []Adapter {
	r.mu.RLock()
	out := make([]Adapter, 0, len(r.adapters))
	for _, a := range r.adapters {
		out = append(out, a)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Platform() < out[j].Platform() })
	return out
}

// Default returns a registry with every built-in adapter installed.
func Default() *Registry {
	r := NewRegistry()
	r.Register(AIRC{})
	r.Register(MoltX{})
	return r
}

// payloadString extracts a string payload field, "" when absent or not a
// string.
func payloadString(p map[string]any, key string) string {
	s, _ := p[key].(string)
	return s
}

// payloadInt extracts an integer payload field. JSON decoding produces
// float64 for numbers, so both forms are accepted.
func payloadInt(p map[string]any, key string) (int64, bool) {
	switch v := p[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	}
	return 0, false
}
