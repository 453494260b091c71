package contentregistry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// EventContentTypeRegistered is emitted on the event bus after a successful
// registration.
const EventContentTypeRegistered = "contentType.registered"

// RegisteredEvent is the payload emitted with EventContentTypeRegistered.
type RegisteredEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	ContentTypeID string    `json:"content_type_id"`
	Latest        string    `json:"latest"`
	RegisteredAt  time.Time `json:"registered_at"`
}

// Registry maps content-type ids to their registered definitions.
//
// Registration normally happens during a non-concurrent bootstrap phase, but
// late registration is admitted: Register and Get are safe under unbounded
// concurrent readers with single-writer exclusion.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]ContentTypeDefinition
	bus  EventBus
}

// RegistryOption represents a functional option for configuring a registry
type RegistryOption func(*Registry)

// WithEventBus sets the event bus notified on registration
func WithEventBus(bus EventBus) RegistryOption {
	return func(r *Registry) {
		r.bus = bus
	}
}

// NewRegistry creates an empty registry with the given options
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		defs: make(map[string]ContentTypeDefinition),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Register stores a content-type definition keyed by its id. Registering an
// id that is already present fails; hot-swapping a backend is not supported.
// When an event bus is configured, a registration event is emitted
// fire-and-forget; event delivery failures never fail registration.
func (r *Registry) Register(def ContentTypeDefinition) error {
	if def.ID == "" {
		return &RegistrationError{ID: def.ID, Err: fmt.Errorf("id is required")}
	}
	if def.Storage == nil {
		return &RegistrationError{ID: def.ID, Err: fmt.Errorf("storage adapter is required")}
	}
	if def.Latest <= 0 {
		return &RegistrationError{ID: def.ID, Err: fmt.Errorf("latest version is required")}
	}

	r.mu.Lock()
	if _, exists := r.defs[def.ID]; exists {
		r.mu.Unlock()
		return &RegistrationError{ID: def.ID, Err: ErrAlreadyRegistered}
	}
	r.defs[def.ID] = def
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.Emit(EventContentTypeRegistered, RegisteredEvent{
			EventID:       uuid.New(),
			ContentTypeID: def.ID,
			Latest:        def.Latest.String(),
			RegisteredAt:  time.Now().UTC(),
		})
	}

	return nil
}

// Get looks up a content type by id. It never errors; an unknown id returns
// ok=false, leaving error semantics to the caller.
func (r *Registry) Get(id string) (ContentTypeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	return def, ok
}

// List returns the registered content-type ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	ids := maps.Keys(r.defs)
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
