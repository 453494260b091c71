package contentregistry

import "context"

// Storage defines the interface a content-type backend must implement.
//
// Items are backend-defined; adapters return them as decoded JSON-style
// values (a plain object for a well-behaved backend). Adapter errors
// propagate unchanged to the procedure caller: the procedures never wrap,
// retry, or reinterpret them. Adapters should observe ctx cancellation.
type Storage interface {
	// Get retrieves an item. The version spec carries both the negotiated
	// requested version and the backend's latest version.
	Get(ctx context.Context, version VersionSpec, id string, options map[string]any) (any, error)

	// Create stores a new item and returns it. An empty id asks the
	// adapter to generate one.
	Create(ctx context.Context, version VersionSpec, id string, fields map[string]any) (any, error)

	// Update replaces the fields of an existing item and returns it.
	Update(ctx context.Context, version VersionSpec, id string, fields map[string]any) (any, error)

	// Delete removes an item.
	Delete(ctx context.Context, version VersionSpec, id string) error
}

// EventBus defines the interface for registration notifications.
//
// Emit is fire-and-forget: the registry never waits for delivery and a
// failing subscriber must not surface an error to the publisher.
type EventBus interface {
	Emit(event string, payload any)
}
