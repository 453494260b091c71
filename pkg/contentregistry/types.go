package contentregistry

// ContentTypeDefinition describes a pluggable content-type backend.
type ContentTypeDefinition struct {
	// ID is the unique key of the content type within a registry.
	ID string

	// Storage is the adapter the procedures delegate item operations to.
	Storage Storage

	// Latest is the highest API version the backend currently supports.
	Latest Version
}

// VersionSpec is the outcome of version negotiation. Both values are handed
// to the storage adapter so the backend can branch on requested-vs-latest,
// for example to run an internal schema migration.
type VersionSpec struct {
	Request Version
	Latest  Version
}
