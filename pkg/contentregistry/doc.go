// Package contentregistry provides a registry of pluggable content-type
// backends and the supporting types for versioned, schema-validated RPC
// dispatch against them.
//
// A content type is registered once with an identifier, a storage adapter,
// and the latest API version the backend supports. Procedures (see the rpc
// subpackage) resolve content types through the registry, negotiate the
// caller's requested version against the backend's latest version, and
// delegate to the storage adapter. Storage adapter implementations (memory,
// Postgres, S3) are provided under the storage subpackages.
//
// The registry is an explicit, constructed instance rather than a package
// global, so multiple isolated registries can coexist (per test, per tenant).
package contentregistry
