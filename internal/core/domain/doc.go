// Package domain defines the core replication entities: the stream
// registry, raw rows and canonical records with their provenance
// fields, the persisted replication state, the catalog, and the tap
// configuration.
//
// Domain is at the centre of the hexagon. It imports only the Go
// standard library; every other package depends on domain, never the
// reverse.
package domain
