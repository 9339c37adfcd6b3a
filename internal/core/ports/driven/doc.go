// Package driven defines the outbound ports of the replication core:
// the transport, state persistence, output delivery, and row
// normalisation contracts that adapters implement.
package driven
