// Package driving defines the inbound ports of the replication core,
// implemented by services and called by the CLI.
package driving
