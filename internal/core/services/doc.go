// Package services contains the replication core: the sync
// orchestrator driving discovery, conditional fetch, parsing,
// bookmark filtering, and emission, plus catalog generation.
package services
