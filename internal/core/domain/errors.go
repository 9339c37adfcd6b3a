package domain

import "errors"

// Domain errors represent replication failures that are independent of
// any particular transport or storage backend.
var (
	// ErrMissingAPIToken indicates the config carries no credential.
	// Fatal before any network call.
	ErrMissingAPIToken = errors.New("missing api_token in config")

	// ErrMissingStartDate indicates the config carries no start date.
	ErrMissingStartDate = errors.New("missing start_date in config")

	// ErrInvalidStartDate indicates the start date is not ISO-8601.
	ErrInvalidStartDate = errors.New("start_date is not a valid ISO-8601 timestamp")

	// ErrUnknownStream indicates a selection names a stream that is not
	// in the registry.
	ErrUnknownStream = errors.New("unknown stream")

	// ErrMissingFileName indicates a row reached a normaliser without
	// its originating file name. The file name is required to derive
	// the row's date, so this terminates the stream's sync.
	ErrMissingFileName = errors.New("row is missing its source file name")

	// ErrStateWrite indicates replication state or output could not be
	// persisted. Always fatal: continuing with un-persisted bookmarks
	// risks silent data loss or duplication on the next run.
	ErrStateWrite = errors.New("state write failed")
)
