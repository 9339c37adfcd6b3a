package domain

// Provenance field names attached to every parsed row before
// normalisation. Row ordinals are 1-based within their source file.
const (
	FieldGitPath         = "git_path"
	FieldGitSHA          = "git_sha"
	FieldGitLastModified = "git_last_modified"
	FieldGitFileName     = "git_file_name"
	FieldRowNumber       = "row_number"
)

// IsProvenanceField reports whether key is one of the provenance
// fields attached by the orchestrator rather than a source column.
func IsProvenanceField(key string) bool {
	switch key {
	case FieldGitPath, FieldGitSHA, FieldGitLastModified, FieldGitFileName, FieldRowNumber:
		return true
	}
	return false
}

// DiscoveredFile is one code-search result entry. It lives only for
// the page iteration that produced it.
type DiscoveredFile struct {
	Path string
	Name string

	// URL is the content-API URL used to retrieve the file body.
	URL string
}

// FetchedFile is the content envelope returned by the file endpoint.
// Content is base64-encoded and is decoded exactly once; the emitted
// file record never carries the body.
type FetchedFile struct {
	Content string
	SHA     string
	Path    string
	Name    string

	// LastModified is the Last-Modified response header normalised to
	// ISO-8601 UTC, or "" when the header was absent.
	LastModified string
}

// RawRow is a parsed delimited row (column name -> value) augmented
// with the provenance fields above. Normalisers must treat it as
// read-only.
type RawRow map[string]any

// Record is a canonical output row: the provenance fields plus a
// stream-specific set of typed fields.
type Record map[string]any

// Clone returns a shallow copy, so callers can decorate a row without
// mutating the original.
func (r RawRow) Clone() RawRow {
	if r == nil {
		return nil
	}
	out := make(RawRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value under key as a string, or "" when absent
// or not a string.
func (r RawRow) String(key string) string {
	s, _ := r[key].(string)
	return s
}
