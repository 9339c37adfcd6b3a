package services

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/replikit/tap-covid19/internal/connectors/github"
	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
	"github.com/replikit/tap-covid19/internal/core/ports/driving"
	"github.com/replikit/tap-covid19/internal/logger"
)

// isoFormat is the canonical timestamp layout used by bookmarks.
const isoFormat = "2006-01-02T15:04:05Z"

// Ensure Orchestrator implements the interface.
var _ driving.SyncRunner = (*Orchestrator)(nil)

// Orchestrator drives replication: discovery, conditional fetch,
// parsing, bookmark-aware filtering, emission, and bookmark
// advancement, one stream at a time. It is the sole owner of the
// replication state; every bookmark change is flushed synchronously.
type Orchestrator struct {
	fetcher  driven.Fetcher
	states   driven.StateStore
	writer   driven.MessageWriter
	registry driven.NormaliserRegistry
	config   domain.Config

	// now is injectable for deterministic version tokens in tests.
	now func() time.Time

	// lastVersion keeps version tokens strictly increasing within a
	// run even when the clock does not advance between mints.
	lastVersion int64
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(
	fetcher driven.Fetcher,
	states driven.StateStore,
	writer driven.MessageWriter,
	registry driven.NormaliserRegistry,
	config domain.Config,
) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		states:   states,
		writer:   writer,
		registry: registry,
		config:   config,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Used by tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run syncs every stream with a selection, in declared order. A
// persisted currently-syncing marker shifts the starting point so an
// interrupted run resumes at the stream it was processing.
// Authentication and persistence failures abort the run; any other
// stream failure is logged and the remaining streams still sync.
func (o *Orchestrator) Run(ctx context.Context, catalog *domain.Catalog) (*driving.RunSummary, error) {
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	state, err := o.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", domain.ErrStateWrite, err)
	}

	summary := &driving.RunSummary{
		RunID:       uuid.New().String(),
		FileRecords: make(map[string]int),
		RowRecords:  make(map[string]int),
	}
	logger.Info("starting sync run %s", summary.RunID)

	streams := domain.Streams()
	start := 0
	if state.CurrentlySyncing != "" {
		for i, s := range streams {
			if s.Name == state.CurrentlySyncing {
				start = i
				logger.Info("resuming interrupted run at stream %s", s.Name)
				break
			}
		}
	}

	var streamErrs []error
	for _, stream := range streams[start:] {
		if !o.streamWanted(stream, catalog) {
			continue
		}

		state.CurrentlySyncing = stream.Name
		if err := o.persist(ctx, state); err != nil {
			return summary, err
		}

		logger.Info("syncing stream %s", stream.Name)
		if err := o.syncStream(ctx, stream, catalog, state, summary); err != nil {
			if o.isRunFatal(err) {
				return summary, fmt.Errorf("stream %s: %w", stream.Name, err)
			}
			logger.Error("stream %s failed: %v", stream.Name, err)
			streamErrs = append(streamErrs, fmt.Errorf("stream %s: %w", stream.Name, err))
			continue
		}

		state.CurrentlySyncing = ""
		if err := o.persist(ctx, state); err != nil {
			return summary, err
		}
		logger.Info("finished stream %s: %d file records, %d row records",
			stream.Name, summary.FileRecords[stream.Name], o.childTotal(stream, summary))
	}

	// A cleanly finished run leaves no marker behind even when the
	// last selected stream failed.
	state.CurrentlySyncing = ""
	if err := o.persist(ctx, state); err != nil {
		return summary, err
	}

	return summary, errors.Join(streamErrs...)
}

// streamWanted reports whether the file stream or any of its children
// are selected. Child emission requires walking the parent's file
// loop, so a selected child pulls its parent in.
func (o *Orchestrator) streamWanted(stream domain.StreamDescriptor, catalog *domain.Catalog) bool {
	if catalog.IsSelected(stream.Name) {
		return true
	}
	for _, c := range stream.Children {
		if catalog.IsSelected(c.Name) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) childTotal(stream domain.StreamDescriptor, summary *driving.RunSummary) int {
	total := 0
	for _, c := range stream.Children {
		total += summary.RowRecords[c.Name]
	}
	return total
}

// isRunFatal reports whether a stream error must abort the whole run.
func (o *Orchestrator) isRunFatal(err error) bool {
	return errors.Is(err, domain.ErrStateWrite) ||
		errors.Is(err, domain.ErrMissingAPIToken) ||
		github.IsUnauthorized(err)
}

// syncStream replicates one file stream and its selected children
// through all discovery pages.
func (o *Orchestrator) syncStream(
	ctx context.Context,
	stream domain.StreamDescriptor,
	catalog *domain.Catalog,
	state *domain.ReplicationState,
	summary *driving.RunSummary,
) error {
	bookmarkField := stream.BookmarkField()
	lastBookmark := state.StringBookmark(stream.Name, o.config.StartDate)
	maxBookmark := lastBookmark

	// Conditional-fetch header value in the API's wire date format.
	condValue := ""
	if stream.BookmarkQueryField != "" {
		if t, ok := parseBookmark(lastBookmark); ok {
			condValue = t.UTC().Format(http.TimeFormat)
		}
	}

	if err := o.writeSchemas(stream, catalog); err != nil {
		return err
	}

	children := o.selectedChildren(stream, catalog)
	versions := make(map[string]int64, len(children))
	for _, child := range children {
		version := o.newVersion()
		versions[child.Name] = version
		// First-ever sync of a versioned child announces its version
		// before any rows.
		if state.VersionBookmark(child.Name) == 0 {
			if err := o.writer.WriteActivateVersion(child.Name, version); err != nil {
				return fmt.Errorf("%w: activate version for %s: %v", domain.ErrStateWrite, child.Name, err)
			}
		}
	}

	nextURL := stream.SearchPath
	page := 0
	for nextURL != "" {
		page++
		logger.Debug("stream %s: discovery page %d: %s", stream.Name, page, nextURL)

		body, next, err := o.fetcher.Fetch(ctx, http.MethodGet, nextURL, nil)
		if err != nil {
			return fmt.Errorf("discovery: %w", err)
		}
		timeExtracted := o.now().UTC()

		items := resultItems(body, stream.DataKey)
		// An empty result list ends the stream, continuation or not.
		if len(items) == 0 {
			logger.Info("stream %s: no files found on page %d", stream.Name, page)
			break
		}

		fileRecords, rowsByChild, err := o.fetchPage(ctx, stream, children, items, condValue)
		if err != nil {
			return err
		}

		emitted, newMax, err := o.emitFiltered(stream.Name, fileRecords, timeExtracted, bookmarkField, lastBookmark, maxBookmark)
		if err != nil {
			return err
		}
		maxBookmark = newMax
		summary.FileRecords[stream.Name] += emitted

		for _, child := range children {
			for _, rec := range rowsByChild[child.Name] {
				if err := o.writer.WriteRecord(child.Name, rec, timeExtracted, versions[child.Name]); err != nil {
					return fmt.Errorf("%w: record for %s: %v", domain.ErrStateWrite, child.Name, err)
				}
				summary.RowRecords[child.Name]++
			}
		}

		// Bookmark state is flushed after every successful page so a
		// crash resumes without replaying finished pages.
		if bookmarkField != "" {
			state.SetBookmark(stream.Name, maxBookmark)
			if err := o.persist(ctx, state); err != nil {
				return err
			}
		}

		nextURL = next
	}

	// Full-replace boundary: the trailing activate-version instructs
	// consumers to discard rows not re-sent under this version.
	for _, child := range children {
		if err := o.writer.WriteActivateVersion(child.Name, versions[child.Name]); err != nil {
			return fmt.Errorf("%w: activate version for %s: %v", domain.ErrStateWrite, child.Name, err)
		}
		state.SetBookmark(child.Name, versions[child.Name])
	}

	if bookmarkField != "" {
		state.SetBookmark(stream.Name, maxBookmark)
	}
	return o.persist(ctx, state)
}

// fetchPage conditionally fetches every discovered file on a page and
// parses its rows for the selected children.
func (o *Orchestrator) fetchPage(
	ctx context.Context,
	stream domain.StreamDescriptor,
	children []domain.ChildStreamDescriptor,
	items []domain.DiscoveredFile,
	condValue string,
) ([]domain.Record, map[string][]domain.Record, error) {
	var fileRecords []domain.Record
	rowsByChild := make(map[string][]domain.Record)

	for _, item := range items {
		headers := map[string]string{}
		if stream.BookmarkQueryField != "" && condValue != "" {
			headers[stream.BookmarkQueryField] = condValue
		}

		fileBody, _, err := o.fetcher.Fetch(ctx, http.MethodGet, item.URL, headers)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s: %w", item.URL, err)
		}
		if fileBody == nil {
			// 304: unchanged since the bookmark. The file contributes
			// neither a record nor rows this run.
			logger.Debug("stream %s: %s not modified", stream.Name, item.Path)
			continue
		}

		file := fetchedFile(fileBody)
		rows := o.parseRows(stream, file)

		// The emitted file record never carries the body.
		fileRecord := make(domain.Record, len(fileBody))
		for k, v := range fileBody {
			if k == "content" || k == "_links" {
				continue
			}
			fileRecord[k] = v
		}
		fileRecords = append(fileRecords, fileRecord)

		for _, child := range children {
			for _, row := range rows {
				rec, err := o.registry.Normalise(child.Name, row)
				if err != nil {
					return nil, nil, fmt.Errorf("normalise %s row %v of %s: %w",
						child.Name, row[domain.FieldRowNumber], file.Path, err)
				}
				if rec == nil {
					continue // dropped
				}
				rowsByChild[child.Name] = append(rowsByChild[child.Name], rec)
			}
		}
	}

	return fileRecords, rowsByChild, nil
}

// parseRows decodes a fetched file and parses its delimited rows,
// attaching the provenance fields and the 1-based row ordinal.
// Malformed content drops the file's rows with a warning; the file
// record itself is still emitted.
func (o *Orchestrator) parseRows(stream domain.StreamDescriptor, file domain.FetchedFile) []domain.RawRow {
	if file.Content == "" {
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		logger.Warn("stream %s: undecodable content in %s: %v", stream.Name, file.Path, err)
		return nil
	}

	text := string(decoded)
	for i := 0; i < stream.SkipHeaderRows; i++ {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			return nil
		}
		text = text[idx+1:]
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = stream.Delimiter()
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		logger.Warn("stream %s: unparseable content in %s: %v", stream.Name, file.Path, err)
		return nil
	}
	if len(records) < 2 {
		return nil
	}

	header := records[0]
	rows := make([]domain.RawRow, 0, len(records)-1)
	for i, fields := range records[1:] {
		row := make(domain.RawRow, len(header)+5)
		for j, col := range header {
			if j < len(fields) {
				row[col] = fields[j]
			}
		}
		row[domain.FieldGitPath] = file.Path
		row[domain.FieldGitSHA] = file.SHA
		row[domain.FieldGitLastModified] = file.LastModified
		row[domain.FieldGitFileName] = file.Name
		row[domain.FieldRowNumber] = i + 1
		rows = append(rows, row)
	}
	return rows
}

// emitFiltered applies the bookmark rule to a batch of candidates:
// a record is emitted when its bookmark value is at or after the
// stream's bookmark at run start; every candidate updates the running
// maximum, but only strictly greater values move it.
func (o *Orchestrator) emitFiltered(
	stream string,
	records []domain.Record,
	timeExtracted time.Time,
	bookmarkField, lastBookmark, maxBookmark string,
) (int, string, error) {
	emitted := 0
	for _, rec := range records {
		if bookmarkField == "" {
			if err := o.writer.WriteRecord(stream, rec, timeExtracted, 0); err != nil {
				return emitted, maxBookmark, fmt.Errorf("%w: record for %s: %v", domain.ErrStateWrite, stream, err)
			}
			emitted++
			continue
		}

		value, _ := rec[bookmarkField].(string)
		valueTime, ok := parseBookmark(value)
		if !ok {
			// No usable bookmark on the record: emit unconditionally.
			if err := o.writer.WriteRecord(stream, rec, timeExtracted, 0); err != nil {
				return emitted, maxBookmark, fmt.Errorf("%w: record for %s: %v", domain.ErrStateWrite, stream, err)
			}
			emitted++
			continue
		}

		if maxTime, ok := parseBookmark(maxBookmark); !ok || valueTime.After(maxTime) {
			maxBookmark = value
		}

		lastTime, haveLast := parseBookmark(lastBookmark)
		if !haveLast || !valueTime.Before(lastTime) {
			if err := o.writer.WriteRecord(stream, rec, timeExtracted, 0); err != nil {
				return emitted, maxBookmark, fmt.Errorf("%w: record for %s: %v", domain.ErrStateWrite, stream, err)
			}
			emitted++
		}
	}
	return emitted, maxBookmark, nil
}

// writeSchemas announces the file stream's schema and the schemas of
// its selected children before any data.
func (o *Orchestrator) writeSchemas(stream domain.StreamDescriptor, catalog *domain.Catalog) error {
	if catalog.IsSelected(stream.Name) {
		entry, _ := catalog.Entry(stream.Name)
		if err := o.writer.WriteSchema(stream.Name, entry.Schema, entry.KeyProperties); err != nil {
			return fmt.Errorf("%w: schema for %s: %v", domain.ErrStateWrite, stream.Name, err)
		}
	}
	for _, child := range o.selectedChildren(stream, catalog) {
		entry, _ := catalog.Entry(child.Name)
		if err := o.writer.WriteSchema(child.Name, entry.Schema, entry.KeyProperties); err != nil {
			return fmt.Errorf("%w: schema for %s: %v", domain.ErrStateWrite, child.Name, err)
		}
	}
	return nil
}

func (o *Orchestrator) selectedChildren(stream domain.StreamDescriptor, catalog *domain.Catalog) []domain.ChildStreamDescriptor {
	var selected []domain.ChildStreamDescriptor
	for _, c := range stream.Children {
		if catalog.IsSelected(c.Name) {
			selected = append(selected, c)
		}
	}
	return selected
}

// persist flushes state to durable storage and mirrors it on the
// output stream. Failures are always fatal.
func (o *Orchestrator) persist(ctx context.Context, state *domain.ReplicationState) error {
	if err := o.states.Save(ctx, state); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateWrite, err)
	}
	if err := o.writer.WriteState(state); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateWrite, err)
	}
	return nil
}

// newVersion mints a wall-clock version token, strictly increasing
// within the run.
func (o *Orchestrator) newVersion() int64 {
	v := o.now().UnixMilli()
	if v <= o.lastVersion {
		v = o.lastVersion + 1
	}
	o.lastVersion = v
	return v
}

// resultItems extracts the discovered files from a search response.
func resultItems(body map[string]any, dataKey string) []domain.DiscoveredFile {
	if body == nil {
		return nil
	}
	raw, _ := body[dataKey].([]any)
	files := make([]domain.DiscoveredFile, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		f := domain.DiscoveredFile{}
		f.Path, _ = m["path"].(string)
		f.Name, _ = m["name"].(string)
		f.URL, _ = m["url"].(string)
		if f.URL != "" {
			files = append(files, f)
		}
	}
	return files
}

// fetchedFile pulls the typed envelope out of a content response.
func fetchedFile(body map[string]any) domain.FetchedFile {
	f := domain.FetchedFile{}
	f.Content, _ = body["content"].(string)
	f.SHA, _ = body["sha"].(string)
	f.Path, _ = body["path"].(string)
	f.Name, _ = body["name"].(string)
	f.LastModified, _ = body["last_modified"].(string)
	return f
}

// parseBookmark parses a bookmark timestamp in either the canonical
// layout or RFC-3339.
func parseBookmark(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(isoFormat, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
