// Package emitter delivers the output record stream as Singer-shaped
// JSON lines: SCHEMA, RECORD, ACTIVATE_VERSION, and STATE messages.
package emitter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/replikit/tap-covid19/internal/core/domain"
	"github.com/replikit/tap-covid19/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.MessageWriter = (*Writer)(nil)

// message is one output line. Field presence depends on the type.
type message struct {
	Type          string         `json:"type"`
	Stream        string         `json:"stream,omitempty"`
	Schema        map[string]any `json:"schema,omitempty"`
	KeyProperties []string       `json:"key_properties,omitempty"`
	Record        domain.Record  `json:"record,omitempty"`
	TimeExtracted string         `json:"time_extracted,omitempty"`
	Version       int64          `json:"version,omitempty"`
	Value         any            `json:"value,omitempty"`
}

// Writer encodes messages onto an io.Writer, one JSON object per line.
// The CLI hands it stdout; tests hand it a buffer. Writes are
// serialised: downstream consumers rely on message order.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// New creates a message writer.
func New(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// WriteSchema announces a stream's schema.
func (w *Writer) WriteSchema(stream string, schema map[string]any, keyProperties []string) error {
	return w.write(message{
		Type:          "SCHEMA",
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	})
}

// WriteRecord emits one data record, tagged with the extraction time
// and, for full-replace streams, the run's version token.
func (w *Writer) WriteRecord(stream string, record domain.Record, timeExtracted time.Time, version int64) error {
	return w.write(message{
		Type:          "RECORD",
		Stream:        stream,
		Record:        record,
		TimeExtracted: timeExtracted.UTC().Format(time.RFC3339),
		Version:       version,
	})
}

// WriteActivateVersion signals a full-replace boundary.
func (w *Writer) WriteActivateVersion(stream string, version int64) error {
	return w.write(message{
		Type:    "ACTIVATE_VERSION",
		Stream:  stream,
		Version: version,
	})
}

// WriteState mirrors the replication state onto the output stream.
func (w *Writer) WriteState(state *domain.ReplicationState) error {
	return w.write(message{Type: "STATE", Value: state})
}

func (w *Writer) write(m message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(m); err != nil {
		return fmt.Errorf("write %s message: %w", m.Type, err)
	}
	return nil
}
