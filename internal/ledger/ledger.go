// Package ledger is the append-only audit trail of a batch run: a JSONL
// event log capturing every lifecycle event and a tabular manifest of
// processed items with enough metadata for audit and repair.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Event is one lifecycle event. Events are appended in arrival order and
// never rewritten.
type Event struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	ItemID  string `json:"item_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Row is one manifest line per processed item, including failed and skipped
// ones.
type Row struct {
	OriginalName string `json:"original_name"`
	NewName      string `json:"new_name"`
	Description  string `json:"description"`
	SourceDate   string `json:"source_date"`
	Status       string `json:"status"`
}

type manifestFile struct {
	SchemaVersion int    `json:"schema_version"`
	RunID         string `json:"run_id"`
	GeneratedAt   string `json:"generated_at"`
	Rows          []Row  `json:"rows"`
}

// Ledger owns one run directory. Appends are serialized internally so a
// parallelized driver still produces a total order of events.
type Ledger struct {
	runID  string
	dir    string
	logger zerolog.Logger

	mu     sync.Mutex
	events *os.File
	rows   []Row
	lock   Lock
	now    func() time.Time
}

// NewRunID returns a lexicographically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Open creates <baseDir>/<runID>/, locks it, and starts the event log.
func Open(baseDir, runID string, logger zerolog.Logger) (*Ledger, error) {
	if strings.TrimSpace(runID) == "" {
		return nil, fmt.Errorf("run id is required")
	}
	dir := filepath.Join(baseDir, runID)
	if err := Mkdir(dir); err != nil {
		return nil, err
	}
	lock, err := AcquireLock(dir)
	if err != nil {
		return nil, err
	}
	events, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Ledger{
		runID:  runID,
		dir:    dir,
		logger: logger,
		events: events,
		lock:   lock,
		now:    time.Now,
	}, nil
}

func (l *Ledger) RunID() string { return l.runID }
func (l *Ledger) Dir() string   { return l.dir }

func (l *Ledger) Info(itemID, name, format string, args ...any) {
	l.append("info", itemID, name, fmt.Sprintf(format, args...))
}

func (l *Ledger) Warn(itemID, name, format string, args ...any) {
	l.append("warn", itemID, name, fmt.Sprintf(format, args...))
}

func (l *Ledger) Error(itemID, name, format string, args ...any) {
	l.append("error", itemID, name, fmt.Sprintf(format, args...))
}

func (l *Ledger) append(level, itemID, name, msg string) {
	ev := Event{
		Time:    l.now().UTC().Format(time.RFC3339),
		Level:   level,
		ItemID:  itemID,
		Name:    name,
		Message: msg,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	line, err := json.Marshal(ev)
	if err == nil && l.events != nil {
		_, _ = l.events.Write(append(line, '\n'))
	}

	log := l.logger.With().Str("run_id", l.runID).Str("item", itemID).Str("name", name).Logger()
	switch level {
	case "error":
		log.Error().Msg(msg)
	case "warn":
		log.Warn().Msg(msg)
	default:
		log.Info().Msg(msg)
	}
}

// AddRow records one manifest row; rows are flushed to disk on Close in the
// order they were added.
func (l *Ledger) AddRow(row Row) {
	l.mu.Lock()
	l.rows = append(l.rows, row)
	l.mu.Unlock()
}

// Close flushes the manifest (JSON and TSV forms), closes the event log, and
// releases the directory lock.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	mf := manifestFile{
		SchemaVersion: 1,
		RunID:         l.runID,
		GeneratedAt:   l.now().UTC().Format(time.RFC3339),
		Rows:          l.rows,
	}
	if err := WriteJSON(filepath.Join(l.dir, "manifest.json"), mf); err != nil {
		firstErr = err
	}
	if err := WriteBytes(filepath.Join(l.dir, "manifest.tsv"), renderTSV(l.rows)); err != nil && firstErr == nil {
		firstErr = err
	}

	if l.events != nil {
		if err := l.events.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close event log: %w", err)
		}
		l.events = nil
	}
	if err := l.lock.Release(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func renderTSV(rows []Row) []byte {
	var b strings.Builder
	b.WriteString("original_name\tnew_name\tdescription\tsource_date\tstatus\n")
	for _, r := range rows {
		b.WriteString(tsvField(r.OriginalName))
		b.WriteByte('\t')
		b.WriteString(tsvField(r.NewName))
		b.WriteByte('\t')
		b.WriteString(tsvField(r.Description))
		b.WriteByte('\t')
		b.WriteString(tsvField(r.SourceDate))
		b.WriteByte('\t')
		b.WriteString(tsvField(r.Status))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
