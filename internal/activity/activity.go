// Package activity keeps the append-only activity log of a workspace.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// EventType classifies an activity log entry.
type EventType string

const (
	FieldEdit      EventType = "FIELD_EDIT"
	EvidenceAdd    EventType = "EVIDENCE_ADD"
	EvidenceRemove EventType = "EVIDENCE_REMOVE"
	ComputeRun     EventType = "COMPUTE_RUN"
	PinAdd         EventType = "PIN_ADD"
	PinRemove      EventType = "PIN_REMOVE"
	Export         EventType = "EXPORT"
	ConstantsEdit  EventType = "CONSTANTS_EDIT"
	Migrate        EventType = "MIGRATE"
)

// Entry is one row in the activity log.
type Entry struct {
	Seq       int
	Timestamp time.Time
	Event     EventType
	Subject   string
	Details   string
}

// Header is the CSV header for activity-log.csv.
const Header = "seq,timestamp,event_type,subject,details"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/activity-log.csv"
	colSeq       = 0
	colTimestamp = 1
	colEvent     = 2
	colSubject   = 3
	colDetails   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colSeq] = strconv.Itoa(e.Seq)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colEvent] = string(e.Event)
	row[colSubject] = e.Subject
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	seq, err := strconv.Atoi(record[colSeq])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing seq %q: %w", record[colSeq], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Seq:       seq,
		Timestamp: ts,
		Event:     EventType(record[colEvent]),
		Subject:   record[colSubject],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/activity-log.csv, creating the file
// and header if needed. Sequence numbers continue from the last logged entry;
// the numbered entries are returned.
func Append(root string, entries []Entry) ([]Entry, error) {
	existing, err := Read(root)
	if err != nil {
		return nil, err
	}
	seq := 0
	if n := len(existing); n > 0 {
		seq = existing[n-1].Seq
	}

	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	out := make([]Entry, len(entries))
	for i, e := range entries {
		seq++
		e.Seq = seq
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return nil, fmt.Errorf("writing entry %d: %w", i, err)
		}
		out[i] = e
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing activity log: %w", err)
	}
	return out, nil
}

// Read returns all entries from <root>/logs/activity-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Log records events for one workspace.
type Log struct {
	root string
	now  func() time.Time
}

// New returns a Log rooted at a workspace directory.
func New(root string) *Log {
	return &Log{root: root, now: time.Now}
}

// Record appends a single event.
func (l *Log) Record(event EventType, subject, details string) (Entry, error) {
	out, err := Append(l.root, []Entry{{
		Timestamp: l.now(),
		Event:     event,
		Subject:   subject,
		Details:   details,
	}})
	if err != nil {
		return Entry{}, err
	}
	return out[0], nil
}

// Entries returns every logged event in order.
func (l *Log) Entries() ([]Entry, error) {
	return Read(l.root)
}

// Filter returns the entries of the given event types. No types means all.
func Filter(entries []Entry, types ...EventType) []Entry {
	if len(types) == 0 {
		return entries
	}
	want := make(map[EventType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []Entry
	for _, e := range entries {
		if want[e.Event] {
			out = append(out, e)
		}
	}
	return out
}
