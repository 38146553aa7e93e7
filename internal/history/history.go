// internal/history/history.go
package history

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EntryStatus is the recorded outcome of one print job.
type EntryStatus string

const (
	StatusSuccess EntryStatus = "success"
	StatusError   EntryStatus = "error"
)

// Entry is one recorded print job, newest first in the log.
type Entry struct {
	Timestamp time.Time   `json:"timestamp"`
	Summary   string      `json:"summary"`
	Status    EntryStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
}

// Recorder is a bounded, file-backed log of print job outcomes. Entries are
// kept newest-first and trimmed to maxEntries; every append writes through
// to disk. Persistence failures are logged and otherwise ignored, the
// in-memory log stays authoritative for the process lifetime.
type Recorder struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
	path       string
	logger     *zap.Logger
}

// fileShape is the on-disk representation.
type fileShape struct {
	Entries []Entry `json:"entries"`
}

// Load reads an existing log from path, trimming it to maxEntries. A
// missing or unparseable file yields an empty recorder.
func Load(path string, maxEntries int, logger *zap.Logger) *Recorder {
	r := &Recorder{
		maxEntries: maxEntries,
		path:       path,
		logger:     logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read print history", zap.String("path", path), zap.Error(err))
		}
		return r
	}

	var shape fileShape
	if err := json.Unmarshal(data, &shape); err != nil {
		logger.Warn("Failed to parse print history", zap.String("path", path), zap.Error(err))
		return r
	}

	r.entries = shape.Entries
	r.trimLocked()
	return r
}

// trimLocked drops the oldest entries beyond the cap. Caller holds mu (or
// exclusive access during Load).
func (r *Recorder) trimLocked() {
	if len(r.entries) > r.maxEntries {
		r.entries = r.entries[:r.maxEntries]
	}
}

func (r *Recorder) saveLocked() {
	data, err := json.MarshalIndent(fileShape{Entries: r.entries}, "", "  ")
	if err != nil {
		r.logger.Warn("Failed to encode print history", zap.Error(err))
		return
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.Warn("Failed to write print history", zap.String("path", r.path), zap.Error(err))
	}
}

func (r *Recorder) add(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Entry{entry}, r.entries...)
	r.trimLocked()
	r.saveLocked()
}

// AddSuccess records a successful job.
func (r *Recorder) AddSuccess(summary string) {
	r.add(Entry{Timestamp: time.Now(), Summary: summary, Status: StatusSuccess})
}

// AddError records a failed job with its error message.
func (r *Recorder) AddError(summary, errMsg string) {
	r.add(Entry{Timestamp: time.Now(), Summary: summary, Status: StatusError, Error: errMsg})
}

// Entries returns a snapshot of the log, newest first.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Len returns the current entry count.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
