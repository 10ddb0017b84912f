package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/priYanshURaj-ai/performance-dashboard/internal/snapshot"
)

var (
	ErrNoData          = errors.New("no data available yet")
	ErrInvalidDocument = errors.New("invalid performance document")
)

// SaveResult describes a document accepted by Store.Save.
type SaveResult struct {
	Revision      string
	LastUpdated   string
	MembersCount  int
	SevenDayTotal int
}

// Store keeps the latest performance document in a single JSON file. Writes
// go to a temp file in the same directory and are renamed into place, so
// readers and file watchers never see a partial document.
type Store struct {
	path string
	now  func() time.Time

	mu   sync.RWMutex
	last time.Time // most recent lastUpdated stamp, guarded by mu
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Path() string { return s.path }

// stampLayout is ISO 8601 with milliseconds, the same shape JavaScript's
// toISOString produces.
const stampLayout = "2006-01-02T15:04:05.000Z07:00"

// Save stamps lastUpdated with the server time and persists the document.
// Fields the dashboard does not know about are kept as sent. Stamps strictly
// increase, since readers detect a new document by a changed lastUpdated.
func (s *Store) Save(body []byte) (SaveResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc == nil {
		return SaveResult{}, fmt.Errorf("%w: document must be a JSON object", ErrInvalidDocument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.nextStamp()
	stamp := at.Format(stampLayout)
	quoted, err := json.Marshal(stamp)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode timestamp: %w", err)
	}
	doc["lastUpdated"] = quoted

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode document: %w", err)
	}

	snap, err := snapshot.Decode(out)
	if err != nil {
		return SaveResult{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := s.writeAtomic(out); err != nil {
		return SaveResult{}, err
	}
	s.last = at

	res := SaveResult{
		Revision:     uuid.NewString(),
		LastUpdated:  stamp,
		MembersCount: len(snap.Members),
	}
	if ts := snap.TeamSummary[snapshot.Period7Days]; ts != nil {
		res.SevenDayTotal = ts.Total
	}
	return res, nil
}

// nextStamp returns the current time at millisecond precision, bumped past
// the previous stamp when the clock has not moved on. Callers hold mu.
func (s *Store) nextStamp() time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Millisecond)
	}
	return t
}

func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".performance-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(bytes.TrimRight(data, "\n"), '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Read returns the stored document exactly as persisted.
func (s *Store) Read() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

func (s *Store) LastModified() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ErrNoData
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}
