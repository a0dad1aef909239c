package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderDir persists one JSON file per completed order under a directory,
// filenames carrying the save timestamp. Writes are serialized by a
// per-process mutex; concurrent processes sharing the directory are not
// coordinated beyond unique filenames.
type OrderDir struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func NewOrderDir(dir string) *OrderDir {
	return &OrderDir{dir: dir, now: time.Now}
}

func (s *OrderDir) Append(ctx context.Context, rec OrderRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create order dir: %w", err)
	}

	name := fmt.Sprintf("order_%s_%s.json",
		s.now().Format("20060102_150405"), uuid.NewString()[:8])
	payload, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal order record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), payload, 0o644); err != nil {
		return fmt.Errorf("write order record: %w", err)
	}

	log.Info().Str("file", name).Str("customer", rec.Order.Name).Msg("order saved")
	return nil
}

// LoadAll reads every order file in filename order. Unreadable or corrupt
// files are logged and skipped; a missing directory is an empty history.
func (s *OrderDir) LoadAll(ctx context.Context) ([]OrderRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read order dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := make([]OrderRecord, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("skipping unreadable order record")
			continue
		}
		var rec OrderRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Error().Err(err).Str("file", name).Msg("skipping corrupt order record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// CheckinLog persists wellness check-ins as a single JSON array file,
// rewritten on every append. A crash mid-write can corrupt the file; the
// read side tolerates that by starting over with an empty history.
type CheckinLog struct {
	path string
	mu   sync.Mutex
}

func NewCheckinLog(path string) *CheckinLog {
	return &CheckinLog{path: path}
}

func (s *CheckinLog) Append(ctx context.Context, rec CheckinRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.readTolerant()
	history = append(history, rec)

	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wellness log: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create wellness log dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write wellness log: %w", err)
	}

	log.Info().Str("timestamp", rec.Timestamp).Msg("wellness check-in saved")
	return nil
}

// LoadAll returns the ordered history. Missing or corrupt files load as an
// empty sequence, never an error; losing history context degrades the
// conversation but must not break it.
func (s *CheckinLog) LoadAll(ctx context.Context) ([]CheckinRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTolerant(), nil
}

func (s *CheckinLog) readTolerant() []CheckinRecord {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("path", s.path).Msg("wellness log unreadable, treating as empty")
		}
		return nil
	}
	var history []CheckinRecord
	if err := json.Unmarshal(raw, &history); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("wellness log corrupt, treating as empty")
		return nil
	}
	return history
}
