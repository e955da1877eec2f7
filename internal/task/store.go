package task

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

// Store is the in-memory task record map shared by the submission path,
// the background runner, and pollers. A single lock serializes every
// operation; readers always get a copy, never a reference into the map, so
// a partially-written record can never be observed.
//
// Records are evicted a fixed retention period after reaching a terminal
// state. Non-terminal records are never evicted.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record

	retention     time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewStore creates a Store with the given terminal-record retention.
func NewStore(retention time.Duration, logger *slog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())

	return &Store{
		records:       make(map[string]*Record),
		retention:     retention,
		sweepInterval: defaultSweepInterval,
		logger:        logger.With("component", "task_store"),
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Start launches the background janitor that evicts expired terminal
// records.
func (s *Store) Start() {
	s.wg.Add(1)
	go s.janitor()
}

// Stop shuts down the janitor.
func (s *Store) Stop() {
	s.cancelFunc()
	s.wg.Wait()
}

// Create inserts a record with the given initial status. Re-creating an
// existing key replaces the record; a live (non-terminal) record being
// replaced indicates a duplicate submission and is logged.
func (s *Store) Create(key string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[key]; ok && !existing.Status.IsTerminal() {
		s.logger.Warn("replacing live task record", "task_key", key, "old_status", existing.Status)
	}

	now := time.Now()
	s.records[key] = &Record{
		Key:       key,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update transitions a record to the given status, attaching a result or
// error for terminal transitions. Updates to unknown keys and to records
// already in a terminal state are ignored and logged; terminal records are
// immutable.
func (s *Store) Update(key string, status Status, result any, taskErr *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		s.logger.Warn("update for unknown task", "task_key", key, "status", status)
		return
	}
	if record.Status.IsTerminal() {
		s.logger.Warn("ignoring update to terminal task",
			"task_key", key,
			"current_status", record.Status,
			"requested_status", status)
		return
	}

	record.Status = status
	record.Result = result
	record.Error = taskErr
	record.UpdatedAt = time.Now()
}

// Get returns a copy of the record for the given key. The second return
// value is false when the key is unknown or already evicted.
func (s *Store) Get(key string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	return *record, true
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// janitor periodically evicts terminal records older than the retention
// period.
func (s *Store) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.sweep(time.Now()); evicted > 0 {
				s.logger.Debug("evicted expired task records", "count", evicted)
			}
		}
	}
}

// sweep removes terminal records whose last update is older than the
// retention period. Returns the number of evicted records.
func (s *Store) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, record := range s.records {
		if record.Status.IsTerminal() && now.Sub(record.UpdatedAt) > s.retention {
			delete(s.records, key)
			evicted++
		}
	}
	return evicted
}
