package store

import (
	"sync"
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/fs"
	"github.com/sweets9/SOC-ThreatViz/internal/models"
)

// ThreatStore is one flat-file threat log. Appends run the whole
// load -> retain -> rewrite cycle under the store's mutex, so concurrent
// webhook bursts against the same path cannot lose each other's updates.
type ThreatStore struct {
	path     string
	extended bool
	mu       sync.Mutex

	// OnPrune is called with the number of records evicted by retention
	// after each write that pruned anything. Optional.
	OnPrune func(pruned int)

	// OnDrop is called with the number of invalid rows dropped during a
	// load. Optional.
	OnDrop func(dropped int)
}

// AppendResult reports what an append did to the store
type AppendResult struct {
	Added  int
	Pruned int
}

// NewThreatStore returns a store bound to the given file path. extended
// selects the destinationport/destinationservice column schema for writes.
func NewThreatStore(path string, extended bool) *ThreatStore {
	return &ThreatStore{path: path, extended: extended}
}

// Path returns the store's file path
func (s *ThreatStore) Path() string {
	return s.path
}

// Bootstrap makes sure the store's directory exists and, when the file itself
// is missing, creates it with a fresh header so the first read has a schema.
func (s *ThreatStore) Bootstrap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fs.EnsureDir(s.path); err != nil {
		return err
	}
	if fs.FileExists(s.path) {
		return nil
	}
	return WriteThreats(s.path, nil, s.extended)
}

// Load reads the full record set in on-disk order
func (s *ThreatStore) Load() ([]models.Threat, error) {
	threats, dropped, err := ReadThreats(s.path)
	if err != nil {
		return nil, err
	}
	if dropped > 0 && s.OnDrop != nil {
		s.OnDrop(dropped)
	}
	return threats, nil
}

// Read loads the store and filters it down to the trailing window ending now
func (s *ThreatStore) Read(window time.Duration) ([]models.Threat, error) {
	threats, err := s.Load()
	if err != nil {
		return nil, err
	}
	return FilterTimeframe(threats, window, time.Now()), nil
}

// Append merges a single record into the store under retention
func (s *ThreatStore) Append(t models.Threat) (AppendResult, error) {
	return s.AppendBatch([]models.Threat{t})
}

// AppendBatch merges a block of records into the store under retention.
// Callers validate records beforehand; everything handed in here is persisted
// subject only to the retention caps.
func (s *ThreatStore) AppendBatch(incoming []models.Threat) (AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, dropped, err := ReadThreats(s.path)
	if err != nil {
		return AppendResult{}, err
	}
	if dropped > 0 && s.OnDrop != nil {
		s.OnDrop(dropped)
	}

	kept, pruned := ApplyRetention(existing, incoming, time.Now())

	if err := fs.EnsureDir(s.path); err != nil {
		return AppendResult{}, err
	}
	if err := WriteThreats(s.path, kept, s.extended); err != nil {
		return AppendResult{}, err
	}

	if pruned > 0 && s.OnPrune != nil {
		s.OnPrune(pruned)
	}
	return AppendResult{Added: len(incoming), Pruned: pruned}, nil
}

// Stats probes the store file
func (s *ThreatStore) Stats() (Stats, error) {
	return FileStats(s.path)
}
