// Package progress tracks which TrustSphere modules a user has completed and
// derives navigation permissions from that record.
package progress

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ad/trustsphere/internal/models"
)

// StorageKey is the fixed key the record is kept under in each origin.
const StorageKey = "trustsphere_progress"

type Store struct {
	storage Storage
	key     string
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage, key: StorageKey}
}

// Load returns the persisted record. An absent, unreadable or malformed value
// yields the all-false record.
func (s *Store) Load() models.ProgressRecord {
	record, err := s.read()
	if err != nil {
		log.Printf("[PROGRESS] Failed to read %s, using empty record: %v", s.key, err)
		return models.ProgressRecord{}
	}
	return record
}

// MarkComplete merges the module's flag into the persisted record and returns
// the result. When the write fails the pre-write record is returned.
func (s *Store) MarkComplete(module models.ModuleID) models.ProgressRecord {
	current, err := s.read()
	if err != nil {
		// Writing now could replace a present record with fewer flags.
		log.Printf("[PROGRESS] Skipping write for module %d, storage unreadable: %v", module, err)
		return models.ProgressRecord{}
	}

	if !module.IsValid() {
		log.Printf("[PROGRESS] Ignoring completion of unknown module %d", module)
		return current
	}

	merged := current.Merge(models.ProgressRecord{}.WithComplete(module))
	data, err := json.Marshal(merged)
	if err != nil {
		log.Printf("[PROGRESS] Failed to encode record: %v", err)
		return current
	}

	if err := s.storage.Save(s.key, string(data)); err != nil {
		log.Printf("[PROGRESS] Failed to persist completion of module %d: %v", module, err)
		return current
	}
	return merged
}

func (s *Store) CanEnter(module models.ModuleID) bool {
	return s.Load().CanEnter(module)
}

// IsUnlocked drives the locked/unlocked affordance. It shares the gating rule
// with CanEnter.
func (s *Store) IsUnlocked(module models.ModuleID) bool {
	return s.CanEnter(module)
}

// read distinguishes storage errors from absent or malformed values, which
// both decode to the empty record.
func (s *Store) read() (models.ProgressRecord, error) {
	value, found, err := s.storage.Load(s.key)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	if !found || value == "" {
		return models.ProgressRecord{}, nil
	}
	return decodeRecord(value), nil
}

func decodeRecord(value string) models.ProgressRecord {
	record, err := ParseRecord(value)
	if err != nil {
		log.Printf("[PROGRESS] Malformed record %q, using empty record: %v", truncate(value, 64), err)
		return models.ProgressRecord{}
	}
	return record
}

// ParseRecord decodes a stored value. Missing fields are false.
func ParseRecord(value string) (models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return models.ProgressRecord{}, fmt.Errorf("parse progress record: %w", err)
	}
	return record, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
