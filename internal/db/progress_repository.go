package db

import (
	"log"

	"github.com/ad/trustsphere/internal/models"
	"github.com/ad/trustsphere/internal/progress"
)

// ProgressRepository hands out per-user progress stores backed by
// local_storage and reads every stored record for reporting.
type ProgressRepository struct {
	storage *LocalStorageRepository
}

func NewProgressRepository(storage *LocalStorageRepository) *ProgressRepository {
	return &ProgressRepository{storage: storage}
}

func (r *ProgressRepository) StoreFor(userID int64) *progress.Store {
	return progress.NewStore(r.storage.ForOrigin(userID))
}

// GetAllRecords skips malformed values, matching how Store.Load treats them.
func (r *ProgressRepository) GetAllRecords() (map[int64]models.ProgressRecord, error) {
	values, err := r.storage.ListByKey(progress.StorageKey)
	if err != nil {
		return nil, err
	}

	records := make(map[int64]models.ProgressRecord, len(values))
	for userID, value := range values {
		record, err := progress.ParseRecord(value)
		if err != nil {
			log.Printf("[DB] Skipping malformed progress record for user %d: %v", userID, err)
			continue
		}
		records[userID] = record
	}
	return records, nil
}
