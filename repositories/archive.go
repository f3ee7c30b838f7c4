//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=../mocks/mock_archive_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"open-invite/domain"
)

type IArchiveRepository interface {
	StoreRecord(record SessionRecord) error
	ListRecords(limit int) ([]SessionRecord, error)
}

// ArchiveRepository persists a record of each ended session in BadgerDB.
// This is an append-only audit journal: nothing here is ever re-loaded into
// the live registry, so the engine's state stays strictly in-memory.
type ArchiveRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewArchiveRepository(db *badger.DB, log *slog.Logger) ArchiveRepository {
	return ArchiveRepository{db: db, log: log}
}

// SessionRecord is the durable shape of an ended session.
type SessionRecord struct {
	ID        uuid.UUID         `json:"id"`
	HostID    domain.MemberID   `json:"host_id"`
	HostName  string            `json:"host_name"`
	Title     string            `json:"title"`
	Capacity  int               `json:"capacity"`
	Connected int               `json:"connected"`
	Members   []domain.MemberID `json:"members"`
	Reason    string            `json:"reason"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   time.Time         `json:"ended_at"`
}

// StoreRecord persists one ended session. The key is
// "session:{endUnixNano_padded}:{uuid}" so that:
//  1. A prefix scan returns records in chronological order thanks to the
//     19-digit zero padding (lexicographical order).
//  2. The UUID disconnects collisions if two sessions end at the same
//     nanosecond.
func (a ArchiveRepository) StoreRecord(record SessionRecord) error {
	key := fmt.Sprintf("session:%019d:%s", record.EndedAt.UnixNano(), record.ID)
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// ListRecords returns the most recent records, newest first, via a reverse
// prefix scan over the time-ordered keys.
func (a ArchiveRepository) ListRecords(limit int) ([]SessionRecord, error) {
	var values [][]byte
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := []byte("session:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible key, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(values) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				values = append(values, append([]byte{}, value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]SessionRecord, 0, len(values))
	for _, b := range values {
		var record SessionRecord
		if err := json.Unmarshal(b, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
