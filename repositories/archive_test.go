package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"open-invite/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func record(host string, endedAt time.Time) SessionRecord {
	return SessionRecord{
		ID:        uuid.New(),
		HostID:    domain.MemberID(host),
		HostName:  host,
		Title:     "Gaming Sesh",
		Capacity:  4,
		Connected: 2,
		Members:   []domain.MemberID{"alice", "bob"},
		Reason:    "host",
		StartedAt: endedAt.Add(-time.Hour),
		EndedAt:   endedAt,
	}
}

func TestArchiveRepository_Store_Then_List_Round_Trips(t *testing.T) {
	req := require.New(t)
	repository := NewArchiveRepository(openTestDB(t), logs.GetLoggerFromLevel(slog.LevelError))

	stored := record("host", time.Now().UTC().Truncate(time.Millisecond))
	req.NoError(repository.StoreRecord(stored))

	records, err := repository.ListRecords(10)
	req.NoError(err)
	req.Len(records, 1)
	req.Equal(stored.ID, records[0].ID)
	req.Equal(stored.HostID, records[0].HostID)
	req.Equal(stored.Title, records[0].Title)
	req.Equal(stored.Members, records[0].Members)
	req.True(stored.EndedAt.Equal(records[0].EndedAt))
}

func TestArchiveRepository_List_Returns_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewArchiveRepository(openTestDB(t), logs.GetLoggerFromLevel(slog.LevelError))

	base := time.Now().UTC()
	oldest := record("oldest", base.Add(-2*time.Hour))
	middle := record("middle", base.Add(-time.Hour))
	newest := record("newest", base)

	// Stored out of order on purpose
	req.NoError(repository.StoreRecord(middle))
	req.NoError(repository.StoreRecord(newest))
	req.NoError(repository.StoreRecord(oldest))

	records, err := repository.ListRecords(10)
	req.NoError(err)
	req.Len(records, 3)
	req.Equal(domain.MemberID("newest"), records[0].HostID)
	req.Equal(domain.MemberID("middle"), records[1].HostID)
	req.Equal(domain.MemberID("oldest"), records[2].HostID)
}

func TestArchiveRepository_List_Honours_The_Limit(t *testing.T) {
	req := require.New(t)
	repository := NewArchiveRepository(openTestDB(t), logs.GetLoggerFromLevel(slog.LevelError))

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		req.NoError(repository.StoreRecord(record("host", base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := repository.ListRecords(2)
	req.NoError(err)
	req.Len(records, 2)
}

func TestArchiveRepository_List_On_Empty_Archive(t *testing.T) {
	req := require.New(t)
	repository := NewArchiveRepository(openTestDB(t), logs.GetLoggerFromLevel(slog.LevelError))

	records, err := repository.ListRecords(10)
	req.NoError(err)
	req.Empty(records)
}
