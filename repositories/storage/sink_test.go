package storage

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"open-invite/domain"
	"open-invite/domain/event"
	"open-invite/repositories"
)

// RecordingArchive captures stored records without touching a database.
type RecordingArchive struct {
	records []repositories.SessionRecord
}

func (a *RecordingArchive) StoreRecord(record repositories.SessionRecord) error {
	a.records = append(a.records, record)
	return nil
}

func (a *RecordingArchive) ListRecords(limit int) ([]repositories.SessionRecord, error) {
	return a.records, nil
}

func TestArchiveSink_Stores_A_Record_When_A_Session_Ends(t *testing.T) {
	req := require.New(t)
	archive := &RecordingArchive{}
	sink := NewArchiveSink(archive, logs.GetLoggerFromLevel(slog.LevelError))

	ended := event.SessionEnded{
		ID:        uuid.New(),
		Host:      domain.MemberRef{ID: "host", Name: "host"},
		Title:     "Gaming Sesh",
		Capacity:  4,
		Connected: 2,
		Members: []domain.MemberRef{
			{ID: "alice", Name: "alice"},
			{ID: "bob", Name: "bob"},
		},
		Reason:    event.ClosedExpired,
		StartedAt: time.Now().Add(-time.Hour),
		At:        time.Now(),
	}

	req.NoError(sink.Consume(context.Background(), ended))

	req.Len(archive.records, 1)
	record := archive.records[0]
	req.Equal(ended.ID, record.ID)
	req.Equal(domain.MemberID("host"), record.HostID)
	req.Equal([]domain.MemberID{"alice", "bob"}, record.Members)
	req.Equal(string(event.ClosedExpired), record.Reason)
}

func TestArchiveSink_Ignores_Events_That_Are_Not_Session_Ends(t *testing.T) {
	req := require.New(t)
	archive := &RecordingArchive{}
	sink := NewArchiveSink(archive, logs.GetLoggerFromLevel(slog.LevelError))

	req.NoError(sink.Consume(context.Background(), event.SessionStarted{
		Host: domain.MemberRef{ID: "host", Name: "host"},
	}))
	req.NoError(sink.Consume(context.Background(), event.SessionCancelled{
		Host: domain.MemberRef{ID: "host", Name: "host"},
	}))

	req.Empty(archive.records)
}
