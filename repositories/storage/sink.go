package storage

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"open-invite/domain"
	"open-invite/domain/event"
	"open-invite/repositories"
)

// ArchiveSink writes a SessionRecord whenever a session ends, whether by
// host command or sweeper action. Cancelled sessions leave no trace, in the
// chat or in the archive.
type ArchiveSink struct {
	repository repositories.IArchiveRepository
	log        *slog.Logger
}

func NewArchiveSink(repository repositories.IArchiveRepository, log *slog.Logger) ArchiveSink {
	return ArchiveSink{repository: repository, log: log}
}

func (s ArchiveSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SessionEnded:
		return s.repository.StoreRecord(toRecord(evt))
	default:
		return nil
	}
}

func toRecord(evt event.SessionEnded) repositories.SessionRecord {
	return repositories.SessionRecord{
		ID:        evt.ID,
		HostID:    evt.Host.ID,
		HostName:  evt.Host.Name,
		Title:     evt.Title,
		Capacity:  evt.Capacity,
		Connected: evt.Connected,
		Members: lo.Map(evt.Members, func(m domain.MemberRef, _ int) domain.MemberID {
			return m.ID
		}),
		Reason:    string(evt.Reason),
		StartedAt: evt.StartedAt,
		EndedAt:   evt.At,
	}
}
