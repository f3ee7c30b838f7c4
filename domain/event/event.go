package event

import (
	"time"

	"github.com/google/uuid"

	"open-invite/domain"
)

// DomainEvent is anything the session pipeline fans out to sinks.
type DomainEvent interface {
	HostID() domain.MemberID
}

// CloseReason records how a session left the registry.
type CloseReason string

const (
	ClosedByHost    CloseReason = "host"
	ClosedExpired   CloseReason = "expired"
	ClosedAbandoned CloseReason = "abandoned"
)

type SessionStarted struct {
	ID       uuid.UUID
	Host     domain.MemberRef
	Title    string
	Capacity int
	At       time.Time
}

func (e SessionStarted) HostID() domain.MemberID { return e.Host.ID }

type MembersJoined struct {
	Host    domain.MemberRef
	Members []domain.MemberRef
	At      time.Time
}

func (e MembersJoined) HostID() domain.MemberID { return e.Host.ID }

type MembersLeft struct {
	Host    domain.MemberRef
	Members []domain.MemberRef
	At      time.Time
}

func (e MembersLeft) HostID() domain.MemberID { return e.Host.ID }

type SessionResized struct {
	Host        domain.MemberRef
	NewCapacity int
	At          time.Time
}

func (e SessionResized) HostID() domain.MemberID { return e.Host.ID }

type SessionRenamed struct {
	Host     domain.MemberRef
	NewTitle string
	At       time.Time
}

func (e SessionRenamed) HostID() domain.MemberID { return e.Host.ID }

type TeamsAssigned struct {
	Host      domain.MemberRef
	TeamCount int
	TeamSize  int
	At        time.Time
}

func (e TeamsAssigned) HostID() domain.MemberID { return e.Host.ID }

// SessionEnded carries everything the archive needs; it is emitted for host
// commands and sweeper actions alike, distinguished by Reason.
type SessionEnded struct {
	ID        uuid.UUID
	Host      domain.MemberRef
	Title     string
	Capacity  int
	Connected int
	Members   []domain.MemberRef
	Reason    CloseReason
	StartedAt time.Time
	At        time.Time
}

func (e SessionEnded) HostID() domain.MemberID { return e.Host.ID }

// SessionCancelled leaves no trace in the chat and none in the archive.
type SessionCancelled struct {
	Host domain.MemberRef
	At   time.Time
}

func (e SessionCancelled) HostID() domain.MemberID { return e.Host.ID }
