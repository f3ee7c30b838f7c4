package domain

import (
	"math/rand"
	"time"

	"open-invite/errors"
)

// SessionState is the lifecycle state machine of a session.
// Active -> Ended, or Active -> TeamsActive -> TeamsEnded. Once teams are
// assigned the session never returns to the plain Active state.
type SessionState int

const (
	StateActive SessionState = iota
	StateEnded
	StateTeamsActive
	StateTeamsEnded
)

func (s SessionState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateEnded:
		return "Ended"
	case StateTeamsActive:
		return "TeamsActive"
	case StateTeamsEnded:
		return "TeamsEnded"
	default:
		return "Unknown"
	}
}

// RenderedHandle identifies one generation of a session's outward
// representation. Every re-render produces a new identity; the generation
// counter lets correlation logic drop events referencing an older render
// instead of depending on the old message's deletion having completed.
type RenderedHandle struct {
	ID         string
	Generation uint64
}

// Session is one host's open roster of slots, rendered as a live message
// others can join and leave. Session is not safe for concurrent use; the
// registry serializes all access per session.
type Session struct {
	host      MemberRef
	title     string
	roster    *Roster
	state     SessionState
	teamCount int
	startTime time.Time
	color     int

	earlyCleanupEligible bool
	advertised           bool
	rendered             RenderedHandle
}

func NewSession(host MemberRef, title string, capacity int) *Session {
	return &Session{
		host:      host,
		title:     title,
		roster:    NewRoster(capacity),
		state:     StateActive,
		teamCount: 1,
		startTime: time.Now(),
		color:     rand.Intn(0xFFFFFF + 1),
	}
}

func (s *Session) Host() MemberRef      { return s.host }
func (s *Session) Title() string        { return s.title }
func (s *Session) Roster() *Roster      { return s.roster }
func (s *Session) State() SessionState  { return s.state }
func (s *Session) TeamCount() int       { return s.teamCount }
func (s *Session) StartTime() time.Time { return s.startTime }

// TeamSize is the number of slots per team, floor division of the capacity.
func (s *Session) TeamSize() int {
	return s.roster.Capacity() / s.teamCount
}

func (s *Session) Rendered() RenderedHandle { return s.rendered }

// SetRendered records the identity of a freshly created representation and
// advances the generation counter.
func (s *Session) SetRendered(id string) RenderedHandle {
	s.rendered = RenderedHandle{ID: id, Generation: s.rendered.Generation + 1}
	return s.rendered
}

// Mutable reports whether the session still accepts roster and title
// mutation. Ended sessions are frozen.
func (s *Session) Mutable() bool {
	return s.state == StateActive || s.state == StateTeamsActive
}

// InTeams reports whether the session is in the teams family of states.
func (s *Session) InTeams() bool {
	return s.state == StateTeamsActive || s.state == StateTeamsEnded
}

func (s *Session) MarkEarlyCleanup()          { s.earlyCleanupEligible = true }
func (s *Session) EarlyCleanupEligible() bool { return s.earlyCleanupEligible }

func (s *Session) MarkAdvertised()  { s.advertised = true }
func (s *Session) Advertised() bool { return s.advertised }

// AddMembers delegates to the roster. The rejected subset is returned;
// member placement that succeeded stays applied.
func (s *Session) AddMembers(members []MemberRef) ([]MemberRef, error) {
	if !s.Mutable() {
		return nil, errors.ErrSessionEnded
	}
	return s.roster.AddMembers(members), nil
}

// RemoveMembers delegates to the roster, returning the absent subset.
func (s *Session) RemoveMembers(members []MemberRef) ([]MemberRef, error) {
	if !s.Mutable() {
		return nil, errors.ErrSessionEnded
	}
	return s.roster.RemoveMembers(members), nil
}

func (s *Session) Resize(newCapacity int) error {
	if !s.Mutable() {
		return errors.ErrSessionEnded
	}
	if !s.roster.Resize(newCapacity) {
		return errors.ErrResizeBelowConnected
	}
	return nil
}

func (s *Session) Rename(newTitle string) error {
	if !s.Mutable() {
		return errors.ErrSessionEnded
	}
	s.title = newTitle
	return nil
}

// AssignTeams shuffles the roster and partitions it into teamCount groups of
// TeamSize slots. Re-assigning while already in TeamsActive reshuffles.
func (s *Session) AssignTeams(teamCount int) error {
	if !s.Mutable() {
		return errors.ErrSessionEnded
	}
	if teamCount < 1 || teamCount > s.roster.Capacity() {
		return errors.ErrTeamCountExceedsCapacity
	}
	s.teamCount = teamCount
	s.roster.Shuffle()
	s.state = StateTeamsActive
	return nil
}

// End freezes the session. Ending an already ended session is a no-op.
func (s *Session) End() {
	switch s.state {
	case StateActive:
		s.state = StateEnded
	case StateTeamsActive:
		s.state = StateTeamsEnded
	}
}

// View builds the renderer snapshot for the current state. Team groups are
// only present in the teams family of states.
func (s *Session) View() SessionView {
	rows := buildRows(s.roster.Slots())
	view := SessionView{
		Title:     s.title,
		Host:      s.host,
		Rows:      rows,
		Footer:    FooterJoinable,
		Color:     s.color,
		StartedAt: s.startTime,
	}
	if !s.Mutable() {
		view.Footer = FooterEnded
	}
	if s.InTeams() {
		view.Teams = buildTeams(rows, s.teamCount, s.TeamSize())
	}
	return view
}
