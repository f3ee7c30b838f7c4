package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"open-invite/contract"
	"open-invite/domain"
	"open-invite/domain/event"
	"open-invite/errors"
	"open-invite/moderation"
	"open-invite/observability"
	"open-invite/search"
)

// MemberReport is the outcome of a batch add or remove. Batches have no
// all-or-nothing semantics: Applied stays applied even when Unresolved or
// Rejected are non-empty.
type MemberReport struct {
	Unresolved []string
	Rejected   []domain.MemberRef
	Applied    []domain.MemberRef
}

// Coordinator is the surface the command router and the reaction listener
// call into. It resolves member names, enforces the session size policy,
// moderates titles, drives render/retire through the Renderer, and publishes
// domain events for the fanout pipeline.
//
// Every operation on one session runs inside that session's registry
// critical section, including the render that concludes it.
type Coordinator struct {
	log        *slog.Logger
	registry   *SessionRegistry
	renderer   contract.Renderer
	directory  contract.Directory
	moderator  moderation.Moderator
	index      *search.SessionIndex
	monitoring *observability.MonitoringManager
	events     chan event.DomainEvent

	maxSessionSize int
	defaultSize    int
	defaultTitle   string
}

func NewCoordinator(
	log *slog.Logger,
	registry *SessionRegistry,
	renderer contract.Renderer,
	directory contract.Directory,
	moderator moderation.Moderator,
	index *search.SessionIndex,
	monitoring *observability.MonitoringManager,
	maxSessionSize, defaultSize, bufferSize int,
	defaultTitle string,
) *Coordinator {
	return &Coordinator{
		log:            log,
		registry:       registry,
		renderer:       renderer,
		directory:      directory,
		moderator:      moderator,
		index:          index,
		monitoring:     monitoring,
		events:         make(chan event.DomainEvent, bufferSize),
		maxSessionSize: maxSessionSize,
		defaultSize:    defaultSize,
		defaultTitle:   defaultTitle,
	}
}

// Events is the stream consumed by the fanout worker.
func (c *Coordinator) Events() chan event.DomainEvent {
	return c.events
}

// Stats snapshots the engine counters.
func (c *Coordinator) Stats() observability.SessionStats {
	return c.monitoring.GetLatest()
}

// ActiveSessions reports the registry size.
func (c *Coordinator) ActiveSessions() int {
	return c.registry.Len()
}

// StartSession creates a session for the host. Title and size fall back to
// the configured defaults when empty or zero; the title goes through
// moderation before it is ever rendered.
func (c *Coordinator) StartSession(ctx context.Context, host domain.MemberRef, title string, size int) error {
	if title == "" {
		title = c.defaultTitle
	}
	if size == 0 {
		size = c.defaultSize
	}
	title = c.moderateTitle(title)

	_, err := c.registry.Start(host, title, size, func(s *domain.Session) {
		c.refresh(ctx, s)
	})
	if err != nil {
		return err
	}

	c.monitoring.IncrSessionsStarted()
	c.publish(event.SessionStarted{
		ID:       uuid.New(),
		Host:     host,
		Title:    title,
		Capacity: size,
		At:       time.Now().UTC(),
	})
	return nil
}

// EndSession closes the host's session: the rendered message stays in the
// chat in its closed form, with the join and leave affordances removed.
func (c *Coordinator) EndSession(ctx context.Context, hostID domain.MemberID) error {
	err := c.registry.Remove(hostID, func(s *domain.Session) {
		c.close(ctx, s, event.ClosedByHost)
	})
	if err != nil {
		return err
	}
	c.monitoring.IncrSessionsEnded()
	return nil
}

// CancelSession removes the host's session and its rendered message
// entirely, leaving no trace in the chat.
func (c *Coordinator) CancelSession(ctx context.Context, hostID domain.MemberID) error {
	err := c.registry.Remove(hostID, func(s *domain.Session) {
		s.End()
		c.retire(ctx, s)
		c.forget(s)
		c.publish(event.SessionCancelled{Host: s.Host(), At: time.Now().UTC()})
	})
	if err != nil {
		return err
	}
	c.monitoring.IncrSessionsCancelled()
	return nil
}

// AddMembers resolves each name through the directory and adds the resolved
// members to the host's session. Unresolved names and rejected members are
// reported back; the rest stays applied.
func (c *Coordinator) AddMembers(ctx context.Context, hostID domain.MemberID, names []string) (MemberReport, error) {
	report := c.resolve(ctx, names)
	err := c.registry.Mutate(hostID, func(s *domain.Session) error {
		rejected, err := s.AddMembers(report.Applied)
		if err != nil {
			return err
		}
		report.Rejected = rejected
		report.Applied = subtract(report.Applied, rejected)
		c.refresh(ctx, s)
		if len(report.Applied) > 0 {
			c.publish(event.MembersJoined{Host: s.Host(), Members: report.Applied, At: time.Now().UTC()})
		}
		return nil
	})
	return report, err
}

// RemoveMembers is the inverse of AddMembers; members not connected come
// back in the rejected list.
func (c *Coordinator) RemoveMembers(ctx context.Context, hostID domain.MemberID, names []string) (MemberReport, error) {
	report := c.resolve(ctx, names)
	err := c.registry.Mutate(hostID, func(s *domain.Session) error {
		rejected, err := s.RemoveMembers(report.Applied)
		if err != nil {
			return err
		}
		report.Rejected = rejected
		report.Applied = subtract(report.Applied, rejected)
		c.refresh(ctx, s)
		if len(report.Applied) > 0 {
			c.publish(event.MembersLeft{Host: s.Host(), Members: report.Applied, At: time.Now().UTC()})
		}
		return nil
	})
	return report, err
}

// Resize changes the slot count, keeping connected members at their index.
func (c *Coordinator) Resize(ctx context.Context, hostID domain.MemberID, newSize int) error {
	if newSize <= 0 || newSize > c.maxSessionSize {
		return errors.ErrInvalidSize
	}
	return c.registry.Mutate(hostID, func(s *domain.Session) error {
		if err := s.Resize(newSize); err != nil {
			return err
		}
		c.refresh(ctx, s)
		c.publish(event.SessionResized{Host: s.Host(), NewCapacity: newSize, At: time.Now().UTC()})
		return nil
	})
}

// Rename replaces the title, moderated like the initial one.
func (c *Coordinator) Rename(ctx context.Context, hostID domain.MemberID, newTitle string) error {
	newTitle = c.moderateTitle(newTitle)
	return c.registry.Mutate(hostID, func(s *domain.Session) error {
		if err := s.Rename(newTitle); err != nil {
			return err
		}
		c.refresh(ctx, s)
		if s.Advertised() {
			c.advertiseListing(s)
		}
		c.publish(event.SessionRenamed{Host: s.Host(), NewTitle: newTitle, At: time.Now().UTC()})
		return nil
	})
}

// Advertise re-posts the session (a fresh render at the bottom of the chat)
// and lists it in the discovery index.
func (c *Coordinator) Advertise(ctx context.Context, hostID domain.MemberID) error {
	return c.registry.Mutate(hostID, func(s *domain.Session) error {
		if !s.Mutable() {
			return errors.ErrSessionEnded
		}
		c.refresh(ctx, s)
		s.MarkAdvertised()
		c.advertiseListing(s)
		return nil
	})
}

// AssignTeams shuffles the roster and partitions it into teamCount teams.
func (c *Coordinator) AssignTeams(ctx context.Context, hostID domain.MemberID, teamCount int) error {
	return c.registry.Mutate(hostID, func(s *domain.Session) error {
		if err := s.AssignTeams(teamCount); err != nil {
			return err
		}
		c.refresh(ctx, s)
		c.publish(event.TeamsAssigned{
			Host:      s.Host(),
			TeamCount: teamCount,
			TeamSize:  s.TeamSize(),
			At:        time.Now().UTC(),
		})
		return nil
	})
}

// FindSessions searches the advertised listings by title terms.
func (c *Coordinator) FindSessions(ctx context.Context, terms string, limit int) ([]search.Listing, error) {
	return c.index.Find(ctx, terms, limit)
}

// OnMemberJoinedViaReaction handles a join button press. Duplicate and
// late deliveries are benign: a member already connected, a full roster, a
// frozen session, or a retired rendered identity all result in a silent
// no-op rather than an error.
func (c *Coordinator) OnMemberJoinedViaReaction(ctx context.Context, renderedID string, member domain.MemberRef) {
	found, err := c.registry.MutateByRendered(renderedID, func(s *domain.Session) error {
		if !s.Mutable() || s.Roster().Contains(member) {
			return nil
		}
		rejected, err := s.AddMembers([]domain.MemberRef{member})
		if err != nil || len(rejected) > 0 {
			return err
		}
		c.refresh(ctx, s)
		c.monitoring.IncrReactionJoins()
		c.publish(event.MembersJoined{Host: s.Host(), Members: []domain.MemberRef{member}, At: time.Now().UTC()})
		return nil
	})
	if err != nil {
		c.log.Warn("Reaction join failed", "member", member.Name, "err", err)
	}
	if !found {
		c.log.Debug("Reaction join on unknown rendered identity", "rendered_id", renderedID)
	}
}

// OnMemberLeftViaReaction handles a leave button press, with the same
// tolerance for duplicates and stale identities as the join path.
func (c *Coordinator) OnMemberLeftViaReaction(ctx context.Context, renderedID string, member domain.MemberRef) {
	found, err := c.registry.MutateByRendered(renderedID, func(s *domain.Session) error {
		if !s.Mutable() || !s.Roster().Contains(member) {
			return nil
		}
		if _, err := s.RemoveMembers([]domain.MemberRef{member}); err != nil {
			return err
		}
		c.refresh(ctx, s)
		c.monitoring.IncrReactionLeaves()
		c.publish(event.MembersLeft{Host: s.Host(), Members: []domain.MemberRef{member}, At: time.Now().UTC()})
		return nil
	})
	if err != nil {
		c.log.Warn("Reaction leave failed", "member", member.Name, "err", err)
	}
	if !found {
		c.log.Debug("Reaction leave on unknown rendered identity", "rendered_id", renderedID)
	}
}

// MarkEarlyCleanup flags every session the member participates in (as host
// or roster member) as a candidate for the abandonment sweep.
func (c *Coordinator) MarkEarlyCleanup(member domain.MemberRef) {
	c.registry.Each(func(s *domain.Session) {
		if s.Host().ID == member.ID || s.Roster().Contains(member) {
			s.MarkEarlyCleanup()
		}
	})
}

// SweepExpired force-ends every session older than maxLifetime. Each
// session is ended and deregistered exactly once, however often the sweep
// runs.
func (c *Coordinator) SweepExpired(ctx context.Context, maxLifetime time.Duration) int {
	now := time.Now()
	removed := c.registry.Sweep(
		func(s *domain.Session) bool {
			return !now.Before(s.StartTime().Add(maxLifetime))
		},
		func(s *domain.Session) {
			c.close(ctx, s, event.ClosedExpired)
		},
	)
	c.monitoring.AddSessionsSwept(uint64(removed))
	return removed
}

// SweepAbandoned force-ends early-cleanup candidates older than minLifetime
// once none of their participants (host included) remain voice-connected.
func (c *Coordinator) SweepAbandoned(ctx context.Context, minLifetime time.Duration) int {
	present := c.directory.VoicePresent(ctx)
	now := time.Now()
	removed := c.registry.Sweep(
		func(s *domain.Session) bool {
			if !s.EarlyCleanupEligible() || now.Sub(s.StartTime()) < minLifetime {
				return false
			}
			if _, ok := present[s.Host().ID]; ok {
				return false
			}
			for _, member := range s.Roster().Members() {
				if _, ok := present[member.ID]; ok {
					return false
				}
			}
			return true
		},
		func(s *domain.Session) {
			c.close(ctx, s, event.ClosedAbandoned)
		},
	)
	c.monitoring.AddSessionsSwept(uint64(removed))
	return removed
}

// close transitions the session to its ended state, swaps the rendered
// message for its closed form, and emits the archive-bound event. Must run
// inside the session's critical section.
func (c *Coordinator) close(ctx context.Context, s *domain.Session, reason event.CloseReason) {
	s.End()
	c.refresh(ctx, s)
	c.forget(s)
	c.publish(event.SessionEnded{
		ID:        uuid.New(),
		Host:      s.Host(),
		Title:     s.Title(),
		Capacity:  s.Roster().Capacity(),
		Connected: s.Roster().Connected(),
		Members:   s.Roster().Members(),
		Reason:    reason,
		StartedAt: s.StartTime(),
		At:        time.Now().UTC(),
	})
}

// refresh retires the previous rendered message and creates a fresh one for
// the session's current state. Outward calls are fire-and-forget: failures
// are logged, never propagated, and never corrupt session state.
func (c *Coordinator) refresh(ctx context.Context, s *domain.Session) {
	c.retire(ctx, s)
	id, err := c.renderer.Render(ctx, s.View())
	if err != nil {
		c.log.Error("Render failed", "host", s.Host().Name, "err", err)
		return
	}
	handle := s.SetRendered(id)
	c.monitoring.IncrRendersIssued()
	c.log.Debug("Session rendered", "host", s.Host().Name, "rendered_id", handle.ID, "generation", handle.Generation)
}

func (c *Coordinator) retire(ctx context.Context, s *domain.Session) {
	old := s.Rendered()
	if old.ID == "" {
		return
	}
	if err := c.renderer.Retire(ctx, old.ID); err != nil {
		c.log.Warn("Failed to retire rendered message", "host", s.Host().Name, "rendered_id", old.ID, "err", err)
	}
}

func (c *Coordinator) advertiseListing(s *domain.Session) {
	listing := search.Listing{HostID: s.Host().ID, HostName: s.Host().Name, Title: s.Title()}
	if err := c.index.Put(listing); err != nil {
		c.log.Warn("Failed to index session", "host", s.Host().Name, "err", err)
	}
}

func (c *Coordinator) forget(s *domain.Session) {
	if err := c.index.Forget(s.Host().ID); err != nil {
		c.log.Warn("Failed to remove session from index", "host", s.Host().Name, "err", err)
	}
}

// moderateTitle censors the title and logs the detected language of
// offending input for moderation statistics.
func (c *Coordinator) moderateTitle(title string) string {
	censored, matched := c.moderator.CensorTitle(title)
	if len(matched) > 0 {
		info := whatlanggo.Detect(title)
		c.monitoring.IncrTitlesCensored()
		c.log.Warn("Session title censored",
			"matches", len(matched),
			"lang", info.Lang.Iso6391())
	}
	return censored
}

// publish pushes the event without blocking the caller's critical section.
func (c *Coordinator) publish(evt event.DomainEvent) {
	select {
	case c.events <- evt:
	default:
		c.log.Warn(fmt.Sprintf("Event channel full, dropping event for host %s", evt.HostID()))
	}
}

// resolve maps identifiers to members, reporting the ones the directory
// doesn't know so the caller can surface them per-name.
func (c *Coordinator) resolve(ctx context.Context, names []string) MemberReport {
	var report MemberReport
	for _, name := range names {
		member, ok := c.directory.LookupMember(ctx, name)
		if !ok {
			report.Unresolved = append(report.Unresolved, name)
			continue
		}
		report.Applied = append(report.Applied, member)
	}
	return report
}

func subtract(members, excluded []domain.MemberRef) []domain.MemberRef {
	if len(excluded) == 0 {
		return members
	}
	out := make([]domain.MemberRef, 0, len(members))
	for _, m := range members {
		skip := false
		for _, e := range excluded {
			if m.ID == e.ID {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, m)
		}
	}
	return out
}
