// Package runtime coordinates sessions between command input, reaction input,
// and background sweeps. It orchestrates the system without containing
// rendering or chat platform logic.
package runtime

import (
	"log/slog"
	"sync"

	"open-invite/domain"
	"open-invite/errors"
)

// sessionEntry pairs a session with the mutex serializing all of its
// mutations. The removed flag makes end-of-life exactly-once: whoever flips
// it under the entry lock owns the removal.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
	removed bool
}

// SessionRegistry maps each host to their single active session.
//
// Locking discipline: the registry mutex guards the map only; every read or
// write of a session happens under that session's entry mutex, so a
// lookup-then-mutate sequence is one critical section per session and
// operations on different hosts never block each other. The registry mutex
// is never held while an entry mutex is awaited.
type SessionRegistry struct {
	mu             sync.RWMutex
	log            *slog.Logger
	maxSessionSize int
	entries        map[domain.MemberID]*sessionEntry
}

func NewSessionRegistry(log *slog.Logger, maxSessionSize int) *SessionRegistry {
	return &SessionRegistry{
		log:            log,
		maxSessionSize: maxSessionSize,
		entries:        make(map[domain.MemberID]*sessionEntry),
	}
}

// Len reports the number of active sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Start creates and registers a session for the host. The init callback runs
// under the new session's entry lock, before any command or reaction can
// reach it; the coordinator uses it to issue the first render.
func (r *SessionRegistry) Start(host domain.MemberRef, title string, capacity int, init func(*domain.Session)) (*domain.Session, error) {
	if capacity <= 0 || capacity > r.maxSessionSize {
		return nil, errors.ErrInvalidSize
	}

	entry := &sessionEntry{session: domain.NewSession(host, title, capacity)}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	r.mu.Lock()
	if _, ok := r.entries[host.ID]; ok {
		r.mu.Unlock()
		return nil, errors.ErrAlreadyHasSession
	}
	r.entries[host.ID] = entry
	r.mu.Unlock()

	if init != nil {
		init(entry.session)
	}
	r.log.Info("Session registered", "host", host.Name, "capacity", capacity)
	return entry.session, nil
}

func (r *SessionRegistry) lookup(hostID domain.MemberID) (*sessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[hostID]
	return entry, ok
}

// Mutate applies fn to the host's session under its entry lock.
func (r *SessionRegistry) Mutate(hostID domain.MemberID, fn func(*domain.Session) error) error {
	entry, ok := r.lookup(hostID)
	if !ok {
		return errors.ErrNoActiveSession
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return errors.ErrNoActiveSession
	}
	return fn(entry.session)
}

// Remove deregisters the host's session, invoking fn (end or cancel
// semantics) under the entry lock. A concurrent Remove for the same host
// loses the race on the removed flag and reports no active session.
func (r *SessionRegistry) Remove(hostID domain.MemberID, fn func(*domain.Session)) error {
	entry, ok := r.lookup(hostID)
	if !ok {
		return errors.ErrNoActiveSession
	}

	entry.mu.Lock()
	if entry.removed {
		entry.mu.Unlock()
		return errors.ErrNoActiveSession
	}
	entry.removed = true
	if fn != nil {
		fn(entry.session)
	}
	entry.mu.Unlock()

	r.mu.Lock()
	delete(r.entries, hostID)
	r.mu.Unlock()
	return nil
}

// MutateByRendered resolves the session owning the rendered identity and
// applies fn in the same critical section. The scan is O(active sessions),
// the accepted cost of keeping a single host-keyed map; an identity that
// matches nothing (a retired render referenced by a late reaction) reports
// found == false and is not an error.
func (r *SessionRegistry) MutateByRendered(renderedID string, fn func(*domain.Session) error) (bool, error) {
	r.mu.RLock()
	candidates := make([]*sessionEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		candidates = append(candidates, entry)
	}
	r.mu.RUnlock()

	for _, entry := range candidates {
		entry.mu.Lock()
		if !entry.removed && entry.session.Rendered().ID == renderedID {
			err := fn(entry.session)
			entry.mu.Unlock()
			return true, err
		}
		entry.mu.Unlock()
	}
	return false, nil
}

// Each runs fn on every active session, one entry lock at a time.
func (r *SessionRegistry) Each(fn func(*domain.Session)) {
	r.mu.RLock()
	candidates := make([]*sessionEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		candidates = append(candidates, entry)
	}
	r.mu.RUnlock()

	for _, entry := range candidates {
		entry.mu.Lock()
		if !entry.removed {
			fn(entry.session)
		}
		entry.mu.Unlock()
	}
}

// Sweep removes every session the judge selects, running onRemove under the
// entry lock before deregistration. Each session is removed at most once
// even when sweeps and host commands race. Returns the number removed.
func (r *SessionRegistry) Sweep(judge func(*domain.Session) bool, onRemove func(*domain.Session)) int {
	r.mu.RLock()
	candidates := make(map[domain.MemberID]*sessionEntry, len(r.entries))
	for id, entry := range r.entries {
		candidates[id] = entry
	}
	r.mu.RUnlock()

	removed := 0
	for id, entry := range candidates {
		entry.mu.Lock()
		if entry.removed || !judge(entry.session) {
			entry.mu.Unlock()
			continue
		}
		entry.removed = true
		if onRemove != nil {
			onRemove(entry.session)
		}
		entry.mu.Unlock()

		r.mu.Lock()
		delete(r.entries, id)
		r.mu.Unlock()
		removed++
	}
	return removed
}
