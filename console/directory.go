package console

import (
	"context"
	"strings"
	"sync"

	"open-invite/domain"
)

// Directory is an in-memory member directory for console runs. Every seeded
// member starts voice-present; the gateway's presence commands move them in
// and out to exercise the sweeper.
type Directory struct {
	mu      sync.RWMutex
	members map[string]domain.MemberRef
	voice   map[domain.MemberID]struct{}
}

func NewDirectory(names []string) *Directory {
	d := &Directory{
		members: make(map[string]domain.MemberRef),
		voice:   make(map[domain.MemberID]struct{}),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		member := domain.MemberRef{
			ID:      domain.MemberID(name),
			Name:    name,
			Mention: "@" + name,
		}
		d.members[name] = member
		d.voice[member.ID] = struct{}{}
	}
	return d
}

func (d *Directory) LookupMember(_ context.Context, identifier string) (domain.MemberRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	member, ok := d.members[strings.TrimPrefix(identifier, "@")]
	return member, ok
}

func (d *Directory) VoicePresent(_ context.Context) map[domain.MemberID]struct{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	present := make(map[domain.MemberID]struct{}, len(d.voice))
	for id := range d.voice {
		present[id] = struct{}{}
	}
	return present
}

// SetVoicePresence flips a member's voice state, reporting whether the
// member exists.
func (d *Directory) SetVoicePresence(name string, present bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	member, ok := d.members[strings.TrimPrefix(name, "@")]
	if !ok {
		return false
	}
	if present {
		d.voice[member.ID] = struct{}{}
	} else {
		delete(d.voice, member.ID)
	}
	return true
}
