package domain

import "math/rand"

// Slot is one position in a roster. The Occupied flag is the single source
// of truth: a vacated slot and a never-filled slot are both Occupied == false.
type Slot struct {
	Occupied bool
	Member   MemberRef
}

// Roster is the fixed-capacity ordered slot array backing a session's
// membership. Position is significant: it drives rendering and team
// partitioning. Roster is not safe for concurrent use; callers serialize
// access per session.
type Roster struct {
	slots     []Slot
	connected int
}

func NewRoster(capacity int) *Roster {
	return &Roster{slots: make([]Slot, capacity)}
}

func (r *Roster) Capacity() int {
	return len(r.slots)
}

// Connected reports the number of occupied slots.
func (r *Roster) Connected() int {
	return r.connected
}

// Slots returns a copy of the slot sequence in display order.
func (r *Roster) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Members returns the occupied members in slot order.
func (r *Roster) Members() []MemberRef {
	var members []MemberRef
	for _, slot := range r.slots {
		if slot.Occupied {
			members = append(members, slot.Member)
		}
	}
	return members
}

// Contains reports whether the member occupies some slot.
func (r *Roster) Contains(member MemberRef) bool {
	return r.indexOf(member) != -1
}

func (r *Roster) indexOf(member MemberRef) int {
	for i, slot := range r.slots {
		if slot.Occupied && slot.Member.ID == member.ID {
			return i
		}
	}
	return -1
}

func (r *Roster) firstOpenSlot() int {
	for i, slot := range r.slots {
		if !slot.Occupied {
			return i
		}
	}
	return -1
}

// AddMembers places each candidate into the first open slot, in input order.
// A candidate already present, or arriving when no slot is open, is returned
// in the rejected list and causes no mutation. Partial success is allowed
// within one call.
func (r *Roster) AddMembers(members []MemberRef) []MemberRef {
	var rejected []MemberRef
	for _, member := range members {
		if r.Contains(member) {
			rejected = append(rejected, member)
			continue
		}
		open := r.firstOpenSlot()
		if open == -1 {
			rejected = append(rejected, member)
			continue
		}
		r.slots[open] = Slot{Occupied: true, Member: member}
		r.connected++
	}
	return rejected
}

// RemoveMembers vacates the slot of each candidate that is present. The slot
// is emptied in place; remaining entries are never compacted or shifted.
// Absent candidates are returned in the rejected list.
func (r *Roster) RemoveMembers(members []MemberRef) []MemberRef {
	var rejected []MemberRef
	for _, member := range members {
		idx := r.indexOf(member)
		if idx == -1 {
			rejected = append(rejected, member)
			continue
		}
		r.slots[idx] = Slot{}
		r.connected--
	}
	return rejected
}

// Resize rebuilds the slot sequence at the new capacity, keeping every
// occupied member at the index it already held. It fails without mutation
// when the new capacity is below the connected count. An occupied index
// beyond the new capacity (a sparse roster shrunk past it) is relocated to
// the first open slot; the capacity check guarantees one exists.
func (r *Roster) Resize(newCapacity int) bool {
	if newCapacity < r.connected {
		return false
	}
	newSlots := make([]Slot, newCapacity)
	var overflow []Slot
	for i, slot := range r.slots {
		if !slot.Occupied {
			continue
		}
		if i < newCapacity {
			newSlots[i] = slot
		} else {
			overflow = append(overflow, slot)
		}
	}
	for _, slot := range overflow {
		for i := range newSlots {
			if !newSlots[i].Occupied {
				newSlots[i] = slot
				break
			}
		}
	}
	r.slots = newSlots
	return true
}

// Shuffle uniformly permutes all slot contents in place, empty slots
// included. Team assignment uses the resulting order.
func (r *Roster) Shuffle() {
	rand.Shuffle(len(r.slots), func(i, j int) {
		r.slots[i], r.slots[j] = r.slots[j], r.slots[i]
	})
}
