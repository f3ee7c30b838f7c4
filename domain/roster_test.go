package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func member(name string) MemberRef {
	return MemberRef{ID: MemberID(name), Name: name, Mention: "@" + name}
}

func TestRoster_AddMembers_Fills_First_Open_Slots_In_Order(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(4)

	// When three members join an empty roster
	rejected := roster.AddMembers([]MemberRef{member("alice"), member("bob"), member("carol")})

	// Then they occupy the lowest indices in input order
	req.Empty(rejected)
	req.Equal(3, roster.Connected())
	slots := roster.Slots()
	req.Equal(member("alice"), slots[0].Member)
	req.Equal(member("bob"), slots[1].Member)
	req.Equal(member("carol"), slots[2].Member)
	req.False(slots[3].Occupied)
}

func TestRoster_AddMembers_Rejects_Duplicates_Without_Mutation(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(4)
	roster.AddMembers([]MemberRef{member("alice")})

	// When the same member joins again
	rejected := roster.AddMembers([]MemberRef{member("alice")})

	// Then the join is rejected and the roster is unchanged
	req.Equal([]MemberRef{member("alice")}, rejected)
	req.Equal(1, roster.Connected())
}

func TestRoster_AddMembers_Partial_Success_When_Roster_Fills_Mid_Batch(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(2)

	// When a batch of three arrives on a two-slot roster
	rejected := roster.AddMembers([]MemberRef{member("alice"), member("bob"), member("carol")})

	// Then the first two are placed and the third is rejected
	req.Equal([]MemberRef{member("carol")}, rejected)
	req.Equal(2, roster.Connected())
	req.True(roster.Contains(member("alice")))
	req.True(roster.Contains(member("bob")))
	req.False(roster.Contains(member("carol")))
}

func TestRoster_RemoveMembers_Vacates_In_Place_Without_Compacting(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(3)
	roster.AddMembers([]MemberRef{member("alice"), member("bob"), member("carol")})

	// When the middle member leaves
	rejected := roster.RemoveMembers([]MemberRef{member("bob")})

	// Then the gap stays where it was
	req.Empty(rejected)
	slots := roster.Slots()
	req.Equal(member("alice"), slots[0].Member)
	req.False(slots[1].Occupied)
	req.Equal(member("carol"), slots[2].Member)
}

func TestRoster_Vacated_Slot_Is_Reused_First(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(3)
	roster.AddMembers([]MemberRef{member("alice"), member("bob"), member("carol")})
	roster.RemoveMembers([]MemberRef{member("bob")})

	// When a new member joins
	roster.AddMembers([]MemberRef{member("dave")})

	// Then the vacated middle slot is filled before any later slot
	req.Equal(member("dave"), roster.Slots()[1].Member)
}

func TestRoster_RemoveMembers_Rejects_Absent_Member(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(2)
	roster.AddMembers([]MemberRef{member("alice")})

	rejected := roster.RemoveMembers([]MemberRef{member("ghost")})

	req.Equal([]MemberRef{member("ghost")}, rejected)
	req.Equal(1, roster.Connected())
}

func TestRoster_Resize_Grow_Preserves_Positions(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(2)
	roster.AddMembers([]MemberRef{member("alice"), member("bob")})

	// When the roster grows
	req.True(roster.Resize(4))

	// Then existing members keep their indices and new slots open at the end
	slots := roster.Slots()
	req.Len(slots, 4)
	req.Equal(member("alice"), slots[0].Member)
	req.Equal(member("bob"), slots[1].Member)
	req.False(slots[2].Occupied)
	req.False(slots[3].Occupied)
}

func TestRoster_Resize_Below_Connected_Fails_Without_Mutation(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(4)
	roster.AddMembers([]MemberRef{member("alice"), member("bob"), member("carol")})

	// When shrinking below the connected count
	ok := roster.Resize(2)

	// Then nothing changes
	req.False(ok)
	req.Equal(4, roster.Capacity())
	req.Equal(3, roster.Connected())
}

func TestRoster_Resize_Shrink_Relocates_Overflow_Occupants(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(6)
	roster.AddMembers([]MemberRef{
		member("alice"), member("bob"), member("carol"),
		member("dave"), member("erin"), member("frank"),
	})
	roster.RemoveMembers([]MemberRef{member("bob"), member("carol"), member("dave")})

	// Given occupants at indices 0, 4 and 5 with three connected
	// When shrinking to capacity 3
	req.True(roster.Resize(3))

	// Then every occupant survives inside the new bounds
	req.Equal(3, roster.Capacity())
	req.Equal(3, roster.Connected())
	req.True(roster.Contains(member("alice")))
	req.True(roster.Contains(member("erin")))
	req.True(roster.Contains(member("frank")))
	req.Equal(member("alice"), roster.Slots()[0].Member)
}

func TestRoster_Shuffle_Permutes_Without_Losing_Anyone(t *testing.T) {
	req := require.New(t)
	roster := NewRoster(8)
	var members []MemberRef
	for i := 0; i < 5; i++ {
		members = append(members, member(fmt.Sprintf("player%d", i)))
	}
	roster.AddMembers(members)

	roster.Shuffle()

	// Then the multiset of occupants and the occupancy count are unchanged
	req.Equal(5, roster.Connected())
	req.Equal(8, roster.Capacity())
	for _, m := range members {
		req.True(roster.Contains(m))
	}
}
