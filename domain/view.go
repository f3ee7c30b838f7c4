package domain

import (
	"time"

	"github.com/samber/lo"
)

// FooterMode tells the renderer which affordances the message should carry.
type FooterMode int

const (
	FooterJoinable FooterMode = iota
	FooterEnded
)

// SlotRow is one display row of the roster. An open row reads "OPEN SLOT"
// while the session is joinable and "CLOSED SLOT" once it has ended.
type SlotRow struct {
	Index  int
	Open   bool
	Member MemberRef
}

// TeamGroup is a contiguous run of slot rows assigned to one team.
type TeamGroup struct {
	Number int
	Rows   []SlotRow
}

// SessionView is everything the renderer needs to (re)create the outward
// representation of a session. It is a snapshot: mutating the session after
// building a view does not affect it.
type SessionView struct {
	Title     string
	Host      MemberRef
	Rows      []SlotRow
	Teams     []TeamGroup
	Footer    FooterMode
	Color     int
	StartedAt time.Time
}

func buildRows(slots []Slot) []SlotRow {
	return lo.Map(slots, func(slot Slot, i int) SlotRow {
		return SlotRow{Index: i, Open: !slot.Occupied, Member: slot.Member}
	})
}

// buildTeams partitions rows into groups of teamSize. Group i covers indices
// [i*teamSize, (i+1)*teamSize). Remainder rows beyond teamCount*teamSize are
// left out of any group, matching the floor division of the team size.
func buildTeams(rows []SlotRow, teamCount, teamSize int) []TeamGroup {
	if teamCount < 1 || teamSize < 1 {
		return nil
	}
	groups := make([]TeamGroup, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		groups = append(groups, TeamGroup{
			Number: i + 1,
			Rows:   rows[i*teamSize : (i+1)*teamSize],
		})
	}
	return groups
}
