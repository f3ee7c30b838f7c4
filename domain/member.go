// Package domain contains core concepts of the session coordination engine.
// This file defines member references resolved from the chat platform.
// No runtime, network, or UI logic should be added here.
package domain

// MemberID is the chat platform's stable user identifier.
type MemberID string

// MemberRef is a resolved reference to a chat platform user.
// Equality of members is always decided on ID, never on display name.
type MemberRef struct {
	ID      MemberID
	Name    string
	Mention string
}

func (m MemberRef) String() string {
	if m.Mention != "" {
		return m.Mention
	}
	return m.Name
}
