package observability

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// SessionStats aggregates the engine's counters for logging and the console.
type SessionStats struct {
	SessionsStarted   uint64    `json:"sessions_started"`
	SessionsEnded     uint64    `json:"sessions_ended"`
	SessionsCancelled uint64    `json:"sessions_cancelled"`
	SessionsSwept     uint64    `json:"sessions_swept"`
	ReactionJoins     uint64    `json:"reaction_joins"`
	ReactionLeaves    uint64    `json:"reaction_leaves"`
	RendersIssued     uint64    `json:"renders_issued"`
	TitlesCensored    uint64    `json:"titles_censored"`
	CollectedAt       time.Time `json:"collected_at"`
}

// MonitoringManager keeps real-time counters for the session engine.
// Counters are atomic so command, reaction, and sweeper goroutines can bump
// them without coordination.
type MonitoringManager struct {
	log *slog.Logger

	sessionsStarted   uint64
	sessionsEnded     uint64
	sessionsCancelled uint64
	sessionsSwept     uint64
	reactionJoins     uint64
	reactionLeaves    uint64
	rendersIssued     uint64
	titlesCensored    uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

func (mm *MonitoringManager) IncrSessionsStarted()   { atomic.AddUint64(&mm.sessionsStarted, 1) }
func (mm *MonitoringManager) IncrSessionsEnded()     { atomic.AddUint64(&mm.sessionsEnded, 1) }
func (mm *MonitoringManager) IncrSessionsCancelled() { atomic.AddUint64(&mm.sessionsCancelled, 1) }
func (mm *MonitoringManager) IncrReactionJoins()     { atomic.AddUint64(&mm.reactionJoins, 1) }
func (mm *MonitoringManager) IncrReactionLeaves()    { atomic.AddUint64(&mm.reactionLeaves, 1) }
func (mm *MonitoringManager) IncrRendersIssued()     { atomic.AddUint64(&mm.rendersIssued, 1) }
func (mm *MonitoringManager) IncrTitlesCensored()    { atomic.AddUint64(&mm.titlesCensored, 1) }

func (mm *MonitoringManager) AddSessionsSwept(n uint64) {
	atomic.AddUint64(&mm.sessionsSwept, n)
}

// GetLatest snapshots every counter at the time of the call.
func (mm *MonitoringManager) GetLatest() SessionStats {
	return SessionStats{
		SessionsStarted:   atomic.LoadUint64(&mm.sessionsStarted),
		SessionsEnded:     atomic.LoadUint64(&mm.sessionsEnded),
		SessionsCancelled: atomic.LoadUint64(&mm.sessionsCancelled),
		SessionsSwept:     atomic.LoadUint64(&mm.sessionsSwept),
		ReactionJoins:     atomic.LoadUint64(&mm.reactionJoins),
		ReactionLeaves:    atomic.LoadUint64(&mm.reactionLeaves),
		RendersIssued:     atomic.LoadUint64(&mm.rendersIssued),
		TitlesCensored:    atomic.LoadUint64(&mm.titlesCensored),
		CollectedAt:       time.Now().UTC(),
	}
}
