package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"open-invite/observability"
)

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	ActiveSessions() int
}

// HeartbeatWorker periodically logs engine counters together with the
// process's own health metrics (CPU, RSS, status).
type HeartbeatWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	sessions   SessionCounter
	interval   time.Duration
}

func NewHeartbeatWorker(
	log *slog.Logger,
	monitoring *observability.MonitoringManager,
	sessions SessionCounter,
	interval time.Duration,
) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, monitoring: monitoring, sessions: sessions, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.GetLatest()
			w.log.Info("Engine heartbeat",
				"active_sessions", w.sessions.ActiveSessions(),
				"sessions_started", stats.SessionsStarted,
				"sessions_ended", stats.SessionsEnded,
				"sessions_swept", stats.SessionsSwept,
				"reaction_joins", stats.ReactionJoins,
				"reaction_leaves", stats.ReactionLeaves,
				"renders_issued", stats.RendersIssued,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"pid_status", status)
		}
	}
}

// selfStats retrieves memory, CPU, and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
