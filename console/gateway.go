package console

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"open-invite/domain"
	"open-invite/runtime"
	"open-invite/runtime/workers"
)

var (
	intPattern   = regexp.MustCompile(`\d+`)
	titlePattern = regexp.MustCompile(`"(.*?)"`)
)

// Gateway drives the coordinator from stdin, playing the role of the chat
// platform's command router during development.
type Gateway struct {
	log         *slog.Logger
	coordinator *runtime.Coordinator
	directory   *Directory
	sweeper     *workers.SessionSweeper
	host        domain.MemberRef
}

func NewGateway(
	log *slog.Logger,
	coordinator *runtime.Coordinator,
	directory *Directory,
	sweeper *workers.SessionSweeper,
	hostName string,
) *Gateway {
	host := domain.MemberRef{ID: domain.MemberID(hostName), Name: hostName, Mention: "@" + hostName}
	return &Gateway{
		log:         log,
		coordinator: coordinator,
		directory:   directory,
		sweeper:     sweeper,
		host:        host,
	}
}

// Run reads one command per line until stdin closes or the context ends.
func (g *Gateway) Run(ctx context.Context) error {
	fmt.Println("open-invite console, type !help for commands")
	scanner := bufio.NewScanner(os.Stdin)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			g.handle(ctx, strings.TrimSpace(line))
		}
	}
}

func (g *Gateway) handle(ctx context.Context, line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)
	command := fields[0]
	args := fields[1:]

	var err error
	switch command {
	case "!help":
		g.printHelp()
	case "!start":
		size := 0
		if m := intPattern.FindString(line); m != "" {
			size, _ = strconv.Atoi(m)
		}
		title := ""
		if m := titlePattern.FindStringSubmatch(line); m != nil {
			title = m[1]
		}
		err = g.coordinator.StartSession(ctx, g.host, title, size)
	case "!end":
		err = g.coordinator.EndSession(ctx, g.host.ID)
	case "!cancel":
		err = g.coordinator.CancelSession(ctx, g.host.ID)
	case "!add":
		g.report(g.coordinator.AddMembers(ctx, g.host.ID, args))
		return
	case "!remove":
		g.report(g.coordinator.RemoveMembers(ctx, g.host.ID, args))
		return
	case "!resize":
		size := 0
		if len(args) > 0 {
			size, _ = strconv.Atoi(args[0])
		}
		err = g.coordinator.Resize(ctx, g.host.ID, size)
	case "!rename":
		title := ""
		if m := titlePattern.FindStringSubmatch(line); m != nil {
			title = m[1]
		}
		err = g.coordinator.Rename(ctx, g.host.ID, title)
	case "!teams":
		count := 0
		if len(args) > 0 {
			count, _ = strconv.Atoi(args[0])
		}
		err = g.coordinator.AssignTeams(ctx, g.host.ID, count)
	case "!advertise":
		err = g.coordinator.Advertise(ctx, g.host.ID)
	case "!find":
		listings, findErr := g.coordinator.FindSessions(ctx, strings.Join(args, " "), 10)
		if findErr != nil {
			err = findErr
			break
		}
		for _, listing := range listings {
			fmt.Printf("  %s (hosted by %s)\n", listing.Title, listing.HostName)
		}
	case "!afk":
		for _, name := range args {
			if member, ok := g.directory.LookupMember(ctx, name); ok && g.directory.SetVoicePresence(name, false) {
				g.coordinator.MarkEarlyCleanup(member)
			}
		}
		g.sweeper.TriggerEarlySweep()
	case "!back":
		for _, name := range args {
			g.directory.SetVoicePresence(name, true)
		}
	case "!stats":
		stats := g.coordinator.Stats()
		fmt.Printf("  active=%d started=%d ended=%d swept=%d joins=%d leaves=%d renders=%d\n",
			g.coordinator.ActiveSessions(), stats.SessionsStarted, stats.SessionsEnded,
			stats.SessionsSwept, stats.ReactionJoins, stats.ReactionLeaves, stats.RendersIssued)
	default:
		// Unrecognized input is ignored, like any other chat message.
		return
	}

	if err != nil {
		fmt.Printf("  error: %v\n", err)
	}
}

func (g *Gateway) report(report runtime.MemberReport, err error) {
	if err != nil {
		fmt.Printf("  error: %v\n", err)
		return
	}
	if len(report.Unresolved) > 0 {
		fmt.Printf("  could not find: %s\n", strings.Join(report.Unresolved, " "))
	}
	if len(report.Rejected) > 0 {
		names := make([]string, 0, len(report.Rejected))
		for _, member := range report.Rejected {
			names = append(names, member.Name)
		}
		fmt.Printf("  not applied: %s\n", strings.Join(names, " "))
	}
}

func (g *Gateway) printHelp() {
	fmt.Print(`  !start [SLOTS] "TITLE"   start a session
  !add NAME...             add members
  !remove NAME...          remove members
  !resize SLOTS            change the slot count
  !rename "TITLE"          change the title
  !teams COUNT             shuffle into teams
  !advertise               re-post and list for discovery
  !find TERMS              search advertised sessions
  !end                     end the session (closed form stays)
  !cancel                  cancel and remove the session
  !afk NAME...             mark members off voice and trigger a sweep
  !back NAME...            mark members back on voice
  !stats                   engine counters
`)
}
