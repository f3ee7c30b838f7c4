// Package console is a development stand-in for the chat platform: a
// renderer that prints session views to the terminal, a static member
// directory, and a stdin command loop. It lets the engine run end to end
// without a chat platform connection.
package console

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"open-invite/domain"
)

// Renderer prints each session view as a table and hands back a fresh
// identity per render, mimicking the chat platform's new-message-per-update
// behavior.
type Renderer struct {
	colours bool
}

func NewRenderer(colours bool) *Renderer {
	return &Renderer{colours: colours}
}

func (r *Renderer) Render(_ context.Context, view domain.SessionView) (string, error) {
	id := uuid.NewString()

	header := fmt.Sprintf("%s (hosted by %s)", view.Title, view.Host.Name)
	if r.colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Slot", "Team", "Member"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)

	teamOf := teamNumbers(view)
	for _, row := range view.Rows {
		member := row.Member.Name
		if row.Open {
			member = "OPEN SLOT"
			if view.Footer == domain.FooterEnded {
				member = "CLOSED SLOT"
			}
		}
		table.Append([]string{strconv.Itoa(row.Index + 1), teamOf[row.Index], member})
	}
	table.Render()

	footer := "react 👍 to join, ✋ to leave"
	if view.Footer == domain.FooterEnded {
		footer = "SESSION ENDED"
	}
	fmt.Printf("[%s] %s\n\n", id[:8], footer)
	return id, nil
}

func (r *Renderer) Retire(_ context.Context, renderedID string) error {
	fmt.Printf("[%s] (message removed)\n", renderedID[:8])
	return nil
}

func teamNumbers(view domain.SessionView) map[int]string {
	teamOf := make(map[int]string)
	for _, group := range view.Teams {
		for _, row := range group.Rows {
			teamOf[row.Index] = strconv.Itoa(group.Number)
		}
	}
	return teamOf
}
