package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"open-invite/repositories"
)

// Standalone inspector for the session archive. Opens the BadgerDB
// read-only so it can run next to a live engine.
func main() {
	dbPath := flag.String("db", "./data/archive", "Path to badger DB")
	limit := flag.Int("limit", 50, "Max records to display, newest first")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	records, err := repositories.NewArchiveRepository(db, slog.Default()).ListRecords(*limit)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Ended", "Host", "Title", "Filled", "Reason", "Members"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, record := range records {
		members := make([]string, 0, len(record.Members))
		for _, id := range record.Members {
			members = append(members, string(id))
		}

		table.Append([]string{
			record.EndedAt.Format("2006-01-02 15:04:05"),
			record.HostName,
			record.Title,
			fmt.Sprintf("%d/%d", record.Connected, record.Capacity),
			record.Reason,
			strings.Join(members, " "),
		})
	}

	table.Render()
	fmt.Printf("\n%d record(s)\n", len(records))
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
