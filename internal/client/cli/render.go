package cli

import (
	"fmt"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/client/services"
)

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// printRows writes a request list as fixed-width columns.
func printRows(rows []services.RequestRow) {
	if len(rows) == 0 {
		printlnFn("No requests")
		return
	}
	printlnFn(fmt.Sprintf("%-36s  %-20s  %-12s  %-10s  %-16s  %s",
		"ID", "Visitor", "Vehicle", "Status", "Created", "Decided"))
	for _, r := range rows {
		created := r.CreatedAt.Format("2006-01-02 15:04")
		printlnFn(fmt.Sprintf("%-36s  %-20s  %-12s  %-10s  %-16s  %s",
			r.ID, r.VisitorName, r.VehicleLabel, r.Status, created, formatTime(r.DecidedAt)))
	}
}
