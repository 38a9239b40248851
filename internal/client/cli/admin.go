package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/client/services"
)

// AdminLogin prompts for admin credentials and opens a reporting session.
func (a *App) AdminLogin(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter admin username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.AdminLogin(ctx, username, string(password)); err != nil {
		log.Printf("login unsuccessful: %v", err)
		return err
	}

	a.admin = true
	a.resident = nil
	printlnFn("Admin session opened")
	return nil
}

// parseFilter reads an optional wing letter and an optional YYYY-MM-DD date
// from the argument list, in either order.
func parseFilter(args []string) (string, *time.Time, error) {
	wing := ""
	var date *time.Time
	for _, arg := range args {
		if d, err := time.Parse("2006-01-02", arg); err == nil {
			date = &d
			continue
		}
		if len(arg) == 1 {
			wing = arg
			continue
		}
		return "", nil, fmt.Errorf("unrecognized filter %q (want a wing letter or YYYY-MM-DD)", arg)
	}
	return wing, date, nil
}

// Stats prints the daily dashboard numbers, today's by default.
func (a *App) Stats(ctx context.Context, args []string) error {
	_, date, err := parseFilter(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	stats, err := a.gw.Stats(ctx, date)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	view := services.RenderAdminView(stats, nil)
	printlnFn("Today's visitors:", view.Stats.TodayVisitors)
	printlnFn("Approved:", view.Stats.ApprovedToday)
	printlnFn("Denied:", view.Stats.DeniedToday)
	printlnFn("Pending approvals:", view.Stats.PendingApprovals)
	return nil
}

// Records lists the request log, optionally filtered by wing and date.
func (a *App) Records(ctx context.Context, args []string) error {
	wing, date, err := parseFilter(args)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	records, err := a.gw.ListAllRequests(ctx, wing, date)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	view := services.RenderAdminView(nil, records)
	printRows(view.Records)
	return nil
}

// Export downloads the filtered request log as an xlsx workbook and writes
// it to the given path.
func (a *App) Export(ctx context.Context, args []string) error {
	path := args[0]
	wing, date, err := parseFilter(args[1:])
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	workbook, err := a.gw.ExportRequests(ctx, wing, date)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := os.WriteFile(path, workbook, 0o644); err != nil {
		log.Printf("error writing %s: %v", path, err)
		return err
	}

	printlnFn("Report written to", path)
	return nil
}
