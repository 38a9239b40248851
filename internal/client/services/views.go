package services

import (
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
)

// View projections: pure functions from fetched state to view models.
// Nothing here touches the gateway or the terminal; the REPL fetches
// state, renders it through these builders and prints the result.

// RequestRow is one display line of a request list.
type RequestRow struct {
	ID           string
	VisitorName  string
	VehicleLabel string
	Purpose      string
	FlatID       string
	Status       string
	CreatedAt    time.Time
	DecidedAt    *time.Time
	EntryTime    *time.Time
}

// GuardView backs the guard pending list.
type GuardView struct {
	Pending     []RequestRow
	QueuedCount int
	Online      bool
}

// ResidentView backs the resident inbox and history lists.
type ResidentView struct {
	Inbox   []RequestRow
	History []RequestRow
}

// AdminView backs the admin dashboard.
type AdminView struct {
	Stats   api.Stats
	Records []RequestRow
}

// vehicleLabel renders the optional vehicle pair; both absent means "N/A".
func vehicleLabel(vehicleType, vehicleNumber string) string {
	switch {
	case vehicleType == "" && vehicleNumber == "":
		return "N/A"
	case vehicleType == "":
		return vehicleNumber
	case vehicleNumber == "":
		return vehicleType
	default:
		return vehicleType + " " + vehicleNumber
	}
}

func toRow(r api.VisitorRequest) RequestRow {
	row := RequestRow{
		ID:           r.ID,
		VisitorName:  r.VisitorName,
		VehicleLabel: vehicleLabel(r.VehicleType, r.VehicleNumber),
		Purpose:      r.Purpose,
		FlatID:       r.FlatID,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		EntryTime:    r.EntryTime,
	}
	if r.ApprovedAt != nil {
		row.DecidedAt = r.ApprovedAt
	} else if r.DeniedAt != nil {
		row.DecidedAt = r.DeniedAt
	}
	return row
}

func toRows(requests []api.VisitorRequest) []RequestRow {
	rows := make([]RequestRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, toRow(r))
	}
	return rows
}

// RenderGuardView projects the guard station state.
func RenderGuardView(pending []api.VisitorRequest, queuedCount int, online bool) GuardView {
	return GuardView{Pending: toRows(pending), QueuedCount: queuedCount, Online: online}
}

// RenderResidentView projects the resident inbox plus decided history.
func RenderResidentView(inbox, history []api.VisitorRequest) ResidentView {
	return ResidentView{Inbox: toRows(inbox), History: toRows(history)}
}

// RenderAdminView projects the admin stats and record listing. Stats
// default to zero values when the fetch failed upstream.
func RenderAdminView(stats *api.Stats, records []api.VisitorRequest) AdminView {
	view := AdminView{Records: toRows(records)}
	if stats != nil {
		view.Stats = *stats
	}
	return view
}
