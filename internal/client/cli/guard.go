package cli

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/anshthakare16/sai-sillicon-valley/internal/client/services"
)

// readFile is a test seam for loading the visitor photo from disk.
var readFile = os.ReadFile

func photoMIME(path string) string {
	if filepath.Ext(path) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}

// Submit walks the guard through a visitor intake and submits it. When the
// server is unreachable the submission is parked in the offline queue and
// delivered on reconnect.
func (a *App) Submit(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Visitor name", os.Stdout)
	if err != nil {
		return err
	}
	flatCode, err := getSimpleText(a.reader, "Flat code (e.g. B203)", os.Stdout)
	if err != nil {
		return err
	}
	purpose, err := getSimpleText(a.reader, "Purpose (empty for Other)", os.Stdout)
	if err != nil {
		return err
	}
	vehicleType, err := getSimpleText(a.reader, "Vehicle type (empty if on foot)", os.Stdout)
	if err != nil {
		return err
	}
	vehicleNumber := ""
	if vehicleType != "" {
		vehicleNumber, err = getSimpleText(a.reader, "Vehicle number", os.Stdout)
		if err != nil {
			return err
		}
	}
	photoPath, err := getSimpleText(a.reader, "Photo file path", os.Stdout)
	if err != nil {
		return err
	}
	photo, err := readFile(photoPath)
	if err != nil {
		log.Printf("error reading photo: %v", err)
		return err
	}

	outcome, created, err := a.intake.Submit(ctx, services.Intake{
		VisitorName:   name,
		VehicleType:   vehicleType,
		VehicleNumber: vehicleNumber,
		Purpose:       purpose,
		FlatCode:      flatCode,
		Photo:         photo,
		PhotoMIME:     photoMIME(photoPath),
		GuardID:       a.guardID,
	}, a.isOnline())
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if outcome == services.OutcomeQueued {
		printlnFn("Server unreachable; submission queued for delivery")
		return nil
	}
	printlnFn("Submitted, request id:", created.ID)
	return nil
}

// Pending lists requests awaiting a resident decision, plus the offline
// queue depth.
func (a *App) Pending(ctx context.Context) error {
	pending, err := a.gw.ListPending(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	queued, err := a.queue.Len(ctx)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	view := services.RenderGuardView(pending, queued, a.isOnline())
	printRows(view.Pending)
	printlnFn("Queued offline:", view.QueuedCount)
	a.stale.Store(false)
	return nil
}

// Entry records that an approved visitor passed the gate.
func (a *App) Entry(ctx context.Context, id string) error {
	updated, err := a.gw.AllowEntry(ctx, id)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	when := ""
	if updated.EntryTime != nil {
		when = updated.EntryTime.Format("15:04:05")
	}
	printlnFn("Entry recorded for", updated.VisitorName, when)
	return nil
}
