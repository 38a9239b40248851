package cli

import (
	"context"
	"log"
	"os"

	"github.com/anshthakare16/sai-sillicon-valley/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for the resident's phone, email and flat code and opens a
// resident session. Registration and login are the same operation: the
// server upserts the resident by phone.
func (a *App) Login(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Enter phone (10 digits)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	flatCode, err := getSimpleText(a.reader, "Enter flat code (e.g. B203)", os.Stdout)
	if err != nil {
		return err
	}

	resident, err := a.session.Login(ctx, phone, email, flatCode)
	if err != nil {
		log.Printf("login unsuccessful: %v", err)
		return err
	}

	a.resident = resident
	a.admin = false
	printlnFn("Logged in as", resident.Phone)
	return nil
}

// Inbox lists the pending requests addressed to the resident's flat.
func (a *App) Inbox(ctx context.Context) error {
	if a.resident == nil {
		printlnFn("Not logged in")
		return nil
	}
	inbox, err := a.gw.ListPendingForFlat(ctx, a.resident.FlatID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	view := services.RenderResidentView(inbox, nil)
	printRows(view.Inbox)
	a.stale.Store(false)
	return nil
}

// History lists the flat's most recent decided requests.
func (a *App) History(ctx context.Context) error {
	if a.resident == nil {
		printlnFn("Not logged in")
		return nil
	}
	history, err := a.gw.ListHistoryForFlat(ctx, a.resident.FlatID)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	view := services.RenderResidentView(nil, history)
	printRows(view.History)
	return nil
}

// Decide approves or denies a pending request.
func (a *App) Decide(ctx context.Context, id, status string) error {
	if a.resident == nil {
		printlnFn("Not logged in")
		return nil
	}
	updated, err := a.gw.UpdateStatus(ctx, id, status)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printlnFn("Request", updated.ID, "is now", updated.Status)
	return nil
}

// Language stores the UI language preference.
func (a *App) Language(ctx context.Context, lang string) error {
	if err := a.session.SetLanguage(ctx, lang); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	printlnFn("Language set to", lang)
	return nil
}

// Logout closes the current session. Queued submissions are station-scoped
// and survive.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	a.resident = nil
	a.admin = false
	printlnFn("Logged out")
	return nil
}
