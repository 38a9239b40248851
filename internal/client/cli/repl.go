package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Submit(ctx context.Context) error
	Pending(ctx context.Context) error
	Entry(ctx context.Context, id string) error

	Login(ctx context.Context) error
	Inbox(ctx context.Context) error
	History(ctx context.Context) error
	Decide(ctx context.Context, id, status string) error
	Language(ctx context.Context, lang string) error
	Logout(ctx context.Context) error

	AdminLogin(ctx context.Context) error
	Stats(ctx context.Context, args []string) error
	Records(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// The guard surface (submit, pending, entry) needs no login. Resident
// commands appear after "login", admin commands after "admin".
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gate %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Guard: submit, (p)ending, entry <id>")
			switch {
			case a.isAdmin():
				printlnFn("Admin: stats [date], records [wing] [date], export <file> [wing] [date], logout")
			case a.isLoggedIn():
				printlnFn("Resident: inbox, history, approve <id>, deny <id>, lang <code>, logout")
			default:
				printlnFn("Sessions: login, admin")
			}
			printlnFn("Other: help, exit")

		case "submit":
			_ = a.Submit(ctx)

		case "p", "pending":
			_ = a.Pending(ctx)

		case "entry":
			if len(args) == 0 {
				printlnFn("Usage: entry <id>")
				continue
			}
			_ = a.Entry(ctx, args[0])

		case "login":
			_ = a.Login(ctx)

		case "inbox":
			_ = a.Inbox(ctx)

		case "history":
			_ = a.History(ctx)

		case "approve":
			if len(args) == 0 {
				printlnFn("Usage: approve <id>")
				continue
			}
			_ = a.Decide(ctx, args[0], "approved")

		case "deny":
			if len(args) == 0 {
				printlnFn("Usage: deny <id>")
				continue
			}
			_ = a.Decide(ctx, args[0], "denied")

		case "lang":
			if len(args) == 0 {
				printlnFn("Usage: lang <code>")
				continue
			}
			_ = a.Language(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "admin":
			_ = a.AdminLogin(ctx)

		case "stats":
			_ = a.Stats(ctx, args)

		case "records":
			_ = a.Records(ctx, args)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file> [wing] [date]")
				continue
			}
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
