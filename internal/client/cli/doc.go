// Package cli provides the interactive gate-station command-line client.
//
// It wires configuration, local storage, the REST gateway, and an
// interactive REPL that supports online/offline operation. The guard
// surface (submit, pending, entry) works without a login; resident and
// admin commands open their own sessions.
//
// Key features:
//   - Visitor intake with offline queueing and automatic redelivery
//   - Resident approval inbox with realtime change notifications
//   - Admin stats, record listing and xlsx export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
