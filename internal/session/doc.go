// Package session manages the shell's connection to a TypeDB-style server
// and the transaction queries run in.
//
// A Manager holds at most one open connection and at most one active
// transaction on it. The server itself sits behind the Driver interface,
// so the shell can run against a live server or an offline fixture.
//
// Thread-safety: Manager is safe for concurrent use. Each operation holds
// the manager's mutex for its duration, including the driver call.
package session
