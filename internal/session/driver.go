package session

import (
	"context"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/concept"
)

// Address names a server to connect to.
type Address struct {
	// Kind is the server flavour: "core", "cluster" or "fixture".
	Kind     string
	Address  string
	Username string
	Password string
	TLS      bool
}

func (a Address) String() string {
	if a.Kind == "" {
		return a.Address
	}
	return a.Kind + "://" + a.Address
}

// Dialer opens a Driver for an address.
type Dialer func(ctx context.Context, addr Address) (Driver, error)

// Driver is an open connection to a server.
type Driver interface {
	Databases(ctx context.Context) ([]string, error)
	ContainsDatabase(ctx context.Context, name string) (bool, error)
	CreateDatabase(ctx context.Context, name string) error
	DeleteDatabase(ctx context.Context, name string) error
	Schema(ctx context.Context, name string) (string, error)

	// Transaction opens a transaction on database.
	Transaction(ctx context.Context, database string, tx classify.TransactionType) (Transaction, error)

	Close() error
}

// Transaction is an open transaction. Commit, Rollback and Close all end
// it; IsOpen reports false afterwards, or when the server ended it.
type Transaction interface {
	Database() string
	Type() classify.TransactionType
	IsOpen() bool

	Query(ctx context.Context, text string) (*Answer, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Close() error
}

// AnswerKind tags what a query returned.
type AnswerKind string

const (
	// AnswerOK is returned by writes and schema queries with nothing to show.
	AnswerOK        AnswerKind = "ok"
	AnswerRows      AnswerKind = "rows"
	AnswerDocuments AnswerKind = "documents"
)

// Answer is the result of one query.
type Answer struct {
	Kind      AnswerKind
	Rows      []concept.Row
	Documents []map[string]any
}

// Len returns the number of rows or documents.
func (a *Answer) Len() int {
	switch a.Kind {
	case AnswerRows:
		return len(a.Rows)
	case AnswerDocuments:
		return len(a.Documents)
	}
	return 0
}
