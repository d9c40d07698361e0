package classify

import (
	"strings"

	"github.com/roach88/tqlsh/internal/ir"
)

// TransactionType is the kind of transaction a query runs in.
type TransactionType string

const (
	TxRead   TransactionType = "read"
	TxWrite  TransactionType = "write"
	TxSchema TransactionType = "schema"
)

// ParseTransactionType parses a user-supplied transaction selector,
// ignoring case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TxRead:
		return TxRead, nil
	case TxWrite:
		return TxWrite, nil
	case TxSchema:
		return TxSchema, nil
	default:
		return "", ir.NewArgumentError("Incorrect transaction type provided. Transaction type must be 'read', 'write' or 'schema'.")
	}
}

// TransactionFor picks the transaction type for a query.
//
// A non-empty override wins. Without one, strict mode refuses to guess;
// otherwise schema queries get a schema transaction, writes a write
// transaction and reads a read transaction.
func TransactionFor(t QueryType, override string, strict bool) (TransactionType, error) {
	if override != "" {
		return ParseTransactionType(override)
	}
	if strict {
		return "", ir.NewArgumentError("Strict transaction types is enabled and no transaction type was provided. Use -t to specify transaction type.")
	}
	switch {
	case t.IsSchema():
		return TxSchema, nil
	case t.IsRead():
		return TxRead, nil
	default:
		return TxWrite, nil
	}
}

// Allows reports whether a transaction of type tx may run a query of type t.
// Schema transactions run anything; write transactions run reads and
// writes; read transactions only reads.
func (tx TransactionType) Allows(t QueryType) bool {
	switch tx {
	case TxSchema:
		return true
	case TxWrite:
		return !t.IsSchema()
	case TxRead:
		return t.IsRead()
	default:
		return false
	}
}
