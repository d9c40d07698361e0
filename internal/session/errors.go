package session

import (
	"errors"

	"github.com/roach88/tqlsh/internal/ir"
)

// ErrConnectionClosed reports a transaction the server ended underneath
// the shell. The shell forgets the transaction when it sees this.
var ErrConnectionClosed = errors.New("the transaction has been closed")

func errNoConnection() error {
	return ir.NewArgumentError("There is no open connection. Use `%%connect open` first.")
}

func errNoTransaction() error {
	return ir.NewArgumentError("There is no open transaction")
}
