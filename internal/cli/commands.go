package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/ir"
)

const shellHelp = `Shell commands:
  %connect open [kind://]address   connect (a bare address is a fixture file)
  %connect close                   close the connection
  %connect status                  show the connection and transaction
  %database list                   list databases
  %database use NAME               run queries outside transactions on NAME
  %database create NAME            create a database
  %database recreate NAME          delete and create a database
  %database delete NAME            delete a database
  %database schema NAME            print a database's schema
  %transaction open [DB] TYPE      open a read, write or schema transaction
  %transaction close               close the transaction without committing
  %transaction commit              commit and close the transaction
  %transaction rollback            roll back and close the transaction
  %visualise on|off                draw the answer graph of match queries
  %help                            show this help
  exit                             leave the shell

End a query with a blank line to run it.`

// handleCommand runs a %-command. Errors are printed, never returned.
func (s *Shell) handleCommand(ctx context.Context, input string) {
	parts := strings.Fields(strings.TrimPrefix(input, "%"))
	if len(parts) == 0 {
		s.printError(ir.NewArgumentError("Empty command. Use %%help."))
		return
	}

	var err error
	switch parts[0] {
	case "help":
		fmt.Fprintln(s.Out, shellHelp)
	case "connect":
		err = s.connectCommand(ctx, parts[1:])
	case "database":
		err = s.databaseCommand(ctx, parts[1:])
	case "transaction":
		err = s.transactionCommand(ctx, parts[1:])
	case "visualise":
		err = s.visualiseCommand(parts[1:])
	default:
		err = ir.NewArgumentError("Unknown command %q. Use %%help.", parts[0])
	}
	if err != nil {
		s.printError(err)
	}
}

func (s *Shell) connectCommand(ctx context.Context, args []string) error {
	switch {
	case len(args) == 2 && args[0] == "open":
		addr := parseAddress(args[1])
		if err := s.Manager.Open(ctx, addr); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "Connected to %s\n", addr)
	case len(args) == 1 && args[0] == "close":
		if err := s.Manager.Close(); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Connection closed")
	case len(args) == 1 && args[0] == "status":
		addr, ok := s.Manager.Address()
		if !ok {
			fmt.Fprintln(s.Out, "Not connected")
			return nil
		}
		fmt.Fprintf(s.Out, "Connected to %s\n", addr)
		if tx, err := s.Manager.ActiveTransaction(); err == nil {
			fmt.Fprintf(s.Out, "Transaction: %s on %s\n", tx.Type(), tx.Database())
		}
	default:
		return usage("%connect open ADDRESS | close | status")
	}
	return nil
}

func (s *Shell) databaseCommand(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "list" {
		dbs, err := s.Manager.Databases(ctx)
		if err != nil {
			return err
		}
		if len(dbs) == 0 {
			fmt.Fprintln(s.Out, "No databases.")
		}
		for _, db := range dbs {
			fmt.Fprintln(s.Out, db)
		}
		return nil
	}
	if len(args) != 2 {
		return usage("%database list | use NAME | create NAME | recreate NAME | delete NAME | schema NAME")
	}

	name := args[1]
	switch args[0] {
	case "use":
		s.Database = name
		fmt.Fprintf(s.Out, "Using database %s\n", name)
	case "create":
		if err := s.Manager.CreateDatabase(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "Created database %s\n", name)
	case "recreate":
		if err := s.Manager.RecreateDatabase(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "Recreated database %s\n", name)
	case "delete":
		if err := s.Manager.DeleteDatabase(ctx, name); err != nil {
			return err
		}
		if s.Database == name {
			s.Database = ""
		}
		fmt.Fprintf(s.Out, "Deleted database %s\n", name)
	case "schema":
		schema, err := s.Manager.Schema(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out, strings.TrimRight(schema, "\n"))
	default:
		return usage("%database list | use NAME | create NAME | recreate NAME | delete NAME | schema NAME")
	}
	return nil
}

func (s *Shell) transactionCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("%transaction open [DATABASE] TYPE | close | commit | rollback")
	}
	switch args[0] {
	case "open":
		database, typ := s.Database, ""
		switch len(args) {
		case 2:
			typ = args[1]
		case 3:
			database, typ = args[1], args[2]
		default:
			return usage("%transaction open [DATABASE] read|write|schema")
		}
		if database == "" {
			return ir.NewArgumentError("No database selected. Use `%%transaction open DATABASE TYPE`.")
		}
		tx, err := classify.ParseTransactionType(typ)
		if err != nil {
			return err
		}
		if err := s.Manager.OpenTransaction(ctx, database, tx); err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "Opened %s transaction on %s\n", tx, database)
	case "close":
		if err := s.Manager.CloseTransaction(); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Transaction closed")
	case "commit":
		if err := s.Manager.Commit(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Transaction committed")
	case "rollback":
		if err := s.Manager.Rollback(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.Out, "Transaction rolled back")
	default:
		return usage("%transaction open [DATABASE] TYPE | close | commit | rollback")
	}
	return nil
}

func (s *Shell) visualiseCommand(args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return usage("%visualise on|off")
	}
	s.Visualise = args[0] == "on"
	fmt.Fprintf(s.Out, "Visualisation %s\n", args[0])
	return nil
}

func usage(forms string) error {
	return ir.NewArgumentError("Usage: %s", forms)
}
