package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/ir"
)

// Result is a query together with how it ran.
type Result struct {
	Query       string
	Type        classify.QueryType
	Database    string
	Transaction classify.TransactionType
	Answer      *Answer
}

// Manager tracks the open connection and the active transaction.
type Manager struct {
	mu     sync.Mutex
	dial   Dialer
	addr   Address
	driver Driver
	tx     Transaction

	createDatabase bool
	strict         bool
	logger         *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCreateDatabase makes OpenTransaction create a missing database
// instead of failing.
func WithCreateDatabase(create bool) Option {
	return func(m *Manager) {
		m.createDatabase = create
	}
}

// WithStrictTransactions makes Run refuse to infer a transaction type.
func WithStrictTransactions(strict bool) Option {
	return func(m *Manager) {
		m.strict = strict
	}
}

// WithLogger sets the manager's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager that opens connections with dial.
func NewManager(dial Dialer, opts ...Option) *Manager {
	m := &Manager{dial: dial, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open connects to addr. Only one connection may be open at a time.
func (m *Manager) Open(ctx context.Context, addr Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver != nil {
		return ir.NewArgumentError("Cannot open more than one connection. Use `%%connect close` to close opened connection first.")
	}
	d, err := m.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	m.driver = d
	m.addr = addr
	m.logger.Info("opened connection", "address", addr.String())
	return nil
}

// Close closes the active transaction, if any, and the connection.
// Closing without a connection is a no-op.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil
	}
	var errs []error
	if m.tx != nil {
		if m.tx.IsOpen() {
			errs = append(errs, m.tx.Close())
		}
		m.tx = nil
	}
	errs = append(errs, m.driver.Close())
	m.logger.Info("closed connection", "address", m.addr.String())
	m.driver = nil
	m.addr = Address{}
	return errors.Join(errs...)
}

// Connected reports whether a connection is open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driver != nil
}

// Address returns the address of the open connection.
func (m *Manager) Address() (Address, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr, m.driver != nil
}

// Databases lists the server's databases.
func (m *Manager) Databases(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil, errNoConnection()
	}
	return m.driver.Databases(ctx)
}

// CreateDatabase creates a database.
func (m *Manager) CreateDatabase(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkDatabaseOp(name); err != nil {
		return err
	}
	return m.driver.CreateDatabase(ctx, name)
}

// RecreateDatabase deletes a database if it exists and creates it empty.
func (m *Manager) RecreateDatabase(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkDatabaseOp(name); err != nil {
		return err
	}
	exists, err := m.driver.ContainsDatabase(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		if err := m.driver.DeleteDatabase(ctx, name); err != nil {
			return err
		}
	}
	return m.driver.CreateDatabase(ctx, name)
}

// DeleteDatabase deletes a database.
func (m *Manager) DeleteDatabase(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkDatabaseOp(name); err != nil {
		return err
	}
	return m.driver.DeleteDatabase(ctx, name)
}

// Schema returns a database's schema as TypeQL define text.
func (m *Manager) Schema(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkDatabaseOp(name); err != nil {
		return "", err
	}
	return m.driver.Schema(ctx, name)
}

func (m *Manager) checkDatabaseOp(name string) error {
	if m.driver == nil {
		return errNoConnection()
	}
	if name == "" {
		return ir.NewArgumentError("A database name is required.")
	}
	return nil
}

// OpenTransaction opens a transaction on database and makes it active.
// Only one transaction may be active at a time.
func (m *Manager) OpenTransaction(ctx context.Context, database string, tx classify.TransactionType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return errNoConnection()
	}
	if m.tx != nil {
		return ir.NewArgumentError("Cannot open a transaction when there is one active. Please close it first.")
	}
	if database == "" {
		return ir.NewArgumentError("transaction open database tx_type")
	}
	if err := m.ensureDatabase(ctx, database); err != nil {
		return err
	}
	t, err := m.driver.Transaction(ctx, database, tx)
	if err != nil {
		return err
	}
	m.tx = t
	m.logger.Debug("opened transaction", "database", database, "type", tx)
	return nil
}

func (m *Manager) ensureDatabase(ctx context.Context, database string) error {
	if !m.createDatabase {
		return nil
	}
	exists, err := m.driver.ContainsDatabase(ctx, database)
	if err != nil || exists {
		return err
	}
	m.logger.Info("creating missing database", "database", database)
	return m.driver.CreateDatabase(ctx, database)
}

// ActiveTransaction returns the active transaction.
func (m *Manager) ActiveTransaction() (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeTx()
}

// activeTx returns the active transaction, forgetting it if the server
// has closed it.
func (m *Manager) activeTx() (Transaction, error) {
	if m.tx == nil {
		return nil, errNoTransaction()
	}
	if !m.tx.IsOpen() {
		m.tx = nil
		return nil, ErrConnectionClosed
	}
	return m.tx, nil
}

// CloseTransaction closes the active transaction without committing.
func (m *Manager) CloseTransaction() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.activeTx()
	if err != nil {
		return err
	}
	if err := tx.Close(); err != nil {
		return err
	}
	m.tx = nil
	return nil
}

// Commit commits the active transaction.
func (m *Manager) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.activeTx()
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	m.tx = nil
	return nil
}

// Rollback rolls back the active transaction.
func (m *Manager) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.activeTx()
	if err != nil {
		return err
	}
	if err := tx.Rollback(ctx); err != nil {
		return err
	}
	m.tx = nil
	return nil
}

// Query runs text in the active transaction.
func (m *Manager) Query(ctx context.Context, text string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	qt, err := classifyText(text)
	if err != nil {
		return nil, err
	}
	tx, err := m.activeTx()
	if err != nil {
		return nil, err
	}
	if !tx.Type().Allows(qt) {
		return nil, ir.NewArgumentError("A %s query cannot run in a %s transaction.", qt, tx.Type())
	}
	ans, err := tx.Query(ctx, text)
	if err != nil {
		if errors.Is(err, ErrConnectionClosed) {
			m.tx = nil
		}
		return nil, err
	}
	return &Result{Query: text, Type: qt, Database: tx.Database(), Transaction: tx.Type(), Answer: ans}, nil
}

// Run runs text in a transaction of its own on database. The transaction
// type comes from override, or is inferred from the query. Write and
// schema transactions are committed; read transactions are closed.
func (m *Manager) Run(ctx context.Context, database, text, override string) (res *Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.driver == nil {
		return nil, errNoConnection()
	}
	if m.tx != nil {
		return nil, ir.NewArgumentError("A transaction is active. Use `%%transaction close` or run the query in it.")
	}
	qt, err := classifyText(text)
	if err != nil {
		return nil, err
	}
	txType, err := classify.TransactionFor(qt, override, m.strict)
	if err != nil {
		return nil, err
	}
	if !txType.Allows(qt) {
		return nil, ir.NewArgumentError("A %s query cannot run in a %s transaction.", qt, txType)
	}
	if err := m.ensureDatabase(ctx, database); err != nil {
		return nil, err
	}

	tx, err := m.driver.Transaction(ctx, database, txType)
	if err != nil {
		return nil, err
	}
	defer func() {
		if tx.IsOpen() {
			err = errors.Join(err, tx.Close())
		}
	}()

	ans, err := tx.Query(ctx, text)
	if err != nil {
		return nil, err
	}
	if txType != classify.TxRead {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
	}
	m.logger.Debug("ran query", "database", database, "query_type", qt, "transaction", txType)
	return &Result{Query: text, Type: qt, Database: database, Transaction: txType, Answer: ans}, nil
}

func classifyText(text string) (classify.QueryType, error) {
	if strings.TrimSpace(text) == "" {
		return "", ir.NewArgumentError("No query string supplied.")
	}
	return classify.Classify(text)
}
