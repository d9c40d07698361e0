package fixture

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/tqlsh/internal/classify"
	"github.com/roach88/tqlsh/internal/concept"
	"github.com/roach88/tqlsh/internal/ir"
	"github.com/roach88/tqlsh/internal/session"
)

// Dial is a session.Dialer that loads the fixture file named by
// addr.Address.
func Dial(_ context.Context, addr session.Address) (session.Driver, error) {
	f, err := Load(addr.Address)
	if err != nil {
		return nil, err
	}
	return NewDriver(f), nil
}

type database struct {
	name    string
	schema  string
	answers map[string]*session.Answer
}

// Driver serves a fixture's databases. Database management changes the
// in-memory copy only.
type Driver struct {
	mu     sync.Mutex
	order  []string
	dbs    map[string]*database
	closed bool
}

var _ session.Driver = (*Driver)(nil)

// NewDriver creates a driver over f. Rows are converted eagerly; f has
// already been validated by Parse.
func NewDriver(f *Fixture) *Driver {
	d := &Driver{dbs: make(map[string]*database)}
	for _, fdb := range f.Databases {
		db := &database{
			name:    fdb.Name,
			schema:  fdb.Schema,
			answers: make(map[string]*session.Answer),
		}
		for _, a := range fdb.Answers {
			db.answers[normaliseQuery(a.Query)] = toAnswer(a)
		}
		d.order = append(d.order, fdb.Name)
		d.dbs[fdb.Name] = db
	}
	return d
}

func toAnswer(a Answer) *session.Answer {
	switch {
	case len(a.Documents) > 0:
		return &session.Answer{Kind: session.AnswerDocuments, Documents: a.Documents}
	case len(a.Rows) > 0:
		rows := make([]concept.Row, 0, len(a.Rows))
		for _, r := range a.Rows {
			row := concept.NewMapRow()
			for _, col := range r.Columns {
				c, _ := col.Concept.Concept()
				row.Set(col.Name, c)
			}
			rows = append(rows, row)
		}
		return &session.Answer{Kind: session.AnswerRows, Rows: rows}
	default:
		return &session.Answer{Kind: session.AnswerOK}
	}
}

func (d *Driver) Databases(context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	return slices.Clone(d.order), nil
}

func (d *Driver) ContainsDatabase(_ context.Context, name string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return false, err
	}
	_, ok := d.dbs[name]
	return ok, nil
}

func (d *Driver) CreateDatabase(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return err
	}
	if _, ok := d.dbs[name]; ok {
		return ir.NewArgumentError("Database '%s' already exists.", name)
	}
	d.dbs[name] = &database{name: name, answers: make(map[string]*session.Answer)}
	d.order = append(d.order, name)
	return nil
}

func (d *Driver) DeleteDatabase(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.lookup(name); err != nil {
		return err
	}
	delete(d.dbs, name)
	d.order = slices.DeleteFunc(d.order, func(n string) bool { return n == name })
	return nil
}

func (d *Driver) Schema(_ context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	db, err := d.lookup(name)
	if err != nil {
		return "", err
	}
	return db.schema, nil
}

func (d *Driver) Transaction(_ context.Context, name string, tx classify.TransactionType) (session.Transaction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	db, err := d.lookup(name)
	if err != nil {
		return nil, err
	}
	return &transaction{driver: d, db: db, typ: tx, open: true}, nil
}

// Close ends the driver. Open transactions report closed afterwards.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) checkOpen() error {
	if d.closed {
		return fmt.Errorf("fixture driver: %w", session.ErrConnectionClosed)
	}
	return nil
}

func (d *Driver) lookup(name string) (*database, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	db, ok := d.dbs[name]
	if !ok {
		return nil, ir.NewArgumentError("Database '%s' does not exist.", name)
	}
	return db, nil
}

type transaction struct {
	driver  *Driver
	db      *database
	typ     classify.TransactionType
	open    bool
	defines []string
}

func (t *transaction) Database() string               { return t.db.name }
func (t *transaction) Type() classify.TransactionType { return t.typ }

func (t *transaction) IsOpen() bool {
	return t.open && !t.driver.isClosed()
}

// Query returns the canned answer for text. Unknown reads answer no rows
// and unknown writes answer OK. Schema queries are kept until commit.
func (t *transaction) Query(_ context.Context, text string) (*session.Answer, error) {
	if !t.IsOpen() {
		return nil, session.ErrConnectionClosed
	}
	qt, err := classify.Classify(text)
	if err != nil {
		return nil, err
	}
	if !t.typ.Allows(qt) {
		return nil, ir.NewArgumentError("A %s query cannot run in a %s transaction.", qt, t.typ)
	}
	if qt == classify.Define {
		t.defines = append(t.defines, strings.TrimSpace(text))
	}

	t.driver.mu.Lock()
	ans, ok := t.db.answers[normaliseQuery(text)]
	t.driver.mu.Unlock()
	if ok {
		return ans, nil
	}
	if qt.IsRead() {
		return &session.Answer{Kind: session.AnswerRows}, nil
	}
	return &session.Answer{Kind: session.AnswerOK}, nil
}

// Commit applies pending define queries to the schema text.
func (t *transaction) Commit(context.Context) error {
	if !t.IsOpen() {
		return session.ErrConnectionClosed
	}
	if t.typ == classify.TxRead {
		return ir.NewArgumentError("Cannot commit a read transaction.")
	}
	t.driver.mu.Lock()
	for _, q := range t.defines {
		if t.db.schema != "" && !strings.HasSuffix(t.db.schema, "\n") {
			t.db.schema += "\n"
		}
		t.db.schema += q + "\n"
	}
	t.driver.mu.Unlock()
	t.open = false
	return nil
}

func (t *transaction) Rollback(context.Context) error {
	if !t.IsOpen() {
		return session.ErrConnectionClosed
	}
	t.defines = nil
	t.open = false
	return nil
}

func (t *transaction) Close() error {
	t.defines = nil
	t.open = false
	return nil
}
