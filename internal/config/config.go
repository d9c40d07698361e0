// Package config loads shell configuration from CUE files.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/tqlsh/internal/session"
)

//go:embed schema.cue
var schemaSource string

// Config is the shell configuration.
type Config struct {
	ShowInfo           bool        `json:"show_info"`
	StrictTransactions bool        `json:"strict_transactions"`
	GlobalInference    bool        `json:"global_inference"`
	CreateDatabase     bool        `json:"create_database"`
	Output             string      `json:"output"`
	Graph              string      `json:"graph"`
	History            string      `json:"history"`
	Database           string      `json:"database"`
	Connection         *Connection `json:"connection,omitempty"`
}

// Connection is a connection preset opened when the shell starts.
type Connection struct {
	Kind     string `json:"kind"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
	TLS      bool   `json:"tls"`
}

// Address converts the preset to a session address.
func (c *Connection) Address() session.Address {
	return session.Address{
		Kind:     c.Kind,
		Address:  c.Address,
		Username: c.Username,
		Password: c.Password,
		TLS:      c.TLS,
	}
}

// Error is a configuration error with its CUE position when known.
type Error struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Default returns the configuration an empty file produces.
func Default() *Config {
	cfg, err := decode(cuecontext.New().CompileString("{}"), "<default>")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	return cfg
}

// Load reads the CUE file at path. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, convert(path, err)
	}
	return decode(v, path)
}

// decode unifies user with the #Config schema and decodes the result.
func decode(user cue.Value, path string) (*Config, error) {
	ctx := user.Context()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, err
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, convert(path, err)
	}
	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, convert(path, err)
	}
	return &cfg, nil
}

func convert(path string, err error) error {
	var ce cueerrors.Error
	if errors.As(err, &ce) {
		e := &Error{Path: path, Message: ce.Error()}
		if pos := ce.Position(); pos.IsValid() {
			e.Line, e.Column = pos.Line(), pos.Column()
		}
		return e
	}
	return &Error{Path: path, Message: err.Error()}
}

// HistoryPath returns the history database path, resolving the empty
// default to tqlsh/history.db under the user cache directory.
func (c *Config) HistoryPath() (string, error) {
	if c.History != "" {
		return c.History, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate history database: %w", err)
	}
	return filepath.Join(dir, "tqlsh", "history.db"), nil
}
