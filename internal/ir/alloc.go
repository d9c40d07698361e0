package ir

import (
	"strconv"
	"sync/atomic"
)

// VarAllocator names the variables the parser generates for
// `has <label> <literal>` clauses.
//
// Each parse owns one allocator, so two parses of the same text produce the
// same names. The counter is atomic; sharing one allocator between
// goroutines never hands out the same name twice.
type VarAllocator struct {
	seq atomic.Int64
}

// NewVarAllocator creates an allocator whose first variable is numbered 1.
func NewVarAllocator() *VarAllocator {
	return &VarAllocator{}
}

// Next returns a fresh internal variable.
func (a *VarAllocator) Next() Var {
	return Var{Name: internalPrefix + strconv.FormatInt(a.seq.Add(1), 10)}
}

// Count returns how many variables have been allocated.
func (a *VarAllocator) Count() int64 {
	return a.seq.Load()
}
