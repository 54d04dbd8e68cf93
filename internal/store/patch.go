// Package store holds persistence helpers shared by the services.
package store

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// ErrUnknownColumn is returned when a patch names a column outside its allow-list.
var ErrUnknownColumn = errors.New("column not patchable")

type assignment struct {
	column string
	value  any
}

// Patch is an ordered set of optional column updates. Columns are checked
// against an allow-list and values are always bound as parameters.
type Patch struct {
	allowed map[string]bool
	fields  []assignment
	err     error
}

// NewPatch starts a patch limited to the given columns.
func NewPatch(columns ...string) *Patch {
	allowed := make(map[string]bool, len(columns))
	for _, c := range columns {
		allowed[c] = true
	}
	return &Patch{allowed: allowed}
}

// Set queues column = value. A later Set of the same column replaces the earlier value.
func (p *Patch) Set(column string, value any) *Patch {
	if !p.allowed[column] {
		if p.err == nil {
			p.err = fmt.Errorf("%w: %s", ErrUnknownColumn, column)
		}
		return p
	}
	for i := range p.fields {
		if p.fields[i].column == column {
			p.fields[i].value = value
			return p
		}
	}
	p.fields = append(p.fields, assignment{column: column, value: value})
	return p
}

// SetIf queues the update only when ok is true.
func (p *Patch) SetIf(ok bool, column string, value any) *Patch {
	if ok {
		return p.Set(column, value)
	}
	return p
}

// Empty reports whether nothing has been queued.
func (p *Patch) Empty() bool { return len(p.fields) == 0 }

// Columns returns the queued column names, sorted.
func (p *Patch) Columns() []string {
	cols := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		cols = append(cols, f.column)
	}
	sort.Strings(cols)
	return cols
}

// Values returns the queued assignments as a map for gorm's Updates.
func (p *Patch) Values() map[string]any {
	m := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		m[f.column] = f.value
	}
	return m
}

// Err reports the first disallowed column, if any.
func (p *Patch) Err() error { return p.err }

// Apply runs a single parameterized UPDATE for the queued columns on the
// rows matched by tx and returns the number of affected rows.
func (p *Patch) Apply(tx *gorm.DB) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	if p.Empty() {
		return 0, nil
	}
	res := tx.Updates(p.Values())
	return res.RowsAffected, res.Error
}
