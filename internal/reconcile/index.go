// Package reconcile classifies roster rows against the employee directory
// and applies the resulting actions. The analyzer never mutates anything;
// the committer replays the same classification inside one transaction.
package reconcile

import "github.com/nominadocs/payslip-server/internal/model"

// Index is a read-only snapshot of the employee directory keyed by cedula,
// built from one bulk fetch so that a whole analysis pass sees a single
// consistent state.
type Index map[string]model.Employee

// BuildIndex constructs an Index from a slice of employees. Cedulas absent
// from the slice are simply absent from the index.
func BuildIndex(employees []model.Employee) Index {
	idx := make(Index, len(employees))
	for _, e := range employees {
		idx[e.Cedula] = e
	}
	return idx
}

// Lookup returns the employee for cedula, or nil when the directory has no
// such record.
func (idx Index) Lookup(cedula string) *model.Employee {
	if e, ok := idx[cedula]; ok {
		return &e
	}
	return nil
}
