package pqtree

import "github.com/Gregable/pq-trees/pqerr"

// newInternalError builds the panic value for an invariant violation —
// a bug in this package, not a malformed caller input — per spec.md's
// third failure kind. Reduce/ReduceAll let it propagate; SafeReduce/
// SafeReduceAll recover it, roll back to the pre-reduction snapshot,
// and report it through Tree.LastError instead.
func newInternalError(format string, args ...any) *pqerr.Error {
	return pqerr.New(pqerr.ErrInternal, format, args...)
}
