package permission

import "estate-crm/internal/common/errs"

// Resolver is the single decision point for "may this role do that".
type Resolver struct {
	table *Table
}

func NewResolver(table *Table) *Resolver {
	return &Resolver{table: table}
}

func (r *Resolver) Table() *Table {
	return r.table
}

// Authorize grants when the role holds (resource, action) at either "all"
// or exactly the requested scope. It never fails.
func (r *Resolver) Authorize(role Role, resource, action string, requested Scope) bool {
	granted, ok := r.table.lookup(role, resource, action)
	if !ok {
		return false
	}
	return granted == ScopeAll || granted == requested
}

// EffectiveScope returns the scope the role holds for (resource, action).
func (r *Resolver) EffectiveScope(role Role, resource, action string) (Scope, bool) {
	return r.table.lookup(role, resource, action)
}

// Require is Authorize translated into an AuthorizationError.
func (r *Resolver) Require(role Role, resource, action string, requested Scope) error {
	if r.Authorize(role, resource, action, requested) {
		return nil
	}
	return errs.Denied(string(role), resource, action, string(requested))
}
