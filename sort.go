package clrmeta

import (
	"sort"

	"github.com/appsworld/clrmeta/types"
)

// sortedTableOrder lists the tables spec.md invariant 6 requires to be
// emitted in ascending key-column order. GenericParamConstraint's Owner
// column must be rewritten through GenericParam's resort permutation
// before GenericParamConstraint itself is sorted below, or it would end
// up ordered by stale Owner RIDs; SortAndRewrite does that rewrite
// explicitly rather than relying on map iteration order.
var sortedTableOrder = []types.TableID{
	types.InterfaceImpl, types.ClassLayout, types.FieldLayout,
	types.MethodSemantics, types.MethodImpl, types.GenericParam,
	types.GenericParamConstraint, types.Constant, types.FieldMarshal,
	types.FieldRVA, types.ImplMap, types.DeclSecurity, types.NestedClass,
	types.CustomAttribute,
}

// SortAndRewrite performs the deferred sort pass spec.md §9 calls out:
// every table in sortedTableOrder is stable-sorted by its declared key
// columns, then any column elsewhere that held a RID into a table whose
// row order just changed is rewritten to the row's new position.
//
// Of the fourteen sorted tables, only GenericParam is itself a target of
// a plain-RID column from another sorted table (GenericParamConstraint.
// Owner); every other sorted table is only ever pointed at by coded
// tokens resolved through entities outside the sorted set, so no further
// rewriting is needed once GenericParam's permutation is applied.
func (s *TablesStore) SortAndRewrite() {
	genericParamPermutation := s.sortGenericParam()
	if len(genericParamPermutation) > 0 {
		s.rewriteGenericParamConstraintOwners(genericParamPermutation)
	}

	for _, id := range sortedTableOrder {
		if id == types.GenericParam {
			continue // already sorted above to capture its permutation
		}
		sortTable(s, id) // GenericParamConstraint sorts here, now on rewritten Owner values
	}
}

// sortGenericParam sorts the GenericParam table by (Owner, Number) and
// returns the old-RID→new-RID permutation so GenericParamConstraint can
// be fixed up afterward.
func (s *TablesStore) sortGenericParam() map[uint32]uint32 {
	rows := s.rows[types.GenericParam]
	if len(rows) == 0 {
		return nil
	}
	type indexed struct {
		oldRID uint32
		row    types.GenericParamRow
	}
	items := make([]indexed, len(rows))
	for i, r := range rows {
		items[i] = indexed{oldRID: uint32(i + 1), row: r.(types.GenericParamRow)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].row, items[j].row
		if a.Owner != b.Owner {
			return a.Owner < b.Owner
		}
		return a.Number < b.Number
	})
	permutation := make(map[uint32]uint32, len(items))
	newRows := make([]types.Row, len(items))
	for newIdx, it := range items {
		newRID := uint32(newIdx + 1)
		permutation[it.oldRID] = newRID
		newRows[newIdx] = it.row
	}
	s.rows[types.GenericParam] = newRows
	return permutation
}

func (s *TablesStore) rewriteGenericParamConstraintOwners(permutation map[uint32]uint32) {
	for i, r := range s.rows[types.GenericParamConstraint] {
		row := r.(types.GenericParamConstraintRow)
		if newRID, ok := permutation[row.Owner]; ok {
			row.Owner = newRID
		}
		s.rows[types.GenericParamConstraint][i] = row
	}
}

// sortTable dispatches to the comparator for id's row type. Tables with
// no incoming cross-references (every sorted table but GenericParam) can
// be sorted in place with no further rewrite step.
func sortTable(s *TablesStore, id types.TableID) {
	rows := s.rows[id]
	if len(rows) == 0 {
		return
	}
	switch id {
	case types.InterfaceImpl:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].(types.InterfaceImplRow), rows[j].(types.InterfaceImplRow)
			if a.Class != b.Class {
				return a.Class < b.Class
			}
			return a.Interface < b.Interface
		})
	case types.ClassLayout:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.ClassLayoutRow).Parent < rows[j].(types.ClassLayoutRow).Parent
		})
	case types.FieldLayout:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.FieldLayoutRow).Field < rows[j].(types.FieldLayoutRow).Field
		})
	case types.MethodSemantics:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].(types.MethodSemanticsRow), rows[j].(types.MethodSemanticsRow)
			if a.Assoc != b.Assoc {
				return a.Assoc < b.Assoc
			}
			return a.Semantics < b.Semantics
		})
	case types.MethodImpl:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.MethodImplRow).Class < rows[j].(types.MethodImplRow).Class
		})
	case types.GenericParamConstraint:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].(types.GenericParamConstraintRow), rows[j].(types.GenericParamConstraintRow)
			if a.Owner != b.Owner {
				return a.Owner < b.Owner
			}
			return a.Constraint < b.Constraint
		})
	case types.Constant:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.ConstantRow).Parent < rows[j].(types.ConstantRow).Parent
		})
	case types.FieldMarshal:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.FieldMarshalRow).Parent < rows[j].(types.FieldMarshalRow).Parent
		})
	case types.FieldRVA:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.FieldRVARow).Field < rows[j].(types.FieldRVARow).Field
		})
	case types.ImplMap:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.ImplMapRow).MemberForwarded < rows[j].(types.ImplMapRow).MemberForwarded
		})
	case types.DeclSecurity:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.DeclSecurityRow).Parent < rows[j].(types.DeclSecurityRow).Parent
		})
	case types.NestedClass:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].(types.NestedClassRow).NestedClass < rows[j].(types.NestedClassRow).NestedClass
		})
	case types.CustomAttribute:
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].(types.CustomAttributeRow), rows[j].(types.CustomAttributeRow)
			if a.Parent != b.Parent {
				return a.Parent < b.Parent
			}
			return a.Type < b.Type
		})
	}
}
