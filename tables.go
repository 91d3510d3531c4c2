package clrmeta

import "github.com/appsworld/clrmeta/types"

// TablesStore holds one row slice per ECMA-335 table, mirroring the
// teacher's FileTOC (types.FileHeader + Loads/Sections): a typed
// container that assigns a stable sequence number to each insertion.
// Here the sequence number is the table's 1-based RID.
type TablesStore struct {
	rows map[types.TableID][]types.Row
}

// NewTablesStore returns an empty store.
func NewTablesStore() *TablesStore {
	return &TablesStore{rows: make(map[types.TableID][]types.Row)}
}

// Create appends row without dedup, matching spec.md §4.2's "definition
// table" insertion path: callers do not deduplicate rows of this kind
// before inserting them, they just keep emitting as the construction walk
// visits each TypeDef/Field/Method/etc. in its declared graph order.
func (s *TablesStore) Create(row types.Row) uint32 {
	return s.append(row)
}

// Add appends row for a reference-table caller that has already
// deduplicated through a ridRegistry keyed on reference identity
// (TypeRef, MemberRef, TypeSpec, ModuleRef, AssemblyRef, FileDef,
// ExportedType — spec.md §4.2's "reference table" insertion path).
// Structurally identical to Create; kept as a distinct name so call
// sites read the way spec.md §4.2 describes the two insertion paths.
func (s *TablesStore) Add(row types.Row) uint32 {
	return s.append(row)
}

func (s *TablesStore) append(row types.Row) uint32 {
	id := row.Table()
	s.rows[id] = append(s.rows[id], row)
	return uint32(len(s.rows[id]))
}

// RowCount returns the number of rows currently held for id.
func (s *TablesStore) RowCount(id types.TableID) int {
	return len(s.rows[id])
}

// Rows returns the row slice for id, 1-based RID i at index i-1.
func (s *TablesStore) Rows(id types.TableID) []types.Row {
	return s.rows[id]
}

// Row returns the row at the given 1-based RID, or nil if out of range.
func (s *TablesStore) Row(id types.TableID, rid uint32) types.Row {
	rows := s.rows[id]
	if rid == 0 || int(rid) > len(rows) {
		return nil
	}
	return rows[rid-1]
}

// set replaces the row at a given 1-based RID in place. Used internally
// by the normal builder to fill in a TypeDef row's deferred columns and a
// MethodDef row's RVA.
func (s *TablesStore) set(id types.TableID, rid uint32, row types.Row) {
	s.rows[id][rid-1] = row
}
