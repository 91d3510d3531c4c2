package clrmeta

import "errors"

// ErrNoModuleType is fatal: every managed module must have a <Module>
// TypeDef reachable from the graph root (spec.md §4.8).
var ErrNoModuleType = errors.New("clrmeta: graph has no <Module> TypeDef")

// ErrCodedTokenTable is wrapped with the offending table/kind when a
// cross-reference targets a table that kind's tag table does not admit
// (spec.md §4.3) — surfaced to the caller as a fatal build failure.
var ErrCodedTokenTable = errors.New("clrmeta: table cannot be encoded for this coded-token kind")
