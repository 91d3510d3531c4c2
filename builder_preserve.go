package clrmeta

import (
	"go.uber.org/zap"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

// PreservingBuilder implements spec.md §4.7: it runs the same row-walk as
// NormalBuilder but seeds its heaps from a source module's surviving
// content first, and reserves each preservable table's RID space out to
// the source's original row count, so a RID that existed in the source
// module is never reused by a newly emitted entity even when the graph
// no longer carries a row for it.
//
// Gap-filling semantics were an open question in spec.md §9; the
// decision recorded here (and in DESIGN.md) is: a missing source row
// becomes a zero-value placeholder row at its original RID, and every
// newly-added entity in an on-demand reference table lands after the
// source's last original RID in that table, never interleaved with
// replayed ones. See ownerRangeTables for the one group of tables this
// ordering guarantee can't be made for.
type PreservingBuilder struct {
	*NormalBuilder
	Source *graph.PreservedTables
}

// NewPreservingBuilder wires a builder whose heaps are seeded from
// source before any new content is added, matching spec.md §4.1
// "Preservation seeding": seeded content always keeps its original
// offsets since the heap's own dedup never rewrites bytes already on disk.
func NewPreservingBuilder(source *graph.PreservedTables) *PreservingBuilder {
	b := NewNormalBuilder()
	if source != nil {
		b.strs.Seed(source.StringsHeap)
		b.us.Seed(source.USHeap)
		b.guids.Seed(source.GuidHeap)
		b.blobs.Seed(source.BlobHeap)
	}
	return &PreservingBuilder{NormalBuilder: b, Source: source}
}

// ownerRangeTables are the tables whose RID order is load-bearing
// during the row walk itself: Module/TypeDef carry the <Module> pseudo
// class as a hardcoded first row, and Field/MethodDef/Param/Event/
// Property are threaded into contiguous FieldList/MethodList/ParamList/
// EventList/PropertyList ranges as buildRows walks the graph in order.
// Reserving gap RIDs for these before the walk starts would shift the
// very rows those invariants are defined against, so they're padded
// (best-effort) only after the walk, like before this type existed.
var ownerRangeTables = map[types.TableID]bool{
	types.Module:      true,
	types.TypeDef:     true,
	types.Field:       true,
	types.MethodDef:   true,
	types.Param:       true,
	types.Event:       true,
	types.Property:    true,
	types.EventMap:    true,
	types.PropertyMap: true,
	types.Assembly:    true,
}

// Build reserves RID space for the source's on-demand reference tables
// before the row walk, so a newly referenced TypeRef/MemberRef/etc.
// lands after the source's original rows instead of reusing a gap left
// by a reference the new graph no longer makes. It then runs the
// normal row walk, best-effort pads the owner-range tables the walk's
// own invariants don't allow reserving ahead of time, and sorts.
func (b *PreservingBuilder) Build(module *graph.Module) (*TablesStore, error) {
	if b.Source != nil {
		b.reserveGaps(false)
	}
	if err := b.buildRows(module); err != nil {
		return nil, err
	}
	if b.Source != nil {
		b.reserveGaps(true)
	}
	b.tables.SortAndRewrite()
	return b.tables, nil
}

// reserveGaps pads every table named in Source.RowCounts up to its
// recorded count with zero-value placeholder rows. ownerRange selects
// which half of the table set this call is responsible for: false pads
// everything else (reference and sorted tables) before buildRows runs,
// true pads the owner-range tables afterward on a best-effort basis.
func (b *PreservingBuilder) reserveGaps(ownerRange bool) {
	for raw, want := range b.Source.RowCounts {
		id := types.TableID(raw)
		if ownerRangeTables[id] != ownerRange {
			continue
		}
		row, ok := placeholderRow(id)
		if !ok {
			Logger().Warn("preservation: unrecognized table id in RowCounts, skipped", zap.Uint8("table", raw))
			continue
		}
		have := uint32(b.tables.RowCount(id))
		for have < want {
			b.tables.Create(row)
			have++
		}
	}
}

// placeholderRow returns the zero value of id's row type, satisfying
// types.Row via that type's value-receiver Table() method, or ok=false
// if id names no table this build knows about.
func placeholderRow(id types.TableID) (row types.Row, ok bool) {
	switch id {
	case types.Module:
		return types.ModuleRow{}, true
	case types.TypeRef:
		return types.TypeRefRow{}, true
	case types.TypeDef:
		return types.TypeDefRow{}, true
	case types.Field:
		return types.FieldRow{}, true
	case types.MethodDef:
		return types.MethodDefRow{}, true
	case types.Param:
		return types.ParamRow{}, true
	case types.InterfaceImpl:
		return types.InterfaceImplRow{}, true
	case types.MemberRef:
		return types.MemberRefRow{}, true
	case types.Constant:
		return types.ConstantRow{}, true
	case types.CustomAttribute:
		return types.CustomAttributeRow{}, true
	case types.FieldMarshal:
		return types.FieldMarshalRow{}, true
	case types.DeclSecurity:
		return types.DeclSecurityRow{}, true
	case types.ClassLayout:
		return types.ClassLayoutRow{}, true
	case types.FieldLayout:
		return types.FieldLayoutRow{}, true
	case types.StandAloneSig:
		return types.StandAloneSigRow{}, true
	case types.EventMap:
		return types.EventMapRow{}, true
	case types.Event:
		return types.EventRow{}, true
	case types.PropertyMap:
		return types.PropertyMapRow{}, true
	case types.Property:
		return types.PropertyRow{}, true
	case types.MethodSemantics:
		return types.MethodSemanticsRow{}, true
	case types.MethodImpl:
		return types.MethodImplRow{}, true
	case types.ModuleRef:
		return types.ModuleRefRow{}, true
	case types.TypeSpec:
		return types.TypeSpecRow{}, true
	case types.ImplMap:
		return types.ImplMapRow{}, true
	case types.FieldRVA:
		return types.FieldRVARow{}, true
	case types.Assembly:
		return types.AssemblyRow{}, true
	case types.AssemblyRef:
		return types.AssemblyRefRow{}, true
	case types.File:
		return types.FileRow{}, true
	case types.ExportedType:
		return types.ExportedTypeRow{}, true
	case types.ManifestResource:
		return types.ManifestResourceRow{}, true
	case types.NestedClass:
		return types.NestedClassRow{}, true
	case types.GenericParam:
		return types.GenericParamRow{}, true
	case types.MethodSpec:
		return types.MethodSpecRow{}, true
	case types.GenericParamConstraint:
		return types.GenericParamConstraintRow{}, true
	default:
		return nil, false
	}
}
