package clrmeta

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/pkg/heaps"
	"github.com/appsworld/clrmeta/pkg/sigwriter"
	"github.com/appsworld/clrmeta/types"
)

// tokenService is the builder's bridge to the signature writer
// (spec.md §4.6.2): it materializes reference-table rows on first
// mention and hands back coded tokens, so a signature blob can be
// produced before its referenced TypeRef/TypeSpec rows technically
// "exist" yet in the caller's mind.
type tokenService struct {
	tables *TablesStore
	strs   *heaps.StringHeap
	us     *heaps.UserStringHeap
	guids  *heaps.GuidHeap
	blobs  *heaps.BlobHeap

	typeDefRIDs   *ridRegistry[*graph.TypeDef]
	typeRefRIDs   *ridRegistry[*graph.TypeRef]
	typeSpecRIDs  *ridRegistry[*graph.TypeSpec]
	moduleRefRIDs *ridRegistry[*graph.ModuleRef]
	asmRefRIDs    *ridRegistry[*graph.AssemblyRef]
	methodRIDs    *ridRegistry[*graph.Method]
	memberRefRIDs *ridRegistry[*graph.MemberRef]
	fileRIDs      *ridRegistry[*graph.FileDef]
	exportedRIDs  *ridRegistry[*graph.ExportedType]
}

func newTokenService(tables *TablesStore, strs *heaps.StringHeap, us *heaps.UserStringHeap, guids *heaps.GuidHeap, blobs *heaps.BlobHeap) *tokenService {
	return &tokenService{
		tables:        tables,
		strs:          strs,
		us:            us,
		guids:         guids,
		blobs:         blobs,
		typeDefRIDs:   newRIDRegistry[*graph.TypeDef](),
		typeRefRIDs:   newRIDRegistry[*graph.TypeRef](),
		typeSpecRIDs:  newRIDRegistry[*graph.TypeSpec](),
		moduleRefRIDs: newRIDRegistry[*graph.ModuleRef](),
		asmRefRIDs:    newRIDRegistry[*graph.AssemblyRef](),
		methodRIDs:    newRIDRegistry[*graph.Method](),
		memberRefRIDs: newRIDRegistry[*graph.MemberRef](),
		fileRIDs:      newRIDRegistry[*graph.FileDef](),
		exportedRIDs:  newRIDRegistry[*graph.ExportedType](),
	}
}

// EncodeTypeDefOrRef implements pkg/sigwriter.TokenService.
func (ts *tokenService) EncodeTypeDefOrRef(entity graph.TypeDefOrRef) (uint32, error) {
	switch e := entity.(type) {
	case *graph.TypeDef:
		rid, ok := ts.typeDefRIDs.tryGet(e)
		if !ok {
			return 0, fmt.Errorf("clrmeta: TypeDef %q referenced before its row was emitted", e.Name)
		}
		return types.Encode(types.TypeDefOrRef, types.TypeDef, rid)
	case *graph.TypeRef:
		rid, err := ts.ensureTypeRef(e)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.TypeDefOrRef, types.TypeRef, rid)
	case *graph.TypeSpec:
		rid, err := ts.ensureTypeSpec(e)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.TypeDefOrRef, types.TypeSpec, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not a TypeDefOrRef", ErrCodedTokenTable, entity)
	}
}

// GetToken implements spec.md §4.6.2's get_token: an entity resolves to
// its plain (table<<24 | rid) token, a string is inserted into #US and
// returns the 0x70-tagged user-string token, and anything else is a
// warning-logged sentinel (spec.md §7).
func (ts *tokenService) GetToken(obj any) (uint32, error) {
	switch v := obj.(type) {
	case string:
		return (uint32(0x70) << 24) | ts.us.Add(v), nil
	case *graph.TypeDef:
		rid, ok := ts.typeDefRIDs.tryGet(v)
		if !ok {
			return 0, fmt.Errorf("clrmeta: TypeDef %q referenced before its row was emitted", v.Name)
		}
		return (uint32(types.TypeDef) << 24) | rid, nil
	case *graph.TypeRef:
		rid, err := ts.ensureTypeRef(v)
		if err != nil {
			return 0, err
		}
		return (uint32(types.TypeRef) << 24) | rid, nil
	case *graph.Method:
		rid, ok := ts.methodRIDs.tryGet(v)
		if !ok {
			return 0, fmt.Errorf("clrmeta: Method %q referenced before its row was emitted", v.Name)
		}
		return (uint32(types.MethodDef) << 24) | rid, nil
	case *graph.MemberRef:
		rid, err := ts.ensureMemberRef(v)
		if err != nil {
			return 0, err
		}
		return (uint32(types.MemberRef) << 24) | rid, nil
	default:
		Logger().Warn("token requested for unsupported object kind", zap.String("type", fmt.Sprintf("%T", obj)))
		return types.UnsupportedToken, nil
	}
}

func (ts *tokenService) ensureTypeRef(r *graph.TypeRef) (uint32, error) {
	if rid, ok := ts.typeRefRIDs.tryGet(r); ok {
		return rid, nil
	}
	ts.typeRefRIDs.insert(r, 0) // tentative RID 0 breaks scope/TypeRef cycles (spec.md §9)

	scope, err := ts.resolutionScope(r.ResolutionScope)
	if err != nil {
		return 0, err
	}
	row := types.TypeRefRow{
		ResolutionScope: scope,
		Name:            ts.strs.Add(r.Name),
		Namespace:       ts.strs.Add(r.Namespace),
	}
	rid := ts.tables.Add(row)
	ts.typeRefRIDs.set(r, rid)
	return rid, nil
}

func (ts *tokenService) ensureTypeSpec(t *graph.TypeSpec) (uint32, error) {
	if rid, ok := ts.typeSpecRIDs.tryGet(t); ok {
		return rid, nil
	}
	sig, err := sigwriter.EncodeTypeSig(ts, t.Signature)
	if err != nil {
		return 0, fmt.Errorf("clrmeta: encode TypeSpec signature: %w", err)
	}
	row := types.TypeSpecRow{Signature: ts.blobs.Add(sig)}
	rid := ts.tables.Add(row)
	ts.typeSpecRIDs.set(t, rid)
	return rid, nil
}

func (ts *tokenService) ensureModuleRef(m *graph.ModuleRef) (uint32, error) {
	if rid, ok := ts.moduleRefRIDs.tryGet(m); ok {
		return rid, nil
	}
	row := types.ModuleRefRow{Name: ts.strs.Add(m.Name)}
	rid := ts.tables.Add(row)
	ts.moduleRefRIDs.set(m, rid)
	return rid, nil
}

func (ts *tokenService) ensureAssemblyRef(a *graph.AssemblyRef) (uint32, error) {
	if rid, ok := ts.asmRefRIDs.tryGet(a); ok {
		return rid, nil
	}
	row := types.AssemblyRefRow{
		MajorVersion:      a.MajorVersion,
		MinorVersion:      a.MinorVersion,
		BuildNumber:       a.BuildNumber,
		RevisionNumber:    a.RevisionNumber,
		Flags:             a.Flags,
		PublicKeyOrToken:  ts.blobs.Add(a.PublicKeyOrToken),
		Name:              ts.strs.Add(a.Name),
		Culture:           ts.strs.Add(a.Culture),
		HashValue:         ts.blobs.Add(a.HashValue),
	}
	rid := ts.tables.Add(row)
	ts.asmRefRIDs.set(a, rid)
	return rid, nil
}

func (ts *tokenService) ensureMemberRef(m *graph.MemberRef) (uint32, error) {
	if rid, ok := ts.memberRefRIDs.tryGet(m); ok {
		return rid, nil
	}
	ts.memberRefRIDs.insert(m, 0)
	parent, err := ts.memberRefParent(m.Class)
	if err != nil {
		return 0, err
	}
	sig, err := sigwriter.EncodeMemberRefSig(ts, m.Signature)
	if err != nil {
		return 0, fmt.Errorf("clrmeta: encode MemberRef %q signature: %w", m.Name, err)
	}
	row := types.MemberRefRow{
		Class:     parent,
		Name:      ts.strs.Add(m.Name),
		Signature: ts.blobs.Add(sig),
	}
	rid := ts.tables.Add(row)
	ts.memberRefRIDs.set(m, rid)
	return rid, nil
}

func (ts *tokenService) ensureFileDef(f *graph.FileDef) (uint32, error) {
	if rid, ok := ts.fileRIDs.tryGet(f); ok {
		return rid, nil
	}
	row := types.FileRow{Flags: f.Flags, Name: ts.strs.Add(f.Name), HashValue: ts.blobs.Add(f.HashValue)}
	rid := ts.tables.Add(row)
	ts.fileRIDs.set(f, rid)
	return rid, nil
}

func (ts *tokenService) ensureExportedType(e *graph.ExportedType) (uint32, error) {
	if rid, ok := ts.exportedRIDs.tryGet(e); ok {
		return rid, nil
	}
	ts.exportedRIDs.insert(e, 0)
	impl, err := ts.implementation(e.Implementation)
	if err != nil {
		return 0, err
	}
	row := types.ExportedTypeRow{
		Flags:          e.Flags,
		TypeDefID:      e.TypeDefID,
		TypeName:       ts.strs.Add(e.TypeName),
		TypeNamespace:  ts.strs.Add(e.TypeNamespace),
		Implementation: impl,
	}
	rid := ts.tables.Add(row)
	ts.exportedRIDs.set(e, rid)
	return rid, nil
}

// resolutionScope encodes scope as a coded ResolutionScope token. A nil
// scope names a type exported directly from this module's assembly and
// is represented by the Module row, whose RID is always 1.
func (ts *tokenService) resolutionScope(scope graph.ResolutionScope) (uint32, error) {
	switch s := scope.(type) {
	case nil:
		return types.Encode(types.ResolutionScope, types.Module, 1)
	case *graph.Module:
		return types.Encode(types.ResolutionScope, types.Module, 1)
	case *graph.ModuleRef:
		rid, err := ts.ensureModuleRef(s)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.ResolutionScope, types.ModuleRef, rid)
	case *graph.AssemblyRef:
		rid, err := ts.ensureAssemblyRef(s)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.ResolutionScope, types.AssemblyRef, rid)
	case *graph.TypeRef:
		rid, err := ts.ensureTypeRef(s)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.ResolutionScope, types.TypeRef, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not a ResolutionScope", ErrCodedTokenTable, scope)
	}
}

func (ts *tokenService) memberRefParent(parent graph.MemberRefParent) (uint32, error) {
	switch p := parent.(type) {
	case *graph.TypeDef:
		rid, ok := ts.typeDefRIDs.tryGet(p)
		if !ok {
			return 0, fmt.Errorf("clrmeta: TypeDef %q referenced before its row was emitted", p.Name)
		}
		return types.Encode(types.MemberRefParent, types.TypeDef, rid)
	case *graph.TypeRef:
		rid, err := ts.ensureTypeRef(p)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.MemberRefParent, types.TypeRef, rid)
	case *graph.ModuleRef:
		rid, err := ts.ensureModuleRef(p)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.MemberRefParent, types.ModuleRef, rid)
	case *graph.Method:
		rid, ok := ts.methodRIDs.tryGet(p)
		if !ok {
			return 0, fmt.Errorf("clrmeta: Method %q referenced before its row was emitted", p.Name)
		}
		return types.Encode(types.MemberRefParent, types.MethodDef, rid)
	case *graph.TypeSpec:
		rid, err := ts.ensureTypeSpec(p)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.MemberRefParent, types.TypeSpec, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not a MemberRefParent", ErrCodedTokenTable, parent)
	}
}

func (ts *tokenService) methodDefOrRef(m graph.MethodDefOrRef) (uint32, error) {
	switch v := m.(type) {
	case *graph.Method:
		rid, ok := ts.methodRIDs.tryGet(v)
		if !ok {
			return 0, fmt.Errorf("clrmeta: Method %q referenced before its row was emitted", v.Name)
		}
		return types.Encode(types.MethodDefOrRef, types.MethodDef, rid)
	case *graph.MemberRef:
		rid, err := ts.ensureMemberRef(v)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.MethodDefOrRef, types.MemberRef, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not a MethodDefOrRef", ErrCodedTokenTable, m)
	}
}

// customAttributeType encodes ctor as a CustomAttributeType coded token
// (tagBits=3, MethodDef/MemberRef only — distinct from MethodDefOrRef's
// tagBits=1 despite sharing the same two member kinds) for use as a
// CustomAttribute row's Type column.
func (ts *tokenService) customAttributeType(ctor graph.MethodDefOrRef) (uint32, error) {
	switch v := ctor.(type) {
	case *graph.Method:
		rid, ok := ts.methodRIDs.tryGet(v)
		if !ok {
			return 0, fmt.Errorf("clrmeta: Method %q referenced before its row was emitted", v.Name)
		}
		return types.Encode(types.CustomAttributeType, types.MethodDef, rid)
	case *graph.MemberRef:
		rid, err := ts.ensureMemberRef(v)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.CustomAttributeType, types.MemberRef, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not a CustomAttributeType constructor", ErrCodedTokenTable, ctor)
	}
}

func (ts *tokenService) implementation(impl graph.Implementation) (uint32, error) {
	switch v := impl.(type) {
	case nil:
		return 0, nil
	case *graph.FileDef:
		rid, err := ts.ensureFileDef(v)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.Implementation, types.File, rid)
	case *graph.AssemblyRef:
		rid, err := ts.ensureAssemblyRef(v)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.Implementation, types.AssemblyRef, rid)
	case *graph.ExportedType:
		rid, err := ts.ensureExportedType(v)
		if err != nil {
			return 0, err
		}
		return types.Encode(types.Implementation, types.ExportedType, rid)
	default:
		return 0, fmt.Errorf("clrmeta: %w: %T is not an Implementation", ErrCodedTokenTable, impl)
	}
}
