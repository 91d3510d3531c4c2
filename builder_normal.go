package clrmeta

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/pkg/heaps"
	"github.com/appsworld/clrmeta/pkg/sigwriter"
	"github.com/appsworld/clrmeta/types"
)

// pendingCustomAttribute defers a CustomAttribute row until its host's
// coded HasCustomAttribute parent token is already known (it always is,
// by the time the host row itself was created) but before the final
// sort pass, matching spec.md §4.6 step 8.
type pendingCustomAttribute struct {
	parent uint32 // coded HasCustomAttribute
	attr   *graph.CustomAttribute
}

// pendingOverride defers MethodImpl emission to the second pass
// (spec.md §4.6 step 6) since a declaration may live on a type later in
// declaration order than its override.
type pendingOverride struct {
	body        *graph.Method
	declaration graph.MethodDefOrRef
}

type pendingSemantics struct {
	semantics types.MethodSemanticsAttributes
	method    *graph.Method
	assocCoded uint32
}

type pendingNested struct {
	nested    *graph.TypeDef
	enclosing *graph.TypeDef
}

// NormalBuilder implements spec.md §4.6: the canonical from-scratch walk
// that mirrors the emission order a mainstream compiler's metadata
// emitter uses. Grounded on the teacher's FileTOC.AddLoad/AddSegment/
// AddSection sequencing in file.go, generalized from "segments then
// their sections" to "types then their members".
type NormalBuilder struct {
	tables *TablesStore
	strs   *heaps.StringHeap
	us     *heaps.UserStringHeap
	guids  *heaps.GuidHeap
	blobs  *heaps.BlobHeap
	tokens *tokenService

	// External collaborators (spec.md §6): the three byte-chunk stores
	// for field RVA data, method IL bodies, and embedded resources.
	DataSink     graph.ByteSink
	BodySink     graph.ByteSink
	ResourceSink graph.ByteSink

	pendingAttrs     []pendingCustomAttribute
	pendingOverrides []pendingOverride
	pendingSemantics []pendingSemantics
	pendingNested    []pendingNested
}

// NewNormalBuilder wires a builder against freshly created heaps and an
// empty tables store.
func NewNormalBuilder() *NormalBuilder {
	tables := NewTablesStore()
	strs := heaps.NewStringHeap()
	us := heaps.NewUserStringHeap()
	guids := heaps.NewGuidHeap()
	blobs := heaps.NewBlobHeap()
	return &NormalBuilder{
		tables: tables,
		strs:   strs,
		us:     us,
		guids:  guids,
		blobs:  blobs,
		tokens: newTokenService(tables, strs, us, guids, blobs),
	}
}

// Build runs the full nine-step walk of spec.md §4.6 and returns the
// populated tables store. module.Globals must be non-nil.
func (b *NormalBuilder) Build(module *graph.Module) (*TablesStore, error) {
	if err := b.buildRows(module); err != nil {
		return nil, err
	}
	// Step 9.
	b.tables.SortAndRewrite()
	return b.tables, nil
}

// buildRows runs steps 1-8 of spec.md §4.6 without the final sort pass,
// so the preserving builder (builder_preserve.go) can pad RID gaps
// between row emission and sorting.
func (b *NormalBuilder) buildRows(module *graph.Module) error {
	if module.Globals == nil {
		return ErrNoModuleType
	}

	// Step 1.
	sortedTypes := computeSortedTypes(module)

	// Step 2.
	moduleTypeRID := b.tables.Create(types.TypeDefRow{
		Flags:     module.Globals.Flags,
		Name:      b.strs.Add(module.Globals.Name),
		Namespace: b.strs.Add(module.Globals.Namespace),
	})
	b.tokens.typeDefRIDs.insert(module.Globals, moduleTypeRID)
	b.collectAttrs(types.TypeDef, moduleTypeRID, module.Globals.CustomAttributes())

	mvid := module.Mvid
	if mvid == uuid.Nil {
		mvid = uuid.New()
	}
	b.tables.Create(types.ModuleRow{
		Generation: module.Generation,
		Name:       b.strs.Add(module.Name),
		Mvid:       b.guids.Add(mvid),
		EncID:      b.guids.Add(module.EncID),
		EncBaseID:  b.guids.Add(module.EncBaseID),
	})
	b.collectAttrs(types.Module, 1, module.CustomAttributes())

	// Step 3.
	for _, t := range sortedTypes[1:] {
		rid := b.tables.Create(types.TypeDefRow{
			Flags:     t.Flags,
			Name:      b.strs.Add(t.Name),
			Namespace: b.strs.Add(t.Namespace),
		})
		b.tokens.typeDefRIDs.insert(t, rid)
	}

	// Step 4.
	for _, t := range sortedTypes {
		if err := b.emitTypeMembers(t); err != nil {
			return err
		}
	}
	for _, t := range sortedTypes {
		for _, n := range t.NestedTypes {
			b.pendingNested = append(b.pendingNested, pendingNested{nested: n, enclosing: t})
		}
	}

	// Step 5.
	if module.Assembly != nil {
		if err := b.emitAssembly(module.Assembly); err != nil {
			return err
		}
	}

	// Step 6.
	if err := b.emitNestedClasses(); err != nil {
		return err
	}
	if err := b.emitMethodImpls(); err != nil {
		return err
	}
	if err := b.emitMethodSemantics(); err != nil {
		return err
	}

	// Step 7.
	if err := b.emitResources(module); err != nil {
		return err
	}
	for _, f := range module.Files {
		if _, err := b.tokens.ensureFileDef(f); err != nil {
			return err
		}
	}
	for _, e := range module.Exported {
		if _, err := b.tokens.ensureExportedType(e); err != nil {
			return err
		}
	}

	// Step 8.
	for _, pa := range b.pendingAttrs {
		ctorCoded, err := b.tokens.customAttributeType(pa.attr.Constructor)
		if err != nil {
			return err
		}
		b.tables.Create(types.CustomAttributeRow{
			Parent: pa.parent,
			Type:   ctorCoded,
			Value:  b.blobs.Add(pa.attr.Value),
		})
	}

	return nil
}

// Strings exposes the accumulated #Strings content after Build returns.
func (b *NormalBuilder) Strings() []byte { return b.strs.Bytes() }

// UserStrings exposes the accumulated #US content after Build returns.
func (b *NormalBuilder) UserStrings() []byte { return b.us.Bytes() }

// Guids exposes the accumulated #Guid content after Build returns.
func (b *NormalBuilder) Guids() []byte { return b.guids.Bytes() }

// Blobs exposes the accumulated #Blob content after Build returns.
func (b *NormalBuilder) Blobs() []byte { return b.blobs.Bytes() }

// Token resolves obj to a plain metadata token (or a 0x70-tagged
// user-string token for a string argument), per spec.md §4.6.2's
// get_token. It is the entry point external collaborators (an IL-body
// assembler, a custom-attribute blob encoder) use to mint references
// into entities this builder has already emitted rows for — the one
// caller of tokenService.GetToken the in-tree signature grammar itself
// has no node for, since ECMA-335's TypeSig productions never carry a
// raw token or #US reference.
func (b *NormalBuilder) Token(obj any) (uint32, error) {
	return b.tokens.GetToken(obj)
}

func computeSortedTypes(module *graph.Module) []*graph.TypeDef {
	out := []*graph.TypeDef{module.Globals}
	for _, t := range module.Types {
		out = append(out, t)
		out = appendNestedDFS(out, t)
	}
	return out
}

func appendNestedDFS(out []*graph.TypeDef, t *graph.TypeDef) []*graph.TypeDef {
	for _, n := range t.NestedTypes {
		out = append(out, n)
		out = appendNestedDFS(out, n)
	}
	return out
}

func (b *NormalBuilder) collectAttrs(table types.TableID, rid uint32, attrs []*graph.CustomAttribute) {
	if len(attrs) == 0 {
		return
	}
	coded, err := types.Encode(types.HasCustomAttribute, table, rid)
	if err != nil {
		Logger().Warn("entity cannot host custom attributes", zap.String("table", table.String()))
		return
	}
	for _, a := range attrs {
		b.pendingAttrs = append(b.pendingAttrs, pendingCustomAttribute{parent: coded, attr: a})
	}
}

// emitTypeMembers implements spec.md §4.6 step 4 a-f for one type.
func (b *NormalBuilder) emitTypeMembers(t *graph.TypeDef) error {
	rid, ok := b.tokens.typeDefRIDs.tryGet(t)
	if !ok {
		return fmt.Errorf("clrmeta: TypeDef %q missing its RID assignment from steps 2-3", t.Name)
	}

	// 4a.
	var extendsCoded uint32
	if t.Extends != nil {
		coded, err := b.tokens.EncodeTypeDefOrRef(t.Extends)
		if err != nil {
			return err
		}
		extendsCoded = coded
	}
	fieldListStart := uint32(b.tables.RowCount(types.Field)) + 1
	methodListStart := uint32(b.tables.RowCount(types.MethodDef)) + 1
	b.tables.set(types.TypeDef, rid, types.TypeDefRow{
		Flags:      t.Flags,
		Name:       mustExistingStringOffset(b, t.Name),
		Namespace:  mustExistingStringOffset(b, t.Namespace),
		Extends:    extendsCoded,
		FieldList:  fieldListStart,
		MethodList: methodListStart,
	})

	// 4b.
	for _, f := range t.Fields {
		if err := b.emitField(f); err != nil {
			return err
		}
	}

	// 4c.
	for _, m := range t.Methods {
		if err := b.emitMethod(m); err != nil {
			return err
		}
	}

	// 4d.
	for _, gp := range t.GenericParams {
		if err := b.emitGenericParam(gp, types.TypeOrMethodDef, types.TypeDef, rid); err != nil {
			return err
		}
	}

	// 4e.
	for _, iface := range t.Interfaces {
		ifaceCoded, err := b.tokens.EncodeTypeDefOrRef(iface)
		if err != nil {
			return err
		}
		b.tables.Create(types.InterfaceImplRow{Class: rid, Interface: ifaceCoded})
	}
	if t.Layout != nil {
		b.tables.Create(types.ClassLayoutRow{PackingSize: t.Layout.PackingSize, ClassSize: t.Layout.ClassSize, Parent: rid})
	}
	for _, sec := range t.Security {
		if err := b.emitSecurity(types.HasDeclSecurity, types.TypeDef, rid, sec); err != nil {
			return err
		}
	}

	// 4f.
	if len(t.Events) > 0 {
		eventListStart := uint32(b.tables.RowCount(types.Event)) + 1
		b.tables.Create(types.EventMapRow{Parent: rid, EventList: eventListStart})
		for _, ev := range t.Events {
			if err := b.emitEvent(ev); err != nil {
				return err
			}
		}
	}
	if len(t.Properties) > 0 {
		propListStart := uint32(b.tables.RowCount(types.Property)) + 1
		b.tables.Create(types.PropertyMapRow{Parent: rid, PropertyList: propListStart})
		for _, p := range t.Properties {
			if err := b.emitProperty(p); err != nil {
				return err
			}
		}
	}

	b.collectAttrs(types.TypeDef, rid, t.CustomAttributes())
	return nil
}

// mustExistingStringOffset re-adds s to #Strings; the heap dedups so
// this returns the same offset recorded in steps 2-3 without needing a
// name-offset side table.
func mustExistingStringOffset(b *NormalBuilder, s string) uint32 {
	return b.strs.Add(s)
}

func (b *NormalBuilder) emitField(f *graph.Field) error {
	sig, err := sigwriter.EncodeFieldSig(b.tokens, f.Signature)
	if err != nil {
		return fmt.Errorf("clrmeta: encode field %q signature: %w", f.Name, err)
	}
	rid := b.tables.Create(types.FieldRow{
		Flags:     f.Flags,
		Name:      b.strs.Add(f.Name),
		Signature: b.blobs.Add(sig),
	})
	if f.Layout != nil {
		b.tables.Create(types.FieldLayoutRow{Offset: f.Layout.Offset, Field: rid})
	}
	if f.Marshal != nil {
		coded, err := types.Encode(types.HasFieldMarshal, types.Field, rid)
		if err != nil {
			return err
		}
		b.tables.Create(types.FieldMarshalRow{Parent: coded, NativeType: b.blobs.Add(f.Marshal.NativeType)})
	}
	if f.RVAData != nil {
		rva := uint32(0)
		if b.DataSink != nil {
			rva = b.DataSink.Append(f.RVAData)
		}
		b.tables.Create(types.FieldRVARow{RVA: rva, Field: rid})
	}
	if f.ImplMap != nil {
		if err := b.emitImplMap(types.MemberForwarded, types.Field, rid, f.ImplMap); err != nil {
			return err
		}
	}
	if f.Constant != nil {
		coded, err := types.Encode(types.HasConstant, types.Field, rid)
		if err != nil {
			return err
		}
		b.tables.Create(types.ConstantRow{Type: f.Constant.Type, Parent: coded, Value: b.blobs.Add(encodeConstantValue(f.Constant))})
	}
	b.collectAttrs(types.Field, rid, f.CustomAttributes())
	return nil
}

func (b *NormalBuilder) emitImplMap(kind types.CodedTokenKind, table types.TableID, rid uint32, im *graph.ImplMap) error {
	coded, err := types.Encode(kind, table, rid)
	if err != nil {
		return err
	}
	scope, err := b.tokens.ensureModuleRef(im.ImportScope)
	if err != nil {
		return err
	}
	b.tables.Create(types.ImplMapRow{
		MappingFlags:    im.MappingFlags,
		MemberForwarded: coded,
		ImportName:      b.strs.Add(im.ImportName),
		ImportScope:     scope,
	})
	return nil
}

func (b *NormalBuilder) emitSecurity(kind types.CodedTokenKind, table types.TableID, rid uint32, sec *graph.SecurityDecl) error {
	coded, err := types.Encode(kind, table, rid)
	if err != nil {
		return err
	}
	b.tables.Create(types.DeclSecurityRow{Action: sec.Action, Parent: coded, PermissionSet: b.blobs.Add(sec.PermissionSet)})
	return nil
}

func (b *NormalBuilder) emitMethod(m *graph.Method) error {
	if m.Signature == nil {
		return fmt.Errorf("clrmeta: Method %q has no signature", m.Name)
	}
	sig, err := sigwriter.EncodeMethodSig(b.tokens, m.Signature)
	if err != nil {
		return fmt.Errorf("clrmeta: encode method %q signature: %w", m.Name, err)
	}
	paramListStart := uint32(b.tables.RowCount(types.Param)) + 1
	rid := b.tables.Create(types.MethodDefRow{
		ImplFlags: m.ImplFlags,
		Flags:     m.Flags,
		Name:      b.strs.Add(m.Name),
		Signature: b.blobs.Add(sig),
		ParamList: paramListStart,
	})
	b.tokens.methodRIDs.set(m, rid)

	if m.Body != nil && b.BodySink != nil {
		rva := b.BodySink.Append(m.Body)
		row := b.tables.Row(types.MethodDef, rid).(types.MethodDefRow)
		row.RVA = rva
		b.tables.set(types.MethodDef, rid, row)
	}

	for _, p := range m.Params {
		if err := b.emitParam(p); err != nil {
			return err
		}
	}
	for _, gp := range m.GenericParams {
		if err := b.emitGenericParam(gp, types.TypeOrMethodDef, types.MethodDef, rid); err != nil {
			return err
		}
	}
	for _, sec := range m.Security {
		if err := b.emitSecurity(types.HasDeclSecurity, types.MethodDef, rid, sec); err != nil {
			return err
		}
	}
	if m.ImplMap != nil {
		if err := b.emitImplMap(types.MemberForwarded, types.MethodDef, rid, m.ImplMap); err != nil {
			return err
		}
	}
	for _, ov := range m.Overrides {
		b.pendingOverrides = append(b.pendingOverrides, pendingOverride{body: m, declaration: ov.Declaration})
	}
	b.collectAttrs(types.MethodDef, rid, m.CustomAttributes())
	return nil
}

func (b *NormalBuilder) emitParam(p *graph.Param) error {
	rid := b.tables.Create(types.ParamRow{Flags: p.Flags, Sequence: p.Sequence, Name: b.strs.Add(p.Name)})
	if p.Constant != nil {
		coded, err := types.Encode(types.HasConstant, types.Param, rid)
		if err != nil {
			return err
		}
		b.tables.Create(types.ConstantRow{Type: p.Constant.Type, Parent: coded, Value: b.blobs.Add(encodeConstantValue(p.Constant))})
	}
	if p.Marshal != nil {
		coded, err := types.Encode(types.HasFieldMarshal, types.Param, rid)
		if err != nil {
			return err
		}
		b.tables.Create(types.FieldMarshalRow{Parent: coded, NativeType: b.blobs.Add(p.Marshal.NativeType)})
	}
	b.collectAttrs(types.Param, rid, p.CustomAttributes())
	return nil
}

func (b *NormalBuilder) emitGenericParam(gp *graph.GenericParam, kind types.CodedTokenKind, ownerTable types.TableID, ownerRID uint32) error {
	owner, err := types.Encode(kind, ownerTable, ownerRID)
	if err != nil {
		return err
	}
	rid := b.tables.Create(types.GenericParamRow{Number: gp.Number, Flags: gp.Flags, Owner: owner, Name: b.strs.Add(gp.Name)})
	for _, c := range gp.Constraints {
		coded, err := b.tokens.EncodeTypeDefOrRef(c.Constraint)
		if err != nil {
			return err
		}
		b.tables.Create(types.GenericParamConstraintRow{Owner: rid, Constraint: coded})
	}
	return nil
}

func (b *NormalBuilder) emitEvent(ev *graph.Event) error {
	typeCoded, err := b.tokens.EncodeTypeDefOrRef(ev.EventType)
	if err != nil {
		return err
	}
	rid := b.tables.Create(types.EventRow{Flags: ev.Flags, Name: b.strs.Add(ev.Name), EventType: typeCoded})
	assoc, err := types.Encode(types.HasSemantics, types.Event, rid)
	if err != nil {
		return err
	}
	b.queueSemantics(types.SemanticsAddOn, ev.AddOn, assoc)
	b.queueSemantics(types.SemanticsRemoveOn, ev.RemoveOn, assoc)
	b.queueSemantics(types.SemanticsFire, ev.Fire, assoc)
	for _, other := range ev.Other {
		b.queueSemantics(types.SemanticsOther, other, assoc)
	}
	b.collectAttrs(types.Event, rid, ev.CustomAttributes())
	return nil
}

func (b *NormalBuilder) emitProperty(p *graph.Property) error {
	if p.Signature == nil {
		return fmt.Errorf("clrmeta: Property %q has no signature", p.Name)
	}
	sig, err := sigwriter.EncodePropertySig(b.tokens, p.Signature)
	if err != nil {
		return fmt.Errorf("clrmeta: encode property %q signature: %w", p.Name, err)
	}
	rid := b.tables.Create(types.PropertyRow{Flags: p.Flags, Name: b.strs.Add(p.Name), Signature: b.blobs.Add(sig)})
	assoc, err := types.Encode(types.HasSemantics, types.Property, rid)
	if err != nil {
		return err
	}
	b.queueSemantics(types.SemanticsGetter, p.Getter, assoc)
	b.queueSemantics(types.SemanticsSetter, p.Setter, assoc)
	for _, other := range p.Other {
		b.queueSemantics(types.SemanticsOther, other, assoc)
	}
	if p.Constant != nil {
		coded, err := types.Encode(types.HasConstant, types.Property, rid)
		if err != nil {
			return err
		}
		b.tables.Create(types.ConstantRow{Type: p.Constant.Type, Parent: coded, Value: b.blobs.Add(encodeConstantValue(p.Constant))})
	}
	b.collectAttrs(types.Property, rid, p.CustomAttributes())
	return nil
}

func (b *NormalBuilder) queueSemantics(sem types.MethodSemanticsAttributes, m *graph.Method, assocCoded uint32) {
	if m == nil {
		return
	}
	b.pendingSemantics = append(b.pendingSemantics, pendingSemantics{semantics: sem, method: m, assocCoded: assocCoded})
}

func (b *NormalBuilder) emitAssembly(a *graph.Assembly) error {
	rid := b.tables.Create(types.AssemblyRow{
		HashAlgID:      a.HashAlgID,
		MajorVersion:   a.MajorVersion,
		MinorVersion:   a.MinorVersion,
		BuildNumber:    a.BuildNumber,
		RevisionNumber: a.RevisionNumber,
		Flags:          a.Flags,
		PublicKey:      b.blobs.Add(a.PublicKey),
		Name:           b.strs.Add(a.Name),
		Culture:        b.strs.Add(a.Culture),
	})
	for _, sec := range a.Security {
		if err := b.emitSecurity(types.HasDeclSecurity, types.Assembly, rid, sec); err != nil {
			return err
		}
	}
	b.collectAttrs(types.Assembly, rid, a.CustomAttributes())
	return nil
}

func (b *NormalBuilder) emitNestedClasses() error {
	for _, pn := range b.pendingNested {
		nestedRID, ok := b.tokens.typeDefRIDs.tryGet(pn.nested)
		if !ok {
			continue
		}
		enclosingRID, ok := b.tokens.typeDefRIDs.tryGet(pn.enclosing)
		if !ok {
			continue
		}
		b.tables.Create(types.NestedClassRow{NestedClass: nestedRID, EnclosingClass: enclosingRID})
	}
	return nil
}

func (b *NormalBuilder) emitMethodImpls() error {
	for _, po := range b.pendingOverrides {
		if _, ok := b.tokens.methodRIDs.tryGet(po.body); !ok {
			continue
		}
		bodyCoded, err := b.tokens.methodDefOrRef(po.body)
		if err != nil {
			return err
		}
		declCoded, err := b.tokens.methodDefOrRef(po.declaration)
		if err != nil {
			return err
		}
		owner, err := b.methodOwnerTypeRID(po.body)
		if err != nil {
			return err
		}
		b.tables.Create(types.MethodImplRow{Class: owner, MethodBody: bodyCoded, MethodDeclaration: declCoded})
	}
	return nil
}

// methodOwnerTypeRID is a small linear scan over already-emitted TypeDef
// rows' method ranges; acceptable here since MethodImpl emission is a
// second pass that runs once per module, not per member.
func (b *NormalBuilder) methodOwnerTypeRID(m *graph.Method) (uint32, error) {
	methodRID, ok := b.tokens.methodRIDs.tryGet(m)
	if !ok {
		return 0, fmt.Errorf("clrmeta: Method %q has no assigned RID", m.Name)
	}
	rows := b.tables.Rows(types.TypeDef)
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i].(types.TypeDefRow)
		if row.MethodList != 0 && methodRID >= row.MethodList {
			return uint32(i + 1), nil
		}
	}
	return 0, fmt.Errorf("clrmeta: no TypeDef owns MethodDef rid %d", methodRID)
}

func (b *NormalBuilder) emitMethodSemantics() error {
	for _, ps := range b.pendingSemantics {
		methodRID, ok := b.tokens.methodRIDs.tryGet(ps.method)
		if !ok {
			continue
		}
		b.tables.Create(types.MethodSemanticsRow{Semantics: uint16(ps.semantics), Method: methodRID, Assoc: ps.assocCoded})
	}
	return nil
}

func (b *NormalBuilder) emitResources(module *graph.Module) error {
	for _, r := range module.Resources {
		switch res := r.(type) {
		case *graph.EmbeddedResource:
			offset := uint32(0)
			if b.ResourceSink != nil {
				offset = b.ResourceSink.Append(res.Data)
			}
			b.tables.Create(types.ManifestResourceRow{Offset: offset, Flags: res.Flags, Name: b.strs.Add(res.Name)})
		case *graph.AssemblyLinkedResource:
			impl, err := b.tokens.implementation(res.Assembly)
			if err != nil {
				return err
			}
			b.tables.Create(types.ManifestResourceRow{Flags: res.Flags, Name: b.strs.Add(res.Name), Implementation: impl})
		case *graph.FileLinkedResource:
			impl, err := b.tokens.implementation(res.File)
			if err != nil {
				return err
			}
			b.tables.Create(types.ManifestResourceRow{Flags: res.Flags, Name: b.strs.Add(res.Name), Implementation: impl})
		default:
			Logger().Warn("unknown resource subtype, skipped")
		}
	}
	return nil
}
