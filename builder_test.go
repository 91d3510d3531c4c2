package clrmeta

import (
	"testing"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

type fakeSink struct{ data []byte }

func (s *fakeSink) Append(b []byte) uint32 {
	off := uint32(len(s.data))
	s.data = append(s.data, b...)
	return off
}

func emptyModule() *graph.Module {
	return &graph.Module{
		Name:    "Empty.dll",
		Globals: &graph.TypeDef{Name: "<Module>"},
	}
}

// S1: an empty assembly with only <Module>.
func TestNormalBuilderEmptyModule(t *testing.T) {
	b := NewNormalBuilder()
	tables, err := b.Build(emptyModule())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := tables.RowCount(types.TypeDef); n != 1 {
		t.Fatalf("TypeDef rows = %d, want 1", n)
	}
	row := tables.Row(types.TypeDef, 1).(types.TypeDefRow)
	if row.Flags != 0 || row.Namespace != 0 {
		t.Fatalf("<Module> TypeDef row = %+v, want Flags 0 and empty Namespace", row)
	}
	strs := b.Strings()
	if end := int(row.Name) + len("<Module>"); row.Name == 0 || end > len(strs) || string(strs[row.Name:end]) != "<Module>" {
		t.Fatalf("<Module> TypeDef Name offset %d does not point at \"<Module>\" in #Strings", row.Name)
	}
	if n := tables.RowCount(types.Module); n != 1 {
		t.Fatalf("Module rows = %d, want 1", n)
	}
}

func TestNoModuleTypeIsFatal(t *testing.T) {
	_, err := NewNormalBuilder().Build(&graph.Module{Name: "Bad.dll"})
	if err != ErrNoModuleType {
		t.Fatalf("Build with no Globals: err = %v, want ErrNoModuleType", err)
	}
}

// S2: a single class with one field.
func TestFieldListAndSignature(t *testing.T) {
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{
			Namespace: "N",
			Name:      "C",
			Fields:    []*graph.Field{{Name: "x", Signature: graph.Primitive{Elem: types.ElementTypeI4}}},
		},
	}

	b := NewNormalBuilder()
	tables, err := b.Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	typeRow := tables.Row(types.TypeDef, 2).(types.TypeDefRow)
	if typeRow.FieldList != 1 {
		t.Fatalf("TypeDef[2].FieldList = %d, want 1", typeRow.FieldList)
	}
	fieldRow := tables.Row(types.Field, 1).(types.FieldRow)
	blobs := b.Blobs()
	off := int(fieldRow.Signature) // blob entries are length-prefixed; the length byte comes first
	if off+3 > len(blobs) || blobs[off] != 0x02 || blobs[off+1] != 0x06 || blobs[off+2] != byte(types.ElementTypeI4) {
		t.Fatalf("field signature blob at offset %d = %v, want length-prefixed 0x02 0x06 0x08", off, blobs[off:])
	}
}

// S3: a type implementing two interfaces, sorted by coded Interface value.
func TestInterfaceImplSortedByInterface(t *testing.T) {
	iface1 := &graph.TypeRef{Namespace: "N", Name: "J"}
	iface2 := &graph.TypeRef{Namespace: "N", Name: "I"}
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{
			Namespace:  "N",
			Name:       "C",
			Interfaces: []graph.TypeDefOrRef{iface1, iface2},
		},
	}
	tables, err := NewNormalBuilder().Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := tables.RowCount(types.InterfaceImpl); n != 2 {
		t.Fatalf("InterfaceImpl rows = %d, want 2", n)
	}
	a := tables.Row(types.InterfaceImpl, 1).(types.InterfaceImplRow)
	b := tables.Row(types.InterfaceImpl, 2).(types.InterfaceImplRow)
	if a.Class != b.Class {
		t.Fatalf("InterfaceImpl rows have different Class values: %d vs %d", a.Class, b.Class)
	}
	if a.Interface >= b.Interface {
		t.Fatalf("InterfaceImpl rows not sorted ascending by Interface: %d, %d", a.Interface, b.Interface)
	}
}

// S4: a property with a getter and setter produces two MethodSemantics rows.
func TestPropertyGetterSetterSemantics(t *testing.T) {
	voidSig := &graph.MethodSig{RetType: graph.Primitive{Elem: types.ElementTypeVoid}}
	getter := &graph.Method{Name: "get_P", Signature: voidSig}
	setter := &graph.Method{Name: "set_P", Signature: voidSig}
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{
			Namespace: "N",
			Name:      "C",
			Methods:   []*graph.Method{getter, setter},
			Properties: []*graph.Property{{
				Name: "P", Getter: getter, Setter: setter,
				Signature: &graph.PropertySig{Type: graph.Primitive{Elem: types.ElementTypeI4}},
			}},
		},
	}
	tables, err := NewNormalBuilder().Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := tables.RowCount(types.MethodSemantics); n != 2 {
		t.Fatalf("MethodSemantics rows = %d, want 2", n)
	}
	var sawGetter, sawSetter bool
	for _, r := range tables.Rows(types.MethodSemantics) {
		row := r.(types.MethodSemanticsRow)
		switch types.MethodSemanticsAttributes(row.Semantics) {
		case types.SemanticsGetter:
			sawGetter = true
		case types.SemanticsSetter:
			sawSetter = true
		}
	}
	if !sawGetter || !sawSetter {
		t.Fatalf("MethodSemantics rows missing getter/setter: sawGetter=%v sawSetter=%v", sawGetter, sawSetter)
	}
}

// S5: the same TypeRef entity referenced from two sites dedups to one row;
// identity is reference identity, not structural equality (spec.md's
// invariant 7 assumes the input graph already collapsed structural dupes).
func TestTypeRefDedup(t *testing.T) {
	shared := &graph.TypeRef{Namespace: "System", Name: "Object"}
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{Namespace: "N", Name: "A", Extends: shared},
		{Namespace: "N", Name: "B", Extends: shared},
	}
	builder := NewNormalBuilder()
	if _, err := builder.Build(module); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := builder.tables.RowCount(types.TypeRef); n != 1 {
		t.Fatalf("TypeRef rows = %d, want 1 (same entity referenced twice)", n)
	}
}

// S6: an embedded resource records the ResourceSink's append offset.
func TestEmbeddedResourceOffset(t *testing.T) {
	sink := &fakeSink{}
	builder := NewNormalBuilder()
	builder.ResourceSink = sink
	module := emptyModule()
	module.Resources = []graph.Resource{
		&graph.EmbeddedResource{Name: "icon.ico", Data: []byte{1, 2, 3}},
	}
	tables, err := builder.Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	row := tables.Row(types.ManifestResource, 1).(types.ManifestResourceRow)
	if row.Offset != 0 {
		t.Fatalf("first resource Offset = %d, want 0", row.Offset)
	}
	if row.Implementation != 0 {
		t.Fatalf("embedded resource Implementation = %d, want 0", row.Implementation)
	}
}

// S7: a method with three parameters gets the contiguous Param RID range.
func TestParamContiguousRange(t *testing.T) {
	m := &graph.Method{
		Name:      "M",
		Signature: &graph.MethodSig{RetType: graph.Primitive{Elem: types.ElementTypeVoid}},
		Params: []*graph.Param{
			{Name: "a", Sequence: 1},
			{Name: "b", Sequence: 2},
			{Name: "c", Sequence: 3},
		},
	}
	module := emptyModule()
	module.Types = []*graph.TypeDef{{Namespace: "N", Name: "C", Methods: []*graph.Method{m}}}
	tables, err := NewNormalBuilder().Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := tables.RowCount(types.Param); n != 3 {
		t.Fatalf("Param rows = %d, want 3", n)
	}
	methodRow := tables.Row(types.MethodDef, 1).(types.MethodDefRow)
	if methodRow.ParamList != 1 {
		t.Fatalf("MethodDef[1].ParamList = %d, want 1", methodRow.ParamList)
	}
}

// S8: two entities with a CustomAttribute sort by (Parent, Type).
func TestCustomAttributeSortOrder(t *testing.T) {
	ctor := &graph.Method{Name: ".ctor", Signature: &graph.MethodSig{HasThis: true, RetType: graph.Primitive{Elem: types.ElementTypeVoid}}}
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{
			Namespace: "N",
			Name:      "B",
			Attributes: []*graph.CustomAttribute{
				{Constructor: ctor, Value: []byte{1}},
			},
		},
		{
			Namespace: "N",
			Name:      "A",
			Attributes: []*graph.CustomAttribute{
				{Constructor: ctor, Value: []byte{2}},
			},
		},
	}
	// Give the constructor's owning type a row so customAttributeType resolves.
	module.Types[0].Methods = []*graph.Method{ctor}

	tables, err := NewNormalBuilder().Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows := tables.Rows(types.CustomAttribute)
	if len(rows) != 2 {
		t.Fatalf("CustomAttribute rows = %d, want 2", len(rows))
	}
	a := rows[0].(types.CustomAttributeRow)
	b := rows[1].(types.CustomAttributeRow)
	if a.Parent > b.Parent {
		t.Fatalf("CustomAttribute rows not sorted ascending by Parent: %d, %d", a.Parent, b.Parent)
	}
	table, rid, err := types.Decode(types.CustomAttributeType, a.Type)
	if err != nil {
		t.Fatalf("decode CustomAttribute.Type as CustomAttributeType: %v", err)
	}
	if table != types.MethodDef || rid != 1 {
		t.Fatalf("CustomAttribute.Type decoded to (%v, %d), want (MethodDef, 1)", table, rid)
	}
}

// S9: a gap in a preserved table's RIDs is padded, and new rows land after
// the source's original row count.
func TestPreservingBuilderGapFill(t *testing.T) {
	source := &graph.PreservedTables{
		RowCounts: map[byte]uint32{byte(types.TypeRef): 3},
	}
	newRef := &graph.TypeRef{Namespace: "N", Name: "New"}
	module := emptyModule()
	module.Types = []*graph.TypeDef{
		{Namespace: "N", Name: "C", Extends: newRef},
	}

	builder := NewPreservingBuilder(source)
	tables, err := builder.Build(module)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := tables.RowCount(types.TypeRef); n != 4 {
		t.Fatalf("TypeRef rows = %d, want 4 (3 padded + 1 new)", n)
	}
	newRID, ok := builder.tokens.typeRefRIDs.tryGet(newRef)
	if !ok {
		t.Fatal("new TypeRef has no assigned RID")
	}
	if newRID != 4 {
		t.Fatalf("new TypeRef RID = %d, want 4 (after the 3 preserved RIDs)", newRID)
	}
}

// Orchestrator selects the preserving builder only when a preservation bit is set.
func TestOrchestratorSelectsBuilder(t *testing.T) {
	orch := NewOrchestrator(BuildOptions{}, nil)
	if _, err := orch.Build(emptyModule()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := orch.built.(*NormalBuilder); !ok {
		t.Fatalf("built = %T, want *NormalBuilder", orch.built)
	}

	orch2 := NewOrchestrator(BuildOptions{PreserveTokens: true}, &graph.PreservedTables{})
	if _, err := orch2.Build(emptyModule()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := orch2.built.(*PreservingBuilder); !ok {
		t.Fatalf("built = %T, want *PreservingBuilder", orch2.built)
	}
}

// Token resolves an already-emitted entity to its plain metadata token,
// and a string to a 0x70-tagged #US token.
func TestBuilderToken(t *testing.T) {
	method := &graph.Method{Name: "Run", Signature: &graph.MethodSig{RetType: graph.Primitive{Elem: types.ElementTypeVoid}}}
	module := emptyModule()
	module.Types = []*graph.TypeDef{{Namespace: "N", Name: "C", Methods: []*graph.Method{method}}}

	b := NewNormalBuilder()
	if _, err := b.Build(module); err != nil {
		t.Fatalf("Build: %v", err)
	}

	methodTok, err := b.Token(method)
	if err != nil {
		t.Fatalf("Token(method): %v", err)
	}
	if table := methodTok >> 24; table != uint32(types.MethodDef) {
		t.Fatalf("Token(method) table = %#x, want MethodDef", table)
	}
	if rid := methodTok & 0x00FFFFFF; rid != 1 {
		t.Fatalf("Token(method) rid = %d, want 1", rid)
	}

	strTok, err := b.Token("hello")
	if err != nil {
		t.Fatalf("Token(string): %v", err)
	}
	if tag := strTok >> 24; tag != 0x70 {
		t.Fatalf("Token(string) tag = %#x, want 0x70", tag)
	}
}
