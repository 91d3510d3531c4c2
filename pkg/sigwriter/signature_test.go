package sigwriter

import (
	"fmt"
	"testing"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

// fakeTokens assigns every distinct TypeDefOrRef a sequential TypeRef RID
// and encodes it as a TypeDefOrRef coded token, mirroring how the real
// token service would resolve a fresh reference.
type fakeTokens struct {
	rids map[graph.TypeDefOrRef]uint32
	next uint32
}

func newFakeTokens() *fakeTokens { return &fakeTokens{rids: make(map[graph.TypeDefOrRef]uint32)} }

func (f *fakeTokens) EncodeTypeDefOrRef(entity graph.TypeDefOrRef) (uint32, error) {
	rid, ok := f.rids[entity]
	if !ok {
		f.next++
		rid = f.next
		f.rids[entity] = rid
	}
	return types.Encode(types.TypeDefOrRef, types.TypeRef, rid)
}

func (f *fakeTokens) GetToken(obj any) (uint32, error) {
	return 0, fmt.Errorf("fakeTokens: GetToken not used by signature encoding tests")
}

func TestEncodeFieldSigPrimitive(t *testing.T) {
	ts := newFakeTokens()
	blob, err := EncodeFieldSig(ts, graph.Primitive{Elem: types.ElementTypeI4})
	if err != nil {
		t.Fatalf("EncodeFieldSig: %v", err)
	}
	want := []byte{byte(types.SigField), byte(types.ElementTypeI4)}
	if string(blob) != string(want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestEncodeFieldSigClassRef(t *testing.T) {
	ts := newFakeTokens()
	ref := &graph.TypeRef{Name: "Object", Namespace: "System"}
	blob, err := EncodeFieldSig(ts, graph.ClassType{Ref: ref})
	if err != nil {
		t.Fatalf("EncodeFieldSig: %v", err)
	}
	if blob[0] != byte(types.SigField) || blob[1] != byte(types.ElementTypeClass) {
		t.Fatalf("blob header = % x", blob[:2])
	}
	if len(blob) != 3 {
		t.Fatalf("len(blob) = %d, want 3 (header + class tag + 1-byte coded token)", len(blob))
	}
}

func TestEncodeMethodSigStaticNoArgs(t *testing.T) {
	ts := newFakeTokens()
	sig := &graph.MethodSig{RetType: graph.Primitive{Elem: types.ElementTypeVoid}}
	blob, err := EncodeMethodSig(ts, sig)
	if err != nil {
		t.Fatalf("EncodeMethodSig: %v", err)
	}
	want := []byte{byte(types.SigDefault), 0x00, byte(types.ElementTypeVoid)}
	if string(blob) != string(want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestEncodeMethodSigInstanceWithParams(t *testing.T) {
	ts := newFakeTokens()
	sig := &graph.MethodSig{
		HasThis: true,
		RetType: graph.Primitive{Elem: types.ElementTypeI4},
		Params: []graph.SigParam{
			{Type: graph.Primitive{Elem: types.ElementTypeString}},
			{Type: graph.Primitive{Elem: types.ElementTypeBoolean}, ByRef: true},
		},
	}
	blob, err := EncodeMethodSig(ts, sig)
	if err != nil {
		t.Fatalf("EncodeMethodSig: %v", err)
	}
	want := []byte{
		byte(types.SigDefault) | byte(types.SigHasThis),
		0x02,
		byte(types.ElementTypeI4),
		byte(types.ElementTypeString),
		byte(types.ElementTypeByRef), byte(types.ElementTypeBoolean),
	}
	if string(blob) != string(want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestEncodeMethodSigGeneric(t *testing.T) {
	ts := newFakeTokens()
	sig := &graph.MethodSig{
		GenParamCount: 1,
		RetType:       graph.GenericMVar{Number: 0},
	}
	blob, err := EncodeMethodSig(ts, sig)
	if err != nil {
		t.Fatalf("EncodeMethodSig: %v", err)
	}
	wantFlags := byte(types.SigDefault) | byte(types.SigGeneric)
	if blob[0] != wantFlags {
		t.Fatalf("flags = %#x, want %#x", blob[0], wantFlags)
	}
	if blob[1] != 0x01 {
		t.Fatalf("gen param count = %d, want 1", blob[1])
	}
}

func TestEncodeLocalVarSigPinnedByRef(t *testing.T) {
	ts := newFakeTokens()
	sig := &graph.LocalVarSig{Locals: []graph.LocalVar{
		{Type: graph.Primitive{Elem: types.ElementTypeI4}},
		{Type: graph.Primitive{Elem: types.ElementTypeObject}, ByRef: true, Pinned: true},
	}}
	blob, err := EncodeLocalVarSig(ts, sig)
	if err != nil {
		t.Fatalf("EncodeLocalVarSig: %v", err)
	}
	want := []byte{
		byte(types.SigLocalVar), 0x02,
		byte(types.ElementTypeI4),
		byte(types.ElementTypePinned), byte(types.ElementTypeByRef), byte(types.ElementTypeObject),
	}
	if string(blob) != string(want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestEncodeSzArrayAndGenericInst(t *testing.T) {
	ts := newFakeTokens()
	list := &graph.TypeRef{Name: "List`1", Namespace: "System.Collections.Generic"}
	sig := graph.GenericInst{
		Generic: list,
		Args:    []graph.TypeSig{graph.SzArray{Elem: graph.Primitive{Elem: types.ElementTypeI4}}},
	}
	blob, err := EncodeTypeSig(ts, sig)
	if err != nil {
		t.Fatalf("EncodeTypeSig: %v", err)
	}
	if blob[0] != byte(types.ElementTypeGenericInst) {
		t.Fatalf("tag = %#x, want GENERICINST", blob[0])
	}
	if blob[1] != byte(types.ElementTypeClass) {
		t.Fatalf("kind = %#x, want CLASS", blob[1])
	}
}

func TestEncodeMemberRefSigField(t *testing.T) {
	ts := newFakeTokens()
	blob, err := EncodeMemberRefSig(ts, graph.FieldRefSig{Type: graph.Primitive{Elem: types.ElementTypeI4}})
	if err != nil {
		t.Fatalf("EncodeMemberRefSig: %v", err)
	}
	want := []byte{byte(types.SigField), byte(types.ElementTypeI4)}
	if string(blob) != string(want) {
		t.Fatalf("blob = % x, want % x", blob, want)
	}
}

func TestEncodeStandAloneSigLocalVar(t *testing.T) {
	ts := newFakeTokens()
	content := &graph.LocalVarSig{Locals: []graph.LocalVar{{Type: graph.Primitive{Elem: types.ElementTypeI4}}}}
	blob, err := EncodeStandAloneSig(ts, content)
	if err != nil {
		t.Fatalf("EncodeStandAloneSig: %v", err)
	}
	if blob[0] != byte(types.SigLocalVar) {
		t.Fatalf("blob[0] = %#x, want SigLocalVar", blob[0])
	}
}
