package graph

import "github.com/appsworld/clrmeta/types"

// TypeSig is a structured type-signature node (ECMA-335 §II.23.2.12).
// The graph holds these as plain data — no encoding logic lives here —
// so that pkg/sigwriter can walk the tree and do the actual byte-level
// encoding and TypeDefOrRef token resolution without graph needing to
// import sigwriter (spec.md §9 "token service <-> signature writer
// coupling": neither package owns the other).
type TypeSig interface{ isTypeSig() }

// Primitive is any signature node that is just an ElementType byte
// (Void, Boolean, Char, I1..U8, R4, R8, String, Object, I, U, TypedByRef).
type Primitive struct{ Elem types.ElementType }

// ClassType is ELEMENT_TYPE_CLASS Ref.
type ClassType struct{ Ref TypeDefOrRef }

// ValueTypeType is ELEMENT_TYPE_VALUETYPE Ref.
type ValueTypeType struct{ Ref TypeDefOrRef }

// GenericVar is ELEMENT_TYPE_VAR Number (type-level generic parameter).
type GenericVar struct{ Number uint32 }

// GenericMVar is ELEMENT_TYPE_MVAR Number (method-level generic parameter).
type GenericMVar struct{ Number uint32 }

// Ptr is ELEMENT_TYPE_PTR Elem.
type Ptr struct{ Elem TypeSig }

// ByRef is ELEMENT_TYPE_BYREF Elem.
type ByRef struct{ Elem TypeSig }

// SzArray is ELEMENT_TYPE_SZARRAY Elem (single-dimensional, zero-based).
type SzArray struct{ Elem TypeSig }

// Array is ELEMENT_TYPE_ARRAY Elem Rank (ECMA-335 §II.23.2.13).
type Array struct {
	Elem     TypeSig
	Rank     uint32
	Sizes    []uint32
	LoBounds []int32
}

// GenericInst is ELEMENT_TYPE_GENERICINST (Class|ValueType) Generic argCount Args.
type GenericInst struct {
	Generic     TypeDefOrRef
	IsValueType bool
	Args        []TypeSig
}

func (Primitive) isTypeSig()     {}
func (ClassType) isTypeSig()     {}
func (ValueTypeType) isTypeSig() {}
func (GenericVar) isTypeSig()    {}
func (GenericMVar) isTypeSig()   {}
func (Ptr) isTypeSig()           {}
func (ByRef) isTypeSig()         {}
func (SzArray) isTypeSig()       {}
func (Array) isTypeSig()         {}
func (GenericInst) isTypeSig()   {}

// SigParam is one parameter or the return type of a MethodSig.
type SigParam struct {
	Type  TypeSig
	ByRef bool
}

// MethodSig describes a method's full calling-convention signature
// (ECMA-335 §II.23.2.1).
type MethodSig struct {
	HasThis       bool
	ExplicitThis  bool
	CallConv      types.SignatureKind // SigDefault, SigVarArg, SigC, SigStdCall, ...
	GenParamCount uint32              // method generic parameter count; nonzero makes EncodeMethodSig set SigGeneric and write the count
	RetType       TypeSig
	Params        []SigParam
	VarArgParams  []SigParam // appended after ELEMENT_TYPE_SENTINEL for vararg calls
}

func (*MethodSig) isMemberRefSig()         {}
func (*MethodSig) isStandAloneSigContent() {}

// PropertySig describes a property's signature (ECMA-335 §II.23.2.5).
type PropertySig struct {
	HasThis bool
	Type    TypeSig
	Params  []TypeSig
}

// LocalVar is one entry of a LocalVarSig.
type LocalVar struct {
	Type   TypeSig
	ByRef  bool
	Pinned bool
}

// LocalVarSig describes a method body's local variable block
// (ECMA-335 §II.23.2.6), referenced by a StandAloneSig row.
type LocalVarSig struct{ Locals []LocalVar }

func (*LocalVarSig) isStandAloneSigContent() {}

// MemberRefSig is satisfied by *MethodSig (a method/vararg-call-site
// reference) and FieldRefSig (a field reference), the two shapes a
// MemberRef's signature blob can take (ECMA-335 §II.23.2.1/.4).
type MemberRefSig interface{ isMemberRefSig() }

// FieldRefSig wraps a plain field-signature TypeSig so it can satisfy
// MemberRefSig alongside *MethodSig.
type FieldRefSig struct{ Type TypeSig }

func (FieldRefSig) isMemberRefSig() {}

// StandAloneSigContent is satisfied by *MethodSig (a raw calli call
// site) and *LocalVarSig (a method body's local-variable block), the
// two shapes a StandAloneSig row's signature blob can take.
type StandAloneSigContent interface{ isStandAloneSigContent() }
