// Package graph holds the in-memory module graph consumed by the
// metadata builders: the rooted tree of types, members, and references
// that describes a single managed module, owned by whatever parser or
// compiler front end assembled it. Nothing here mutates once the build
// starts; identity for deduplication purposes is Go reference identity
// (pointer equality), never structural equality.
package graph

import "github.com/google/uuid"

// Module is the root of the graph: exactly one per managed image.
type Module struct {
	Generation uint16
	Name       string
	Mvid       uuid.UUID
	EncID      uuid.UUID
	EncBaseID  uuid.UUID

	Assembly   *Assembly
	Types      []*TypeDef // top-level (non-nested) types, declaration order
	Globals    *TypeDef   // the synthetic <Module> type; always Types' implicit root
	Files      []*FileDef
	Exported   []*ExportedType
	Resources  []Resource
	Attributes []*CustomAttribute
}

// Assembly describes the Assembly table row this module hosts, if any.
type Assembly struct {
	HashAlgID      AssemblyHashAlgorithm
	MajorVersion   uint16
	MinorVersion   uint16
	BuildNumber    uint16
	RevisionNumber uint16
	Flags          AssemblyFlags
	PublicKey      []byte
	Name           string
	Culture        string
	Attributes     []*CustomAttribute
	Security       []*SecurityDecl
}

// AssemblyHashAlgorithm and AssemblyFlags mirror types.AssemblyHashAlgorithm
// and types.AssemblyFlags; redeclared here so graph has no import-cycle
// dependency direction surprises for callers that only need the input model.
type AssemblyHashAlgorithm = uint32
type AssemblyFlags = uint32

// TypeDef is a defined type: a class, interface, struct, enum, or delegate.
type TypeDef struct {
	Flags     uint32 // types.TypeAttributes
	Namespace string
	Name      string
	Extends   TypeDefOrRef // nil for System.Object / interfaces with no base

	Fields      []*Field
	Methods     []*Method
	NestedTypes []*TypeDef
	Interfaces  []TypeDefOrRef
	GenericParams []*GenericParam
	Events      []*Event
	Properties  []*Property
	Security    []*SecurityDecl
	Attributes  []*CustomAttribute

	Layout *ClassLayout
}

// ClassLayout carries explicit layout information for a TypeDef.
type ClassLayout struct {
	PackingSize uint16
	ClassSize   uint32
}

// Field is a field of a TypeDef.
type Field struct {
	Flags     uint16 // types.FieldAttributes
	Name      string
	Signature TypeSig // encoded to a FieldSig blob by pkg/sigwriter.EncodeFieldSig

	Layout   *FieldLayout
	Marshal  *FieldMarshal
	RVAData  []byte
	ImplMap  *ImplMap
	Constant *Constant

	Attributes []*CustomAttribute
}

type FieldLayout struct{ Offset uint32 }
type FieldMarshal struct{ NativeType []byte }

// Constant is an attached literal default value.
type Constant struct {
	Type  byte // types.ElementType
	Value any  // bool, rune, int8/16/32/64, uint8/16/32/64, float32/64, string, or nil
}

// Method is a method of a TypeDef.
type Method struct {
	Flags     uint16 // types.MethodAttributes
	ImplFlags uint16 // types.MethodImplAttributes
	Name      string
	Signature *MethodSig // encoded to a MethodSig blob by pkg/sigwriter.EncodeMethodSig
	Body      []byte     // IL body bytes, appended via a ByteSink by an external collaborator

	Params        []*Param
	GenericParams []*GenericParam
	Overrides     []*MethodOverride
	ImplMap       *ImplMap
	Security      []*SecurityDecl
	Attributes    []*CustomAttribute

	IsEntryPoint bool
}

// Param is a parameter of a Method (position 0 is the return value).
type Param struct {
	Flags      uint16 // types.ParamAttributes
	Sequence   uint16
	Name       string
	Constant   *Constant
	Marshal    *FieldMarshal
	Attributes []*CustomAttribute
}

// MethodOverride records an explicit method-impl edge (declaration
// overridden by this method's body).
type MethodOverride struct {
	Declaration MethodDefOrRef
}

// ImplMap is PInvoke mapping data attached to a Field or Method.
type ImplMap struct {
	MappingFlags uint16 // types.PInvokeAttributes
	ImportName   string
	ImportScope  *ModuleRef
}

// Event is an event of a TypeDef.
type Event struct {
	Flags      uint16 // types.EventAttributes
	Name       string
	EventType  TypeDefOrRef
	AddOn      *Method
	RemoveOn   *Method
	Fire       *Method
	Other      []*Method
	Attributes []*CustomAttribute
}

// Property is a property of a TypeDef.
type Property struct {
	Flags      uint16 // types.PropertyAttributes
	Name       string
	Signature  *PropertySig // encoded to a PropertySig blob by pkg/sigwriter.EncodePropertySig
	Getter     *Method
	Setter     *Method
	Other      []*Method
	Constant   *Constant
	Attributes []*CustomAttribute
}

// GenericParam is a generic parameter of a TypeDef or Method.
type GenericParam struct {
	Number      uint16
	Flags       uint16
	Name        string
	Constraints []*GenericParamConstraint
}

// GenericParamConstraint constrains a GenericParam to a base type/interface.
type GenericParamConstraint struct {
	Constraint TypeDefOrRef
}

// SecurityDecl is a DeclSecurity row attached to a TypeDef, Method, or Assembly.
type SecurityDecl struct {
	Action        uint16
	PermissionSet []byte
}

// CustomAttribute is attached to any CustomAttributeHost.
type CustomAttribute struct {
	Constructor MethodDefOrRef
	Value       []byte
}

// CustomAttributeHost is implemented by every entity CustomAttribute rows
// may attach to. Each host's CustomAttributes method returns its
// Attributes field; the builder calls that method when it emits the
// host's row.
type CustomAttributeHost interface {
	CustomAttributes() []*CustomAttribute
}

func (m *Module) CustomAttributes() []*CustomAttribute    { return m.Attributes }
func (a *Assembly) CustomAttributes() []*CustomAttribute  { return a.Attributes }
func (t *TypeDef) CustomAttributes() []*CustomAttribute   { return t.Attributes }
func (f *Field) CustomAttributes() []*CustomAttribute     { return f.Attributes }
func (m *Method) CustomAttributes() []*CustomAttribute    { return m.Attributes }
func (p *Param) CustomAttributes() []*CustomAttribute     { return p.Attributes }
func (e *Event) CustomAttributes() []*CustomAttribute     { return e.Attributes }
func (p *Property) CustomAttributes() []*CustomAttribute  { return p.Attributes }
