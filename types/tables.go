// Package types holds the wire-format constants and row layouts defined
// by ECMA-335 §II.22/§II.23: table identifiers, row structs, coded-token
// tag tables, element types, and the attribute/flag enums that appear as
// scalar columns.
package types

import "fmt"

// TableID identifies one of the ECMA-335 metadata tables. Values match
// the table's assigned number (ECMA-335 §II.22.2, table 2).
type TableID byte

const (
	Module                 TableID = 0x00
	TypeRef                TableID = 0x01
	TypeDef                TableID = 0x02
	FieldPtr               TableID = 0x03
	Field                  TableID = 0x04
	MethodPtr               TableID = 0x05
	MethodDef              TableID = 0x06
	ParamPtr               TableID = 0x07
	Param                  TableID = 0x08
	InterfaceImpl          TableID = 0x09
	MemberRef              TableID = 0x0A
	Constant               TableID = 0x0B
	CustomAttribute        TableID = 0x0C
	FieldMarshal           TableID = 0x0D
	DeclSecurity           TableID = 0x0E
	ClassLayout            TableID = 0x0F
	FieldLayout            TableID = 0x10
	StandAloneSig          TableID = 0x11
	EventMap               TableID = 0x12
	EventPtr               TableID = 0x13
	Event                  TableID = 0x14
	PropertyMap            TableID = 0x15
	PropertyPtr            TableID = 0x16
	Property               TableID = 0x17
	MethodSemantics        TableID = 0x18
	MethodImpl             TableID = 0x19
	ModuleRef              TableID = 0x1A
	TypeSpec               TableID = 0x1B
	ImplMap                TableID = 0x1C
	FieldRVA               TableID = 0x1D
	Assembly               TableID = 0x20
	AssemblyProcessor      TableID = 0x21
	AssemblyOS             TableID = 0x22
	AssemblyRef            TableID = 0x23
	AssemblyRefProcessor   TableID = 0x24
	AssemblyRefOS          TableID = 0x25
	File                   TableID = 0x26
	ExportedType           TableID = 0x27
	ManifestResource       TableID = 0x28
	NestedClass            TableID = 0x29
	GenericParam           TableID = 0x2A
	MethodSpec             TableID = 0x2B
	GenericParamConstraint TableID = 0x2C
)

func (t TableID) String() string {
	switch t {
	case Module:
		return "Module"
	case TypeRef:
		return "TypeRef"
	case TypeDef:
		return "TypeDef"
	case Field:
		return "Field"
	case MethodDef:
		return "MethodDef"
	case Param:
		return "Param"
	case InterfaceImpl:
		return "InterfaceImpl"
	case MemberRef:
		return "MemberRef"
	case Constant:
		return "Constant"
	case CustomAttribute:
		return "CustomAttribute"
	case FieldMarshal:
		return "FieldMarshal"
	case DeclSecurity:
		return "DeclSecurity"
	case ClassLayout:
		return "ClassLayout"
	case FieldLayout:
		return "FieldLayout"
	case StandAloneSig:
		return "StandAloneSig"
	case EventMap:
		return "EventMap"
	case Event:
		return "Event"
	case PropertyMap:
		return "PropertyMap"
	case Property:
		return "Property"
	case MethodSemantics:
		return "MethodSemantics"
	case MethodImpl:
		return "MethodImpl"
	case ModuleRef:
		return "ModuleRef"
	case TypeSpec:
		return "TypeSpec"
	case ImplMap:
		return "ImplMap"
	case FieldRVA:
		return "FieldRVA"
	case Assembly:
		return "Assembly"
	case AssemblyRef:
		return "AssemblyRef"
	case File:
		return "File"
	case ExportedType:
		return "ExportedType"
	case ManifestResource:
		return "ManifestResource"
	case NestedClass:
		return "NestedClass"
	case GenericParam:
		return "GenericParam"
	case MethodSpec:
		return "MethodSpec"
	case GenericParamConstraint:
		return "GenericParamConstraint"
	default:
		return fmt.Sprintf("TableID(%#x)", byte(t))
	}
}

// Sorted reports whether rows of this table must be emitted in ascending
// key-column order (ECMA-335 §II.22, "sorted" column), per spec
// invariant 6.
func (t TableID) Sorted() bool {
	switch t {
	case InterfaceImpl, ClassLayout, FieldLayout, MethodSemantics, MethodImpl,
		GenericParam, GenericParamConstraint, Constant, FieldMarshal, FieldRVA,
		ImplMap, DeclSecurity, NestedClass, CustomAttribute:
		return true
	default:
		return false
	}
}

// Row is implemented by every table's row struct so the tables store can
// hold them behind a uniform slice-of-any per table without reflection
// at the call site.
type Row interface {
	Table() TableID
}

// ---------------------------------------------------------------------------
// Row layouts, ECMA-335 §II.22.
// ---------------------------------------------------------------------------

type ModuleRow struct {
	Generation uint16
	Name       uint32 // #Strings
	Mvid       uint32 // #Guid
	EncID      uint32 // #Guid
	EncBaseID  uint32 // #Guid
}

func (ModuleRow) Table() TableID { return Module }

type TypeRefRow struct {
	ResolutionScope uint32 // coded ResolutionScope
	Name            uint32 // #Strings
	Namespace       uint32 // #Strings
}

func (TypeRefRow) Table() TableID { return TypeRef }

type TypeDefRow struct {
	Flags     uint32
	Name      uint32 // #Strings
	Namespace uint32 // #Strings
	Extends   uint32 // coded TypeDefOrRef
	FieldList uint32 // rid into Field
	MethodList uint32 // rid into MethodDef
}

func (TypeDefRow) Table() TableID { return TypeDef }

type FieldRow struct {
	Flags     uint16
	Name      uint32 // #Strings
	Signature uint32 // #Blob
}

func (FieldRow) Table() TableID { return Field }

type MethodDefRow struct {
	RVA       uint32
	ImplFlags uint16
	Flags     uint16
	Name      uint32 // #Strings
	Signature uint32 // #Blob
	ParamList uint32 // rid into Param
}

func (MethodDefRow) Table() TableID { return MethodDef }

type ParamRow struct {
	Flags    uint16
	Sequence uint16
	Name     uint32 // #Strings
}

func (ParamRow) Table() TableID { return Param }

type InterfaceImplRow struct {
	Class     uint32 // rid into TypeDef
	Interface uint32 // coded TypeDefOrRef
}

func (InterfaceImplRow) Table() TableID { return InterfaceImpl }

type MemberRefRow struct {
	Class     uint32 // coded MemberRefParent
	Name      uint32 // #Strings
	Signature uint32 // #Blob
}

func (MemberRefRow) Table() TableID { return MemberRef }

type ConstantRow struct {
	Type    byte // ElementType
	Parent  uint32 // coded HasConstant
	Value   uint32 // #Blob
}

func (ConstantRow) Table() TableID { return Constant }

type CustomAttributeRow struct {
	Parent uint32 // coded HasCustomAttribute
	Type   uint32 // coded CustomAttributeType
	Value  uint32 // #Blob
}

func (CustomAttributeRow) Table() TableID { return CustomAttribute }

type FieldMarshalRow struct {
	Parent     uint32 // coded HasFieldMarshal
	NativeType uint32 // #Blob
}

func (FieldMarshalRow) Table() TableID { return FieldMarshal }

type DeclSecurityRow struct {
	Action        uint16
	Parent        uint32 // coded HasDeclSecurity
	PermissionSet uint32 // #Blob
}

func (DeclSecurityRow) Table() TableID { return DeclSecurity }

type ClassLayoutRow struct {
	PackingSize uint16
	ClassSize   uint32
	Parent      uint32 // rid into TypeDef
}

func (ClassLayoutRow) Table() TableID { return ClassLayout }

type FieldLayoutRow struct {
	Offset uint32
	Field  uint32 // rid into Field
}

func (FieldLayoutRow) Table() TableID { return FieldLayout }

type StandAloneSigRow struct {
	Signature uint32 // #Blob
}

func (StandAloneSigRow) Table() TableID { return StandAloneSig }

type EventMapRow struct {
	Parent    uint32 // rid into TypeDef
	EventList uint32 // rid into Event
}

func (EventMapRow) Table() TableID { return EventMap }

type EventRow struct {
	Flags     uint16
	Name      uint32 // #Strings
	EventType uint32 // coded TypeDefOrRef
}

func (EventRow) Table() TableID { return Event }

type PropertyMapRow struct {
	Parent       uint32 // rid into TypeDef
	PropertyList uint32 // rid into Property
}

func (PropertyMapRow) Table() TableID { return PropertyMap }

type PropertyRow struct {
	Flags     uint16
	Name      uint32 // #Strings
	Signature uint32 // #Blob
}

func (PropertyRow) Table() TableID { return Property }

type MethodSemanticsRow struct {
	Semantics uint16
	Method    uint32 // rid into MethodDef
	Assoc     uint32 // coded HasSemantics
}

func (MethodSemanticsRow) Table() TableID { return MethodSemantics }

type MethodImplRow struct {
	Class             uint32 // rid into TypeDef
	MethodBody        uint32 // coded MethodDefOrRef
	MethodDeclaration uint32 // coded MethodDefOrRef
}

func (MethodImplRow) Table() TableID { return MethodImpl }

type ModuleRefRow struct {
	Name uint32 // #Strings
}

func (ModuleRefRow) Table() TableID { return ModuleRef }

type TypeSpecRow struct {
	Signature uint32 // #Blob
}

func (TypeSpecRow) Table() TableID { return TypeSpec }

type ImplMapRow struct {
	MappingFlags     uint16
	MemberForwarded  uint32 // coded MemberForwarded
	ImportName       uint32 // #Strings
	ImportScope      uint32 // rid into ModuleRef
}

func (ImplMapRow) Table() TableID { return ImplMap }

type FieldRVARow struct {
	RVA   uint32
	Field uint32 // rid into Field
}

func (FieldRVARow) Table() TableID { return FieldRVA }

type AssemblyRow struct {
	HashAlgID      uint32
	MajorVersion   uint16
	MinorVersion   uint16
	BuildNumber    uint16
	RevisionNumber uint16
	Flags          uint32
	PublicKey      uint32 // #Blob
	Name           uint32 // #Strings
	Culture        uint32 // #Strings
}

func (AssemblyRow) Table() TableID { return Assembly }

type AssemblyRefRow struct {
	MajorVersion   uint16
	MinorVersion   uint16
	BuildNumber    uint16
	RevisionNumber uint16
	Flags          uint32
	PublicKeyOrToken uint32 // #Blob
	Name           uint32 // #Strings
	Culture        uint32 // #Strings
	HashValue      uint32 // #Blob
}

func (AssemblyRefRow) Table() TableID { return AssemblyRef }

type FileRow struct {
	Flags     uint32
	Name      uint32 // #Strings
	HashValue uint32 // #Blob
}

func (FileRow) Table() TableID { return File }

type ExportedTypeRow struct {
	Flags          uint32
	TypeDefID      uint32
	TypeName       uint32 // #Strings
	TypeNamespace  uint32 // #Strings
	Implementation uint32 // coded Implementation
}

func (ExportedTypeRow) Table() TableID { return ExportedType }

type ManifestResourceRow struct {
	Offset         uint32
	Flags          uint32
	Name           uint32 // #Strings
	Implementation uint32 // coded Implementation, 0 = embedded
}

func (ManifestResourceRow) Table() TableID { return ManifestResource }

type NestedClassRow struct {
	NestedClass    uint32 // rid into TypeDef
	EnclosingClass uint32 // rid into TypeDef
}

func (NestedClassRow) Table() TableID { return NestedClass }

type GenericParamRow struct {
	Number uint16
	Flags  uint16
	Owner  uint32 // coded TypeOrMethodDef
	Name   uint32 // #Strings
}

func (GenericParamRow) Table() TableID { return GenericParam }

type MethodSpecRow struct {
	Method        uint32 // coded MethodDefOrRef
	Instantiation uint32 // #Blob
}

func (MethodSpecRow) Table() TableID { return MethodSpec }

type GenericParamConstraintRow struct {
	Owner      uint32 // rid into GenericParam
	Constraint uint32 // coded TypeDefOrRef
}

func (GenericParamConstraintRow) Table() TableID { return GenericParamConstraint }
