package types

import "fmt"

// CodedTokenKind identifies one of the fixed tag tables ECMA-335 §II.24.2.6
// defines for bit-packed cross-table references.
type CodedTokenKind int

const (
	TypeDefOrRef CodedTokenKind = iota
	HasConstant
	HasCustomAttribute
	HasFieldMarshal
	HasDeclSecurity
	MemberRefParent
	HasSemantics
	MethodDefOrRef
	MemberForwarded
	Implementation
	CustomAttributeType
	ResolutionScope
	TypeOrMethodDef
)

// unusedTag marks a tag slot ECMA-335 reserves but never assigns to a
// table (e.g. CustomAttributeType tags 0, 1, 4). It can never equal a
// real TableID since those top out at 0x2C.
const unusedTag TableID = 0xFF

// tagTables lists, for each coded-token kind, the table admissible at
// each tag value in ascending tag order (ECMA-335 §II.24.2.6).
var tagTables = map[CodedTokenKind][]TableID{
	TypeDefOrRef:        {TypeDef, TypeRef, TypeSpec},
	HasConstant:         {Field, Param, Property},
	HasCustomAttribute: {
		MethodDef, Field, TypeRef, TypeDef, Param, InterfaceImpl, MemberRef,
		Module, DeclSecurity, Property, Event, StandAloneSig, ModuleRef,
		TypeSpec, Assembly, AssemblyRef, File, ExportedType, ManifestResource,
		GenericParam, GenericParamConstraint, MethodSpec,
	},
	HasFieldMarshal:     {Field, Param},
	HasDeclSecurity:     {TypeDef, MethodDef, Assembly},
	MemberRefParent:     {TypeDef, TypeRef, ModuleRef, MethodDef, TypeSpec},
	HasSemantics:        {Event, Property},
	MethodDefOrRef:      {MethodDef, MemberRef},
	MemberForwarded:     {Field, MethodDef},
	Implementation:      {File, AssemblyRef, ExportedType},
	CustomAttributeType: {unusedTag, unusedTag, MethodDef, MemberRef, unusedTag},
	ResolutionScope:     {Module, ModuleRef, AssemblyRef, TypeRef},
	TypeOrMethodDef:     {TypeDef, MethodDef},
}

// tagBits is the number of low bits reserved for the tag in each coded
// token kind, per ECMA-335 §II.24.2.6 (ceil(log2(len(tagTables[k])))).
var tagBits = map[CodedTokenKind]uint{
	TypeDefOrRef:        2,
	HasConstant:         2,
	HasCustomAttribute:  5,
	HasFieldMarshal:     1,
	HasDeclSecurity:     2,
	MemberRefParent:     3,
	HasSemantics:        1,
	MethodDefOrRef:      1,
	MemberForwarded:     1,
	Implementation:      2,
	CustomAttributeType: 3,
	ResolutionScope:     2,
	TypeOrMethodDef:     1,
}

// Token is an (table, rid) pair as used by the non-coded "simple token"
// form (table << 24 | rid), surfaced to callers that need the raw pair
// rather than a coded value.
type Token struct {
	Table TableID
	RID   uint32
}

// UnsupportedToken is the sentinel returned when get_token is asked to
// encode an object kind it does not recognize (spec §7).
var UnsupportedToken uint32 = 0xFF00FFFF

// Encode bit-packs (table, rid) into kind's coded representation.
// Returns an error if table is not a member of kind's tag table — the
// caller surfaces this as a fatal build failure.
func Encode(kind CodedTokenKind, table TableID, rid uint32) (uint32, error) {
	if rid == 0 {
		return 0, nil
	}
	tags, ok := tagTables[kind]
	if !ok {
		return 0, fmt.Errorf("types: unknown coded token kind %d", kind)
	}
	tag := -1
	for i, t := range tags {
		if t == table && t != unusedTag {
			tag = i
			break
		}
	}
	if tag < 0 {
		return 0, fmt.Errorf("types: table %s cannot be encoded as %v", table, kind)
	}
	bits := tagBits[kind]
	return (rid << bits) | uint32(tag), nil
}

// Decode unpacks a coded token of the given kind into (table, rid).
func Decode(kind CodedTokenKind, coded uint32) (TableID, uint32, error) {
	tags, ok := tagTables[kind]
	if !ok {
		return 0, 0, fmt.Errorf("types: unknown coded token kind %d", kind)
	}
	bits := tagBits[kind]
	mask := uint32(1)<<bits - 1
	tag := coded & mask
	rid := coded >> bits
	if int(tag) >= len(tags) || tags[tag] == unusedTag {
		return 0, 0, fmt.Errorf("types: tag %d out of range for %v", tag, kind)
	}
	return tags[tag], rid, nil
}
