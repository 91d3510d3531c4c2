package types

// ElementType is the type-shape tag used throughout §II.23.2 signatures
// and in Constant.Type (ECMA-335 §II.23.1.16).
type ElementType byte

const (
	ElementTypeEnd       ElementType = 0x00
	ElementTypeVoid      ElementType = 0x01
	ElementTypeBoolean   ElementType = 0x02
	ElementTypeChar      ElementType = 0x03
	ElementTypeI1        ElementType = 0x04
	ElementTypeU1        ElementType = 0x05
	ElementTypeI2        ElementType = 0x06
	ElementTypeU2        ElementType = 0x07
	ElementTypeI4        ElementType = 0x08
	ElementTypeU4        ElementType = 0x09
	ElementTypeI8        ElementType = 0x0A
	ElementTypeU8        ElementType = 0x0B
	ElementTypeR4        ElementType = 0x0C
	ElementTypeR8        ElementType = 0x0D
	ElementTypeString    ElementType = 0x0E
	ElementTypePtr       ElementType = 0x0F
	ElementTypeByRef     ElementType = 0x10
	ElementTypeValueType ElementType = 0x11
	ElementTypeClass     ElementType = 0x12
	ElementTypeVar       ElementType = 0x13
	ElementTypeArray     ElementType = 0x14
	ElementTypeGenericInst ElementType = 0x15
	ElementTypeTypedByRef ElementType = 0x16
	ElementTypeI         ElementType = 0x18
	ElementTypeU         ElementType = 0x19
	ElementTypeFnPtr     ElementType = 0x1B
	ElementTypeObject    ElementType = 0x1C
	ElementTypeSzArray   ElementType = 0x1D
	ElementTypeMVar      ElementType = 0x1E
	ElementTypeCModReqd  ElementType = 0x1F
	ElementTypeCModOpt   ElementType = 0x20
	ElementTypeInternal  ElementType = 0x21
	ElementTypeModifier  ElementType = 0x40
	ElementTypeSentinel  ElementType = 0x41
	ElementTypePinned    ElementType = 0x45
)

// SignatureKind tags the calling-convention byte that opens every
// signature blob (ECMA-335 §II.23.2.1).
type SignatureKind byte

const (
	SigDefault       SignatureKind = 0x00
	SigC             SignatureKind = 0x01
	SigStdCall       SignatureKind = 0x02
	SigThisCall      SignatureKind = 0x03
	SigFastCall      SignatureKind = 0x04
	SigVarArg        SignatureKind = 0x05
	SigGeneric       SignatureKind = 0x10
	SigHasThis       SignatureKind = 0x20
	SigExplicitThis  SignatureKind = 0x40
	SigField         SignatureKind = 0x06
	SigLocalVar      SignatureKind = 0x07
	SigProperty      SignatureKind = 0x08
	SigGenericInst   SignatureKind = 0x0A
)
