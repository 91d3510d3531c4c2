package types

// TypeAttributes is the TypeDef.Flags column (ECMA-335 §II.23.1.15).
type TypeAttributes uint32

const (
	TypeVisibilityMask    TypeAttributes = 0x00000007
	TypeNotPublic         TypeAttributes = 0x00000000
	TypePublic            TypeAttributes = 0x00000001
	TypeNestedPublic      TypeAttributes = 0x00000002
	TypeNestedPrivate     TypeAttributes = 0x00000003
	TypeNestedFamily      TypeAttributes = 0x00000004
	TypeNestedAssembly    TypeAttributes = 0x00000005
	TypeNestedFamANDAssem TypeAttributes = 0x00000006
	TypeNestedFamORAssem  TypeAttributes = 0x00000007
	TypeLayoutMask        TypeAttributes = 0x00000018
	TypeAutoLayout        TypeAttributes = 0x00000000
	TypeSequentialLayout  TypeAttributes = 0x00000008
	TypeExplicitLayout    TypeAttributes = 0x00000010
	TypeClassSemanticsMask TypeAttributes = 0x00000020
	TypeClass             TypeAttributes = 0x00000000
	TypeInterface         TypeAttributes = 0x00000020
	TypeAbstract          TypeAttributes = 0x00000080
	TypeSealed            TypeAttributes = 0x00000100
	TypeSpecialName       TypeAttributes = 0x00000400
	TypeImport            TypeAttributes = 0x00001000
	TypeSerializable      TypeAttributes = 0x00002000
	TypeBeforeFieldInit   TypeAttributes = 0x00100000
	TypeRTSpecialName     TypeAttributes = 0x00000800
	TypeHasSecurity       TypeAttributes = 0x00040000
)

// IsNested reports whether the visibility bits name a nested-type kind.
func (t TypeAttributes) IsNested() bool {
	vis := t & TypeVisibilityMask
	return vis >= TypeNestedPublic && vis <= TypeNestedFamORAssem
}

// FieldAttributes is the Field.Flags column (ECMA-335 §II.23.1.5).
type FieldAttributes uint16

const (
	FieldAccessMask      FieldAttributes = 0x0007
	FieldPrivateScope    FieldAttributes = 0x0000
	FieldPrivate         FieldAttributes = 0x0001
	FieldFamANDAssem     FieldAttributes = 0x0002
	FieldAssembly        FieldAttributes = 0x0003
	FieldFamily          FieldAttributes = 0x0004
	FieldFamORAssem      FieldAttributes = 0x0005
	FieldPublic          FieldAttributes = 0x0006
	FieldStatic          FieldAttributes = 0x0010
	FieldInitOnly        FieldAttributes = 0x0020
	FieldLiteral         FieldAttributes = 0x0040
	FieldNotSerialized   FieldAttributes = 0x0080
	FieldSpecialName     FieldAttributes = 0x0200
	FieldPInvokeImpl     FieldAttributes = 0x2000
	FieldRTSpecialName   FieldAttributes = 0x0400
	FieldHasFieldMarshal FieldAttributes = 0x1000
	FieldHasDefault      FieldAttributes = 0x8000
	FieldHasFieldRVA     FieldAttributes = 0x0100
)

// MethodAttributes is the MethodDef.Flags column (ECMA-335 §II.23.1.10).
type MethodAttributes uint16

const (
	MethodAccessMask       MethodAttributes = 0x0007
	MethodPrivateScope     MethodAttributes = 0x0000
	MethodPrivate          MethodAttributes = 0x0001
	MethodFamANDAssem      MethodAttributes = 0x0002
	MethodAssembly         MethodAttributes = 0x0003
	MethodFamily           MethodAttributes = 0x0004
	MethodFamORAssem       MethodAttributes = 0x0005
	MethodPublic           MethodAttributes = 0x0006
	MethodStatic           MethodAttributes = 0x0010
	MethodFinal            MethodAttributes = 0x0020
	MethodVirtual          MethodAttributes = 0x0040
	MethodHideBySig        MethodAttributes = 0x0080
	MethodVtableLayoutMask MethodAttributes = 0x0100
	MethodNewSlot          MethodAttributes = 0x0100
	MethodStrict           MethodAttributes = 0x0200
	MethodAbstract         MethodAttributes = 0x0400
	MethodSpecialName      MethodAttributes = 0x0800
	MethodPInvokeImpl      MethodAttributes = 0x2000
	MethodRTSpecialName    MethodAttributes = 0x1000
	MethodHasSecurity      MethodAttributes = 0x4000
	MethodRequireSecObject MethodAttributes = 0x8000
)

// MethodImplAttributes is the MethodDef.ImplFlags column (ECMA-335 §II.23.1.11).
type MethodImplAttributes uint16

const (
	MethodImplCodeTypeMask        MethodImplAttributes = 0x0003
	MethodImplIL                  MethodImplAttributes = 0x0000
	MethodImplNative               MethodImplAttributes = 0x0001
	MethodImplOPTIL                MethodImplAttributes = 0x0002
	MethodImplRuntime              MethodImplAttributes = 0x0003
	MethodImplManaged              MethodImplAttributes = 0x0000
	MethodImplUnmanaged            MethodImplAttributes = 0x0004
	MethodImplForwardRef           MethodImplAttributes = 0x0010
	MethodImplPreserveSig          MethodImplAttributes = 0x0080
	MethodImplInternalCall         MethodImplAttributes = 0x1000
	MethodImplSynchronized         MethodImplAttributes = 0x0020
	MethodImplNoInlining           MethodImplAttributes = 0x0008
	MethodImplAggressiveInlining   MethodImplAttributes = 0x0100
	MethodImplNoOptimization       MethodImplAttributes = 0x0040
)

// ParamAttributes is the Param.Flags column (ECMA-335 §II.23.1.13).
type ParamAttributes uint16

const (
	ParamIn              ParamAttributes = 0x0001
	ParamOut             ParamAttributes = 0x0002
	ParamOptional        ParamAttributes = 0x0010
	ParamHasDefault      ParamAttributes = 0x1000
	ParamHasFieldMarshal ParamAttributes = 0x2000
)

// EventAttributes is the Event.EventFlags column (ECMA-335 §II.23.1.4).
type EventAttributes uint16

const (
	EventSpecialName   EventAttributes = 0x0200
	EventRTSpecialName EventAttributes = 0x0400
)

// PropertyAttributes is the Property.Flags column (ECMA-335 §II.23.1.14).
type PropertyAttributes uint16

const (
	PropertySpecialName   PropertyAttributes = 0x0200
	PropertyRTSpecialName PropertyAttributes = 0x0400
	PropertyHasDefault    PropertyAttributes = 0x1000
)

// PInvokeAttributes is the ImplMap.MappingFlags column (ECMA-335 §II.23.1.8).
type PInvokeAttributes uint16

const (
	PInvokeNoMangle          PInvokeAttributes = 0x0001
	PInvokeCharSetMask       PInvokeAttributes = 0x0006
	PInvokeCharSetNotSpec    PInvokeAttributes = 0x0000
	PInvokeCharSetAnsi       PInvokeAttributes = 0x0002
	PInvokeCharSetUnicode    PInvokeAttributes = 0x0004
	PInvokeCharSetAuto       PInvokeAttributes = 0x0006
	PInvokeSupportsLastError PInvokeAttributes = 0x0040
	PInvokeCallConvMask      PInvokeAttributes = 0x0700
	PInvokeCallConvWinapi    PInvokeAttributes = 0x0100
	PInvokeCallConvCdecl     PInvokeAttributes = 0x0200
	PInvokeCallConvStdcall   PInvokeAttributes = 0x0300
	PInvokeCallConvThiscall  PInvokeAttributes = 0x0400
	PInvokeCallConvFastcall  PInvokeAttributes = 0x0500
)

// ManifestResourceAttributes is the ManifestResource.Flags column
// (ECMA-335 §II.23.1.9).
type ManifestResourceAttributes uint32

const (
	ResourceVisibilityMask ManifestResourceAttributes = 0x0007
	ResourcePublic         ManifestResourceAttributes = 0x0001
	ResourcePrivate        ManifestResourceAttributes = 0x0002
)

// AssemblyFlags is the Assembly.Flags / AssemblyRef.Flags column
// (ECMA-335 §II.23.1.2).
type AssemblyFlags uint32

const (
	AssemblyPublicKey                  AssemblyFlags = 0x0001
	AssemblyRetargetable               AssemblyFlags = 0x0100
	AssemblyContentTypeMask            AssemblyFlags = 0x0E00
	AssemblyDisableJITCompileOptimizer AssemblyFlags = 0x4000
	AssemblyEnableJITCompileTracking   AssemblyFlags = 0x8000
)

// AssemblyHashAlgorithm is the Assembly.HashAlgId column (ECMA-335 §II.23.1.1).
type AssemblyHashAlgorithm uint32

const (
	AssemblyHashNone AssemblyHashAlgorithm = 0x0000
	AssemblyHashMD5  AssemblyHashAlgorithm = 0x8003
	AssemblyHashSHA1 AssemblyHashAlgorithm = 0x8004
)

// MethodSemanticsAttributes is the MethodSemantics.Semantics column
// (ECMA-335 §II.23.1.12).
type MethodSemanticsAttributes uint16

const (
	SemanticsSetter   MethodSemanticsAttributes = 0x0001
	SemanticsGetter   MethodSemanticsAttributes = 0x0002
	SemanticsOther    MethodSemanticsAttributes = 0x0004
	SemanticsAddOn    MethodSemanticsAttributes = 0x0008
	SemanticsRemoveOn MethodSemanticsAttributes = 0x0010
	SemanticsFire     MethodSemanticsAttributes = 0x0020
)
