package graph

// TypeDefOrRef is satisfied by *TypeDef, *TypeRef, and *TypeSpec: any
// entity that can occupy a TypeDefOrRef coded-token column.
type TypeDefOrRef interface{ isTypeDefOrRef() }

func (*TypeDef) isTypeDefOrRef()  {}
func (*TypeRef) isTypeDefOrRef()  {}
func (*TypeSpec) isTypeDefOrRef() {}

// MethodDefOrRef is satisfied by *Method and *MemberRef.
type MethodDefOrRef interface{ isMethodDefOrRef() }

func (*Method) isMethodDefOrRef()    {}
func (*MemberRef) isMethodDefOrRef() {}

// ResolutionScope is satisfied by *Module, *ModuleRef, *AssemblyRef, and *TypeRef.
type ResolutionScope interface{ isResolutionScope() }

func (*Module) isResolutionScope()      {}
func (*ModuleRef) isResolutionScope()   {}
func (*AssemblyRef) isResolutionScope() {}
func (*TypeRef) isResolutionScope()     {}

// MemberRefParent is satisfied by *TypeDef, *TypeRef, *ModuleRef, *Method, *TypeSpec.
type MemberRefParent interface{ isMemberRefParent() }

func (*TypeDef) isMemberRefParent()  {}
func (*TypeRef) isMemberRefParent()  {}
func (*ModuleRef) isMemberRefParent() {}
func (*Method) isMemberRefParent()   {}
func (*TypeSpec) isMemberRefParent() {}

// TypeRef is a reference to a type defined outside this module.
type TypeRef struct {
	ResolutionScope ResolutionScope // nil means "exported type in this module's assembly"
	Namespace       string
	Name            string
}

// ModuleRef is a reference to another module of the same assembly.
type ModuleRef struct {
	Name string
}

// AssemblyRef is a reference to an external assembly.
type AssemblyRef struct {
	MajorVersion, MinorVersion, BuildNumber, RevisionNumber uint16
	Flags                                                   uint32
	PublicKeyOrToken                                        []byte
	Name                                                    string
	Culture                                                 string
	HashValue                                               []byte
}

// MemberRef is a reference to a field or method of an external type, or
// a call-site signature for a varargs call within this module.
type MemberRef struct {
	Class     MemberRefParent
	Name      string
	Signature MemberRefSig // encoded by pkg/sigwriter.EncodeMethodSig/EncodeFieldSig
}

// StandAloneSig holds a signature blob with no owning row of its own
// (local variable signatures, raw calli call sites).
type StandAloneSig struct {
	Signature StandAloneSigContent // encoded by pkg/sigwriter.EncodeMethodSig/EncodeLocalVarSig
}

// TypeSpec is a signature-encoded type (instantiated generic, array,
// pointer) referenced from a coded TypeDefOrRef column.
type TypeSpec struct {
	Signature TypeSig // encoded by pkg/sigwriter.EncodeTypeSig
}

// MethodSpec is an instantiation of a generic method.
type MethodSpec struct {
	Method        MethodDefOrRef
	Instantiation []TypeSig // encoded by pkg/sigwriter.EncodeGenericInstSig
}

// ExportedType names a type defined in another module of this assembly.
type ExportedType struct {
	Flags          uint32
	TypeDefID      uint32
	TypeName       string
	TypeNamespace  string
	Implementation Implementation
}

// FileDef is a file that is part of this assembly's manifest.
type FileDef struct {
	Flags     uint32
	Name      string
	HashValue []byte
}

// Implementation is satisfied by *FileDef, *AssemblyRef, and *ExportedType.
type Implementation interface{ isImplementation() }

func (*FileDef) isImplementation()      {}
func (*AssemblyRef) isImplementation()  {}
func (*ExportedType) isImplementation() {}

// Resource is satisfied by the three ManifestResource variants.
type Resource interface {
	ResourceName() string
	ResourceFlags() uint32
}

// EmbeddedResource carries its bytes inline; they are appended to the
// net-resources blob by an external ByteSink.
type EmbeddedResource struct {
	Name  string
	Flags uint32
	Data  []byte
}

func (r *EmbeddedResource) ResourceName() string  { return r.Name }
func (r *EmbeddedResource) ResourceFlags() uint32 { return r.Flags }

// AssemblyLinkedResource points at a resource hosted by another assembly.
type AssemblyLinkedResource struct {
	Name     string
	Flags    uint32
	Assembly *AssemblyRef
}

func (r *AssemblyLinkedResource) ResourceName() string  { return r.Name }
func (r *AssemblyLinkedResource) ResourceFlags() uint32 { return r.Flags }

// FileLinkedResource points at a resource hosted by a file of this assembly.
type FileLinkedResource struct {
	Name  string
	Flags uint32
	File  *FileDef
}

func (r *FileLinkedResource) ResourceName() string  { return r.Name }
func (r *FileLinkedResource) ResourceFlags() uint32 { return r.Flags }
