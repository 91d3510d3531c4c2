// Package sigwriter serializes type signatures and calling-convention
// signatures to blob bytes per ECMA-335 §II.23.2. It is pure: every
// function returns a byte slice for the caller to insert into #Blob
// itself. The signature trees themselves are plain data owned by
// package graph; recursion into TypeDef/TypeRef/TypeSpec references is
// resolved through a caller-supplied TokenService rather than a
// long-lived back-pointer, so neither package owns the other (spec.md
// §9 "Token service ↔ signature writer coupling").
package sigwriter

import (
	"fmt"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

// TokenService is the callback surface the signature writer needs from
// the builder to resolve entity and string references it encounters
// mid-signature (spec.md §4.6.2's token-service contract).
type TokenService interface {
	// EncodeTypeDefOrRef materializes entity's row if necessary and
	// returns its (table, rid) pair encoded as a TypeDefOrRef coded
	// token (spec.md §4.6.2).
	EncodeTypeDefOrRef(entity graph.TypeDefOrRef) (uint32, error)

	// GetToken resolves obj to a plain (table<<24|rid) token, or, for a
	// string, inserts it into #US and returns the 0x70-tagged
	// user-string token (spec.md §4.6.2's get_token).
	GetToken(obj any) (uint32, error)
}

type writer struct{ buf []byte }

func (w *writer) byte(b byte) { w.buf = append(w.buf, b) }

func (w *writer) compressed(x uint32) { w.buf = types.CompressUint(w.buf, x) }

func (w *writer) typeDefOrRef(ts TokenService, entity graph.TypeDefOrRef) error {
	coded, err := ts.EncodeTypeDefOrRef(entity)
	if err != nil {
		return err
	}
	w.compressed(coded)
	return nil
}

// encodeSignedAsUnsigned applies the ECMA-335 §II.23.2.9 zig-zag-free
// signed-compressed-integer transform used for array lower bounds.
func encodeSignedAsUnsigned(v int32) uint32 {
	u := uint32(v)
	if v < 0 {
		return (u << 1) | 1
	}
	return u << 1
}

// writeTypeSig recursively encodes one graph.TypeSig node, resolving
// any TypeDefOrRef reference it carries through ts — the recursive
// builder→sigwriter→tokenService coupling spec.md §2/§4.4/§9 describe:
// a ClassType/ValueTypeType/GenericInst node may name a *graph.TypeSpec,
// whose own signature is itself a TypeSig this function is reentered
// for by the caller that materializes that row.
func writeTypeSig(w *writer, ts TokenService, sig graph.TypeSig) error {
	switch v := sig.(type) {
	case graph.Primitive:
		w.byte(byte(v.Elem))
		return nil
	case graph.ClassType:
		w.byte(byte(types.ElementTypeClass))
		return w.typeDefOrRef(ts, v.Ref)
	case graph.ValueTypeType:
		w.byte(byte(types.ElementTypeValueType))
		return w.typeDefOrRef(ts, v.Ref)
	case graph.GenericVar:
		w.byte(byte(types.ElementTypeVar))
		w.compressed(v.Number)
		return nil
	case graph.GenericMVar:
		w.byte(byte(types.ElementTypeMVar))
		w.compressed(v.Number)
		return nil
	case graph.Ptr:
		w.byte(byte(types.ElementTypePtr))
		return writeTypeSig(w, ts, v.Elem)
	case graph.ByRef:
		w.byte(byte(types.ElementTypeByRef))
		return writeTypeSig(w, ts, v.Elem)
	case graph.SzArray:
		w.byte(byte(types.ElementTypeSzArray))
		return writeTypeSig(w, ts, v.Elem)
	case graph.Array:
		w.byte(byte(types.ElementTypeArray))
		if err := writeTypeSig(w, ts, v.Elem); err != nil {
			return err
		}
		w.compressed(v.Rank)
		w.compressed(uint32(len(v.Sizes)))
		for _, s := range v.Sizes {
			w.compressed(s)
		}
		w.compressed(uint32(len(v.LoBounds)))
		for _, lo := range v.LoBounds {
			w.compressed(encodeSignedAsUnsigned(lo))
		}
		return nil
	case graph.GenericInst:
		w.byte(byte(types.ElementTypeGenericInst))
		if v.IsValueType {
			w.byte(byte(types.ElementTypeValueType))
		} else {
			w.byte(byte(types.ElementTypeClass))
		}
		if err := w.typeDefOrRef(ts, v.Generic); err != nil {
			return err
		}
		w.compressed(uint32(len(v.Args)))
		for _, a := range v.Args {
			if err := writeTypeSig(w, ts, a); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("sigwriter: unsupported TypeSig node %T", sig)
	}
}

// EncodeTypeSig serializes a single TypeSig to blob bytes.
func EncodeTypeSig(ts TokenService, sig graph.TypeSig) ([]byte, error) {
	w := &writer{}
	if err := writeTypeSig(w, ts, sig); err != nil {
		return nil, fmt.Errorf("sigwriter: encode type signature: %w", err)
	}
	return w.buf, nil
}

// EncodeFieldSig serializes a FIELD signature (ECMA-335 §II.23.2.4).
func EncodeFieldSig(ts TokenService, field graph.TypeSig) ([]byte, error) {
	w := &writer{}
	w.byte(byte(types.SigField))
	if err := writeTypeSig(w, ts, field); err != nil {
		return nil, fmt.Errorf("sigwriter: encode field signature: %w", err)
	}
	return w.buf, nil
}

// EncodeMethodSig serializes a method or call-site signature.
func EncodeMethodSig(ts TokenService, sig *graph.MethodSig) ([]byte, error) {
	w := &writer{}
	flags := byte(sig.CallConv)
	if sig.HasThis {
		flags |= byte(types.SigHasThis)
	}
	if sig.ExplicitThis {
		flags |= byte(types.SigExplicitThis)
	}
	if sig.GenParamCount > 0 {
		flags |= byte(types.SigGeneric)
	}
	w.byte(flags)
	if sig.GenParamCount > 0 {
		w.compressed(sig.GenParamCount)
	}
	w.compressed(uint32(len(sig.Params) + len(sig.VarArgParams)))
	if err := writeTypeSig(w, ts, sig.RetType); err != nil {
		return nil, fmt.Errorf("sigwriter: encode method return type: %w", err)
	}
	for _, p := range sig.Params {
		if err := writeSigParam(w, ts, p); err != nil {
			return nil, err
		}
	}
	if len(sig.VarArgParams) > 0 {
		w.byte(byte(types.ElementTypeSentinel))
		for _, p := range sig.VarArgParams {
			if err := writeSigParam(w, ts, p); err != nil {
				return nil, err
			}
		}
	}
	return w.buf, nil
}

func writeSigParam(w *writer, ts TokenService, p graph.SigParam) error {
	if p.ByRef {
		w.byte(byte(types.ElementTypeByRef))
	}
	if err := writeTypeSig(w, ts, p.Type); err != nil {
		return fmt.Errorf("sigwriter: encode parameter: %w", err)
	}
	return nil
}

// EncodePropertySig serializes a property signature (ECMA-335 §II.23.2.5).
func EncodePropertySig(ts TokenService, sig *graph.PropertySig) ([]byte, error) {
	w := &writer{}
	flags := byte(types.SigProperty)
	if sig.HasThis {
		flags |= byte(types.SigHasThis)
	}
	w.byte(flags)
	w.compressed(uint32(len(sig.Params)))
	if err := writeTypeSig(w, ts, sig.Type); err != nil {
		return nil, fmt.Errorf("sigwriter: encode property type: %w", err)
	}
	for _, p := range sig.Params {
		if err := writeTypeSig(w, ts, p); err != nil {
			return nil, fmt.Errorf("sigwriter: encode property parameter: %w", err)
		}
	}
	return w.buf, nil
}

// EncodeLocalVarSig serializes a local-variable signature
// (ECMA-335 §II.23.2.6), referenced by a StandAloneSig row.
func EncodeLocalVarSig(ts TokenService, sig *graph.LocalVarSig) ([]byte, error) {
	w := &writer{}
	w.byte(byte(types.SigLocalVar))
	w.compressed(uint32(len(sig.Locals)))
	for _, l := range sig.Locals {
		if l.Pinned {
			w.byte(byte(types.ElementTypePinned))
		}
		if l.ByRef {
			w.byte(byte(types.ElementTypeByRef))
		}
		if err := writeTypeSig(w, ts, l.Type); err != nil {
			return nil, fmt.Errorf("sigwriter: encode local variable: %w", err)
		}
	}
	return w.buf, nil
}

// EncodeGenericInstSig serializes a MethodSpec instantiation
// (ECMA-335 §II.23.2.15).
func EncodeGenericInstSig(ts TokenService, args []graph.TypeSig) ([]byte, error) {
	w := &writer{}
	w.byte(byte(types.SigGenericInst))
	w.compressed(uint32(len(args)))
	for _, a := range args {
		if err := writeTypeSig(w, ts, a); err != nil {
			return nil, fmt.Errorf("sigwriter: encode generic instantiation argument: %w", err)
		}
	}
	return w.buf, nil
}

// EncodeMemberRefSig serializes a MemberRef's signature, dispatching on
// which of the two shapes ECMA-335 §II.23.2.1/.4 allows it to take.
func EncodeMemberRefSig(ts TokenService, sig graph.MemberRefSig) ([]byte, error) {
	switch v := sig.(type) {
	case *graph.MethodSig:
		return EncodeMethodSig(ts, v)
	case graph.FieldRefSig:
		return EncodeFieldSig(ts, v.Type)
	default:
		return nil, fmt.Errorf("sigwriter: unsupported MemberRefSig %T", sig)
	}
}

// EncodeStandAloneSig serializes a StandAloneSig row's content,
// dispatching on whether it's a raw calli call site or a local-variable
// block (ECMA-335 §II.23.2.2/.6).
func EncodeStandAloneSig(ts TokenService, content graph.StandAloneSigContent) ([]byte, error) {
	switch v := content.(type) {
	case *graph.MethodSig:
		return EncodeMethodSig(ts, v)
	case *graph.LocalVarSig:
		return EncodeLocalVarSig(ts, v)
	default:
		return nil, fmt.Errorf("sigwriter: unsupported StandAloneSigContent %T", content)
	}
}
