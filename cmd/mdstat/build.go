package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/appsworld/clrmeta"
	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a sample module graph and print row/heap statistics",
	RunE:  runBuild,
}

// sampleModule constructs a tiny but representative module graph: one
// assembly, one class with a field, a property backed by get/set
// methods, and a constant-valued second field — enough to exercise the
// contiguous FieldList/MethodList ranges and the MethodSemantics pass.
func sampleModule() (*graph.Module, error) {
	intSig := graph.Primitive{Elem: types.ElementTypeI4}
	strSig := graph.Primitive{Elem: types.ElementTypeString}
	getterSig := &graph.MethodSig{
		HasThis:  true,
		CallConv: types.SigDefault,
		RetType:  graph.Primitive{Elem: types.ElementTypeI4},
	}
	setterSig := &graph.MethodSig{
		HasThis:  true,
		CallConv: types.SigDefault,
		RetType:  graph.Primitive{Elem: types.ElementTypeVoid},
		Params:   []graph.SigParam{{Type: graph.Primitive{Elem: types.ElementTypeI4}}},
	}
	propSig := &graph.PropertySig{
		HasThis: true,
		Type:    graph.Primitive{Elem: types.ElementTypeI4},
	}

	getter := &graph.Method{
		Flags:     uint16(types.MethodPublic | types.MethodSpecialName),
		Name:      "get_Count",
		Signature: getterSig,
	}
	setter := &graph.Method{
		Flags:     uint16(types.MethodPublic | types.MethodSpecialName),
		Name:      "set_Count",
		Signature: setterSig,
		Params: []*graph.Param{
			{Flags: uint16(types.ParamIn), Sequence: 1, Name: "value"},
		},
	}

	widget := &graph.TypeDef{
		Flags:     uint32(types.TypePublic | types.TypeClass | types.TypeBeforeFieldInit),
		Namespace: "Sample",
		Name:      "Widget",
		Fields: []*graph.Field{
			{Flags: uint16(types.FieldPrivate), Name: "count", Signature: intSig},
			{Flags: uint16(types.FieldPublic | types.FieldLiteral | types.FieldHasDefault),
				Name: "DefaultName", Signature: strSig,
				Constant: &graph.Constant{Type: byte(types.ElementTypeString), Value: "widget"}},
		},
		Methods: []*graph.Method{getter, setter},
		Properties: []*graph.Property{
			{Flags: uint16(types.PropertySpecialName), Name: "Count", Signature: propSig, Getter: getter, Setter: setter},
		},
	}

	module := &graph.Module{
		Name: "Sample.dll",
		Mvid: uuid.New(),
		Globals: &graph.TypeDef{
			Flags: uint32(types.TypePublic),
			Name:  "<Module>",
		},
		Types: []*graph.TypeDef{widget},
		Assembly: &graph.Assembly{
			HashAlgID: uint32(types.AssemblyHashSHA1),
			Name:      "Sample",
		},
	}
	return module, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	maybeEnableLogging()

	module, err := sampleModule()
	if err != nil {
		return fmt.Errorf("build sample graph: %w", err)
	}

	orch := clrmeta.NewOrchestrator(clrmeta.BuildOptions{}, nil)
	tables, err := orch.Build(module)
	if err != nil {
		return fmt.Errorf("build metadata: %w", err)
	}

	printTableCounts(tables)
	fmt.Println()
	fmt.Printf("#Strings: %d bytes\n", len(orch.Strings()))
	fmt.Printf("#US:      %d bytes\n", len(orch.UserStrings()))
	fmt.Printf("#Guid:    %d bytes\n", len(orch.Guids()))
	fmt.Printf("#Blob:    %d bytes\n", len(orch.Blobs()))
	return nil
}

func printTableCounts(tables *clrmeta.TablesStore) {
	ids := []types.TableID{
		types.Module, types.TypeRef, types.TypeDef, types.Field, types.MethodDef,
		types.Param, types.InterfaceImpl, types.MemberRef, types.Constant,
		types.CustomAttribute, types.FieldMarshal, types.DeclSecurity,
		types.ClassLayout, types.FieldLayout, types.StandAloneSig, types.EventMap,
		types.Event, types.PropertyMap, types.Property, types.MethodSemantics,
		types.MethodImpl, types.ModuleRef, types.TypeSpec, types.ImplMap,
		types.FieldRVA, types.Assembly, types.AssemblyRef, types.File,
		types.ExportedType, types.ManifestResource, types.NestedClass,
		types.GenericParam, types.MethodSpec, types.GenericParamConstraint,
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if n := tables.RowCount(id); n > 0 {
			fmt.Printf("%-18s %d\n", id.String(), n)
		}
	}
}
