package clrmeta

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appsworld/clrmeta/types"
)

// TestSortGenericParamRewritesConstraintOwners exercises the one
// cross-sorted-table rewrite SortAndRewrite performs: GenericParam rows
// get reordered by (Owner, Number), and GenericParamConstraint.Owner
// must follow the permutation.
func TestSortGenericParamRewritesConstraintOwners(t *testing.T) {
	s := NewTablesStore()
	// Insertion order deliberately out of (Owner, Number) order.
	s.Create(types.GenericParamRow{Owner: 2, Number: 0, Name: 10}) // -> RID 1, final RID 3
	s.Create(types.GenericParamRow{Owner: 1, Number: 1, Name: 11}) // -> RID 2, final RID 2
	s.Create(types.GenericParamRow{Owner: 1, Number: 0, Name: 12}) // -> RID 3, final RID 1
	s.Create(types.GenericParamConstraintRow{Owner: 3, Constraint: 0x99}) // points at old RID 3

	s.SortAndRewrite()

	got := s.Rows(types.GenericParam)
	want := []types.Row{
		types.GenericParamRow{Owner: 1, Number: 0, Name: 12},
		types.GenericParamRow{Owner: 1, Number: 1, Name: 11},
		types.GenericParamRow{Owner: 2, Number: 0, Name: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GenericParam rows after sort (-want +got):\n%s", diff)
	}

	gotConstraint := s.Row(types.GenericParamConstraint, 1).(types.GenericParamConstraintRow)
	if gotConstraint.Owner != 1 {
		t.Fatalf("GenericParamConstraint.Owner = %d, want 1 (old RID 3's new position)", gotConstraint.Owner)
	}
}

// TestSortInterfaceImplByClassThenInterface covers the two-column
// comparator: ties on Class break on Interface.
func TestSortInterfaceImplByClassThenInterface(t *testing.T) {
	s := NewTablesStore()
	s.Create(types.InterfaceImplRow{Class: 2, Interface: 5})
	s.Create(types.InterfaceImplRow{Class: 1, Interface: 9})
	s.Create(types.InterfaceImplRow{Class: 1, Interface: 3})

	s.SortAndRewrite()

	got := s.Rows(types.InterfaceImpl)
	want := []types.Row{
		types.InterfaceImplRow{Class: 1, Interface: 3},
		types.InterfaceImplRow{Class: 1, Interface: 9},
		types.InterfaceImplRow{Class: 2, Interface: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("InterfaceImpl rows after sort (-want +got):\n%s", diff)
	}
}
