package clrmeta

import "fmt"

// ridRegistry maps a deduplicated entity (reference identity, e.g. a
// *graph.TypeRef pointer) to the RID its row was assigned. One instance
// per entity kind is held on the builder, mirroring the teacher's
// per-kind lookup tables in file.go (symbol/segment name indexes) but
// generalized with a type parameter instead of one struct per entity.
type ridRegistry[K comparable] struct {
	rids map[K]uint32
}

func newRIDRegistry[K comparable]() *ridRegistry[K] {
	return &ridRegistry[K]{rids: make(map[K]uint32)}
}

// tryGet reports whether entity already has an assigned RID.
func (r *ridRegistry[K]) tryGet(entity K) (uint32, bool) {
	rid, ok := r.rids[entity]
	return rid, ok
}

// insert installs entity's RID. It is a programmer error to insert the
// same entity twice; callers should tryGet first.
func (r *ridRegistry[K]) insert(entity K, rid uint32) error {
	if _, exists := r.rids[entity]; exists {
		return fmt.Errorf("clrmeta: entity already has an assigned RID")
	}
	r.rids[entity] = rid
	return nil
}

// set overwrites a tentative RID-0 placeholder (the cyclic-reference
// pattern from spec.md §9) with the entity's real, now-known RID.
func (r *ridRegistry[K]) set(entity K, rid uint32) {
	r.rids[entity] = rid
}
