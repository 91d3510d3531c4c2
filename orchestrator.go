package clrmeta

import "github.com/appsworld/clrmeta/graph"

// BuildOptions holds the preservation option bits (spec.md §4.7/§6).
// Options are data rather than the teacher's functional-option closures.
// Only the orchestrator reads them: any set bit selects PreservingBuilder,
// which seeds all four heaps and reserves RIDs the same way whichever
// bits are set; the individual bits are not distinguished.
type BuildOptions struct {
	PreserveTokens         bool
	PreserveStringsOffsets bool
	PreserveUSOffsets      bool
	PreserveBlobOffsets    bool
}

// preserving reports whether any preservation guarantee was requested,
// which is what decides which concrete builder Orchestrator picks.
func (o BuildOptions) preserving() bool {
	return o.PreserveTokens || o.PreserveStringsOffsets || o.PreserveUSOffsets || o.PreserveBlobOffsets
}

// builder is implemented by both NormalBuilder and PreservingBuilder.
type builder interface {
	Build(module *graph.Module) (*TablesStore, error)
	Strings() []byte
	UserStrings() []byte
	Guids() []byte
	Blobs() []byte
}

// Orchestrator is the entry point described by spec.md §4.8: it selects
// a builder by BuildOptions, optionally seeds it from a source module's
// surviving metadata, and exposes the finished tables and heaps once
// Build has run.
type Orchestrator struct {
	opts   BuildOptions
	source *graph.PreservedTables
	built  builder
	tables *TablesStore
}

// NewOrchestrator wires an orchestrator. source may be nil; it is only
// consulted when opts requests any preservation guarantee.
func NewOrchestrator(opts BuildOptions, source *graph.PreservedTables) *Orchestrator {
	return &Orchestrator{opts: opts, source: source}
}

// Build runs the selected builder over module. Calling Build twice on
// the same Orchestrator is a programmer error; the second call
// overwrites the first builder's result.
func (o *Orchestrator) Build(module *graph.Module) (*TablesStore, error) {
	var b builder
	if o.opts.preserving() {
		b = NewPreservingBuilder(o.source)
	} else {
		b = NewNormalBuilder()
	}
	tables, err := b.Build(module)
	if err != nil {
		return nil, err
	}
	o.built = b
	o.tables = tables
	return tables, nil
}

// Tables returns the tables store from the last successful Build call,
// or nil if Build has not been called yet.
func (o *Orchestrator) Tables() *TablesStore {
	return o.tables
}

// Strings, UserStrings, Guids, and Blobs expose the finished heap bytes
// after Build returns.
func (o *Orchestrator) Strings() []byte     { return o.built.Strings() }
func (o *Orchestrator) UserStrings() []byte { return o.built.UserStrings() }
func (o *Orchestrator) Guids() []byte       { return o.built.Guids() }
func (o *Orchestrator) Blobs() []byte       { return o.built.Blobs() }
