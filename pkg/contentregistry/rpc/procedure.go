// Package rpc defines the schema-validated procedures exposed on top of a
// content registry.
//
// Every procedure call follows one direction: input validation, registry
// lookup, version negotiation, storage adapter invocation, output shaping and
// validation. A step failure aborts the whole call with a single error; no
// retries, no partial effects.
package rpc

import (
	"context"
	"fmt"
	"sort"

	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/schema"
)

// RequestContext carries per-call dependencies into a procedure. It is
// transient and holds no request-scoped mutable state.
type RequestContext struct {
	// Registry is the read-only content registry resolved against.
	Registry *contentregistry.Registry
}

// HandlerFunc is the body of a procedure. Input has already passed the input
// schema; the returned value is validated against the output schema by Call.
type HandlerFunc func(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error)

// Procedure is a single named, schema-validated operation.
type Procedure struct {
	name   string
	input  schema.Schema
	output schema.Schema
	fn     HandlerFunc
}

// NewProcedure wires a procedure. A missing name, schema, or handler is a
// startup configuration error: the system must not start with an
// incompletely wired procedure, so construction fails immediately.
func NewProcedure(name string, input, output schema.Schema, fn HandlerFunc) (*Procedure, error) {
	if name == "" {
		return nil, fmt.Errorf("procedure name is required")
	}
	if input.IsZero() {
		return nil, fmt.Errorf("procedure %q: input schema is required", name)
	}
	if output.IsZero() {
		return nil, fmt.Errorf("procedure %q: output schema is required", name)
	}
	if fn == nil {
		return nil, fmt.Errorf("procedure %q: handler is required", name)
	}
	return &Procedure{name: name, input: input, output: output, fn: fn}, nil
}

// Name returns the procedure name.
func (p *Procedure) Name() string {
	return p.name
}

// Call validates input, runs the handler, and validates the response shape
// before returning it.
func (p *Procedure) Call(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error) {
	if err := p.input.Validate(input); err != nil {
		return nil, err
	}

	out, err := p.fn(ctx, rctx, input)
	if err != nil {
		return nil, err
	}

	if err := p.output.Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

// Procedures is the set of named procedures exposed by the RPC layer.
type Procedures struct {
	byName map[string]*Procedure
}

// NewProcedures builds the full procedure set (get, create, update, delete).
// Any wiring error is fatal and surfaces here.
func NewProcedures() (*Procedures, error) {
	set := &Procedures{byName: make(map[string]*Procedure)}

	build := []func() (*Procedure, error){
		NewGetProcedure,
		NewCreateProcedure,
		NewUpdateProcedure,
		NewDeleteProcedure,
	}
	for _, b := range build {
		p, err := b()
		if err != nil {
			return nil, err
		}
		set.byName[p.Name()] = p
	}

	return set, nil
}

// Lookup returns the procedure registered under name.
func (p *Procedures) Lookup(name string) (*Procedure, bool) {
	proc, ok := p.byName[name]
	return proc, ok
}

// Names returns the procedure names in sorted order.
func (p *Procedures) Names() []string {
	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
