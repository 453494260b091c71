package rpc

import (
	"context"

	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/schema"
)

// The mutation procedures share the get procedure's pipeline: validate,
// resolve, negotiate, delegate, shape. Only the adapter method differs.

// NewCreateProcedure wires the create procedure. An absent id asks the
// storage adapter to generate one.
func NewCreateProcedure() (*Procedure, error) {
	input := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"id":            schema.Optional(schema.String(schema.MinLen(1))),
		"version":       schema.Optional(schema.String(schema.Pattern(contentregistry.VersionPattern))),
		"fields":        schema.Required(schema.PlainObject()),
	})
	output := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"item":          schema.Required(schema.PlainObject()),
	})
	return NewProcedure("create", input, output, createHandler)
}

func createHandler(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error) {
	req := decodeCreateRequest(input)

	def, ok := rctx.Registry.Get(req.ContentTypeID)
	if !ok {
		return nil, &contentregistry.NotRegisteredError{ID: req.ContentTypeID}
	}

	version, err := contentregistry.Negotiate(req.Version, def.Latest)
	if err != nil {
		return nil, err
	}

	item, err := def.Storage.Create(ctx, version, req.ID, req.Fields)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"contentTypeId": req.ContentTypeID,
		"item":          item,
	}, nil
}

// NewUpdateProcedure wires the update procedure.
func NewUpdateProcedure() (*Procedure, error) {
	input := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"id":            schema.Required(schema.String(schema.MinLen(1))),
		"version":       schema.Optional(schema.String(schema.Pattern(contentregistry.VersionPattern))),
		"fields":        schema.Required(schema.PlainObject()),
	})
	output := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"item":          schema.Required(schema.PlainObject()),
	})
	return NewProcedure("update", input, output, updateHandler)
}

func updateHandler(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error) {
	req := decodeUpdateRequest(input)

	def, ok := rctx.Registry.Get(req.ContentTypeID)
	if !ok {
		return nil, &contentregistry.NotRegisteredError{ID: req.ContentTypeID}
	}

	version, err := contentregistry.Negotiate(req.Version, def.Latest)
	if err != nil {
		return nil, err
	}

	item, err := def.Storage.Update(ctx, version, req.ID, req.Fields)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"contentTypeId": req.ContentTypeID,
		"item":          item,
	}, nil
}

// NewDeleteProcedure wires the delete procedure.
func NewDeleteProcedure() (*Procedure, error) {
	input := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"id":            schema.Required(schema.String(schema.MinLen(1))),
		"version":       schema.Optional(schema.String(schema.Pattern(contentregistry.VersionPattern))),
	})
	output := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"id":            schema.Required(schema.String()),
	})
	return NewProcedure("delete", input, output, deleteHandler)
}

func deleteHandler(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error) {
	req := decodeDeleteRequest(input)

	def, ok := rctx.Registry.Get(req.ContentTypeID)
	if !ok {
		return nil, &contentregistry.NotRegisteredError{ID: req.ContentTypeID}
	}

	version, err := contentregistry.Negotiate(req.Version, def.Latest)
	if err != nil {
		return nil, err
	}

	if err := def.Storage.Delete(ctx, version, req.ID); err != nil {
		return nil, err
	}

	return map[string]any{
		"contentTypeId": req.ContentTypeID,
		"id":            req.ID,
	}, nil
}
