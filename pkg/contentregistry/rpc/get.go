package rpc

import (
	"context"

	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/schema"
)

// NewGetProcedure wires the get procedure: retrieve one item of a registered
// content type, optionally at a requested API version.
func NewGetProcedure() (*Procedure, error) {
	input := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"id":            schema.Required(schema.String(schema.MinLen(1))),
		"version":       schema.Optional(schema.String(schema.Pattern(contentregistry.VersionPattern))),
		"options":       schema.Optional(schema.PlainObject()),
	})
	output := schema.Object(map[string]schema.Field{
		"contentTypeId": schema.Required(schema.String()),
		"item":          schema.Required(schema.PlainObject()),
	})
	return NewProcedure("get", input, output, getHandler)
}

func getHandler(ctx context.Context, rctx RequestContext, input map[string]any) (map[string]any, error) {
	req := decodeGetRequest(input)

	def, ok := rctx.Registry.Get(req.ContentTypeID)
	if !ok {
		return nil, &contentregistry.NotRegisteredError{ID: req.ContentTypeID}
	}

	version, err := contentregistry.Negotiate(req.Version, def.Latest)
	if err != nil {
		return nil, err
	}

	item, err := def.Storage.Get(ctx, version, req.ID, req.Options)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"contentTypeId": req.ContentTypeID,
		"item":          item,
	}, nil
}
