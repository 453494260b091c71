package rpc

// Request DTOs decoded from schema-validated wire input. Decoding happens
// after validation, so type assertions here are guarded but never expected
// to fail on well-formed input.

// GetRequest contains parameters for the get procedure
type GetRequest struct {
	ContentTypeID string
	ID            string
	Version       string
	Options       map[string]any
}

// CreateRequest contains parameters for the create procedure
type CreateRequest struct {
	ContentTypeID string
	ID            string
	Version       string
	Fields        map[string]any
}

// UpdateRequest contains parameters for the update procedure
type UpdateRequest struct {
	ContentTypeID string
	ID            string
	Version       string
	Fields        map[string]any
}

// DeleteRequest contains parameters for the delete procedure
type DeleteRequest struct {
	ContentTypeID string
	ID            string
	Version       string
}

func stringAt(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

func objectAt(input map[string]any, key string) map[string]any {
	obj, _ := input[key].(map[string]any)
	return obj
}

func decodeGetRequest(input map[string]any) GetRequest {
	return GetRequest{
		ContentTypeID: stringAt(input, "contentTypeId"),
		ID:            stringAt(input, "id"),
		Version:       stringAt(input, "version"),
		Options:       objectAt(input, "options"),
	}
}

func decodeCreateRequest(input map[string]any) CreateRequest {
	return CreateRequest{
		ContentTypeID: stringAt(input, "contentTypeId"),
		ID:            stringAt(input, "id"),
		Version:       stringAt(input, "version"),
		Fields:        objectAt(input, "fields"),
	}
}

func decodeUpdateRequest(input map[string]any) UpdateRequest {
	return UpdateRequest{
		ContentTypeID: stringAt(input, "contentTypeId"),
		ID:            stringAt(input, "id"),
		Version:       stringAt(input, "version"),
		Fields:        objectAt(input, "fields"),
	}
}

func decodeDeleteRequest(input map[string]any) DeleteRequest {
	return DeleteRequest{
		ContentTypeID: stringAt(input, "contentTypeId"),
		ID:            stringAt(input, "id"),
		Version:       stringAt(input, "version"),
	}
}
