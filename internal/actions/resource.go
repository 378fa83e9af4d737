// Package actions wraps each admin API call in a one-shot action.
//
// An action performs exactly one request and returns either the server's
// body (alongside a schema-checked typed view of it) or a *api.Failure.
// Actions never touch shared state; the store package listens to them.
package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/models"
)

// Endpoints maps operations to paths. Paths for get, update and delete
// take the record identifier as their single %s verb.
type Endpoints struct {
	Create string
	List   string
	Get    string
	Update string
	Delete string
}

// ListParams are optional pagination parameters. Zero values mean "not sent"
// unless the resource has default paging.
type ListParams struct {
	Page  int
	Limit int
}

// Page is a decoded list response.
type Page[T any] struct {
	Items      []T
	Pagination *models.Pagination
	Raw        json.RawMessage
}

// Item is a decoded single-record response.
type Item[T any] struct {
	Value T
	Raw   json.RawMessage
}

// Mutation is a decoded create/update/delete response. Item is set only when
// the server nested the record under the resource's singular key.
type Mutation[T any] struct {
	Item    *T
	Message string
	Raw     json.RawMessage
}

// Resource is the action group for one resource type.
type Resource[T models.Record] struct {
	client      *api.Client
	name        string
	singular    string
	plural      string
	endpoints   Endpoints
	defaultPage ListParams
}

// Name returns the resource name used in action types, e.g. "banner".
func (r *Resource[T]) Name() string {
	return r.name
}

// Paginated reports whether list calls always carry page parameters.
func (r *Resource[T]) Paginated() bool {
	return r.defaultPage.Limit > 0
}

// Create posts a new record.
func (r *Resource[T]) Create(ctx context.Context, body api.Body) (Mutation[T], error) {
	raw, err := r.client.Post(ctx, r.endpoints.Create, body)
	if err != nil {
		return Mutation[T]{}, err
	}
	return r.decodeMutation(raw)
}

// List fetches the collection.
func (r *Resource[T]) List(ctx context.Context, params ListParams) (Page[T], error) {
	raw, err := r.client.Get(ctx, r.endpoints.List, r.query(params))
	if err != nil {
		return Page[T]{}, err
	}
	return r.decodePage(raw)
}

// Get fetches one record by identifier.
func (r *Resource[T]) Get(ctx context.Context, id string) (Item[T], error) {
	raw, err := r.client.Get(ctx, r.path(r.endpoints.Get, id), nil)
	if err != nil {
		return Item[T]{}, err
	}
	return r.decodeItem(raw)
}

// Update replaces fields of the record with the given identifier.
func (r *Resource[T]) Update(ctx context.Context, id string, body api.Body) (Mutation[T], error) {
	raw, err := r.client.Put(ctx, r.path(r.endpoints.Update, id), body)
	if err != nil {
		return Mutation[T]{}, err
	}
	return r.decodeMutation(raw)
}

// Delete removes the record with the given identifier.
func (r *Resource[T]) Delete(ctx context.Context, id string) (Mutation[T], error) {
	raw, err := r.client.Delete(ctx, r.path(r.endpoints.Delete, id))
	if err != nil {
		return Mutation[T]{}, err
	}
	return r.decodeMutation(raw)
}

func (r *Resource[T]) path(pattern, id string) string {
	return fmt.Sprintf(pattern, url.PathEscape(id))
}

func (r *Resource[T]) query(params ListParams) url.Values {
	if params.Page <= 0 {
		params.Page = r.defaultPage.Page
	}
	if params.Limit <= 0 {
		params.Limit = r.defaultPage.Limit
	}
	if params.Page <= 0 && params.Limit <= 0 {
		return nil
	}
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	return q
}

// =============================================================================
// Response schemas
// =============================================================================

func (r *Resource[T]) decodePage(raw json.RawMessage) (Page[T], error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return Page[T]{}, err
	}

	items, ok := env["data"]
	if !ok || isNull(items) {
		items, ok = env[r.plural]
	}
	if !ok || isNull(items) {
		return Page[T]{}, api.NewMalformedFailure(raw, "%s list: response has neither data nor %s", r.name, r.plural)
	}

	var list []T
	if err := json.Unmarshal(items, &list); err != nil {
		return Page[T]{}, api.NewMalformedFailure(raw, "%s list: %v", r.name, err)
	}
	for i, item := range list {
		if err := item.Validate(); err != nil {
			return Page[T]{}, api.NewMalformedFailure(raw, "%s list item %d: %v", r.name, i, err)
		}
	}
	if list == nil {
		list = []T{}
	}

	page := Page[T]{Items: list, Raw: raw}
	if p, ok := env["pagination"]; ok && !isNull(p) {
		var pg models.Pagination
		if err := json.Unmarshal(p, &pg); err != nil {
			return Page[T]{}, api.NewMalformedFailure(raw, "%s list pagination: %v", r.name, err)
		}
		page.Pagination = &pg
	}
	return page, nil
}

func (r *Resource[T]) decodeItem(raw json.RawMessage) (Item[T], error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return Item[T]{}, err
	}

	body := json.RawMessage(raw)
	if v, ok := env["data"]; ok && !isNull(v) {
		body = v
	} else if v, ok := env[r.singular]; ok && !isNull(v) {
		body = v
	}

	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return Item[T]{}, api.NewMalformedFailure(raw, "%s: %v", r.name, err)
	}
	if err := value.Validate(); err != nil {
		return Item[T]{}, api.NewMalformedFailure(raw, "%s: %v", r.name, err)
	}
	return Item[T]{Value: value, Raw: raw}, nil
}

func (r *Resource[T]) decodeMutation(raw json.RawMessage) (Mutation[T], error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return Mutation[T]{}, err
	}

	m := Mutation[T]{Raw: raw, Message: stringField(env, "message")}
	if v, ok := env[r.singular]; ok && !isNull(v) {
		var value T
		if err := json.Unmarshal(v, &value); err != nil {
			return Mutation[T]{}, api.NewMalformedFailure(raw, "%s: %v", r.name, err)
		}
		if err := value.Validate(); err != nil {
			return Mutation[T]{}, api.NewMalformedFailure(raw, "%s: %v", r.name, err)
		}
		m.Item = &value
	}
	return m, nil
}

// decodeEnvelope requires a JSON object and turns an explicit success:false into a server failure.
func decodeEnvelope(raw json.RawMessage) (map[string]json.RawMessage, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		return nil, api.NewMalformedFailure(raw, "expected a JSON object")
	}
	if v, ok := env["success"]; ok {
		var success bool
		if err := json.Unmarshal(v, &success); err == nil && !success {
			return nil, api.NewServerFailure(200, raw)
		}
	}
	return env, nil
}

func stringField(env map[string]json.RawMessage, key string) string {
	v, ok := env[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

func isNull(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}
