package store

import (
	"context"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/models"
)

// phaser is a slice that can enter the pending and rejected phases.
type phaser interface {
	begin(op Op)
	fail(op Op, err error)
}

// Dispatch runs one action through its lifecycle: pending, the call, then
// fulfill on success or rejected on failure. It returns the call's outcome,
// with any error normalised to *api.Failure.
func Dispatch[R any](p phaser, op Op, call func() (R, error), fulfill func(R)) (R, error) {
	p.begin(op)
	res, err := call()
	if err != nil {
		f := api.AsFailure(err)
		p.fail(op, f)
		return res, f
	}
	fulfill(res)
	return res, nil
}

// Collection binds a resource's actions to its slice.
type Collection[T models.Record] struct {
	*Slice[T]
	res *actions.Resource[T]
}

// NewCollection creates the slice for res.
func NewCollection[T models.Record](res *actions.Resource[T], messages Messages, publish func(Action)) *Collection[T] {
	return &Collection[T]{
		Slice: NewSlice[T](res.Name(), messages, publish),
		res:   res,
	}
}

// Paginated reports whether the underlying list is server-paginated.
func (c *Collection[T]) Paginated() bool {
	return c.res.Paginated()
}

// Create dispatches a create.
func (c *Collection[T]) Create(ctx context.Context, body api.Body) (actions.Mutation[T], error) {
	return Dispatch(c.Slice, OpCreate,
		func() (actions.Mutation[T], error) { return c.res.Create(ctx, body) },
		func(m actions.Mutation[T]) { c.fulfillMutation(OpCreate, m) })
}

// List dispatches a list fetch, replacing the collection on success.
func (c *Collection[T]) List(ctx context.Context, params actions.ListParams) (actions.Page[T], error) {
	return Dispatch(c.Slice, OpList,
		func() (actions.Page[T], error) { return c.res.List(ctx, params) },
		c.fulfillList)
}

// Get dispatches a single-record fetch into Current.
func (c *Collection[T]) Get(ctx context.Context, id string) (actions.Item[T], error) {
	return Dispatch(c.Slice, OpGet,
		func() (actions.Item[T], error) { return c.res.Get(ctx, id) },
		c.fulfillGet)
}

// Update dispatches an update.
func (c *Collection[T]) Update(ctx context.Context, id string, body api.Body) (actions.Mutation[T], error) {
	return Dispatch(c.Slice, OpUpdate,
		func() (actions.Mutation[T], error) { return c.res.Update(ctx, id, body) },
		func(m actions.Mutation[T]) { c.fulfillMutation(OpUpdate, m) })
}

// Delete dispatches a delete. The collection is left as is; callers re-fetch.
func (c *Collection[T]) Delete(ctx context.Context, id string) (actions.Mutation[T], error) {
	return Dispatch(c.Slice, OpDelete,
		func() (actions.Mutation[T], error) { return c.res.Delete(ctx, id) },
		func(m actions.Mutation[T]) { c.fulfillMutation(OpDelete, m) })
}
