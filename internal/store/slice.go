// Package store holds the in-memory client state: one slice per resource,
// plus the authentication, language and dashboard slices.
//
// Every action goes through the same lifecycle: pending, then fulfilled or
// rejected. Transitions are the only writers of slice state and each one is
// published to the store's dispatch listeners.
package store

import (
	"encoding/json"
	"sync"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/models"
)

// Op names an action within a slice.
type Op string

const (
	OpCreate Op = "create"
	OpList   Op = "list"
	OpGet    Op = "get"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpLogin  Op = "login"
	OpLogout Op = "logout"
	OpChange Op = "change"
)

// Phase is the lifecycle step of an action.
type Phase string

const (
	Pending   Phase = "pending"
	Fulfilled Phase = "fulfilled"
	Rejected  Phase = "rejected"
)

// Action is a published phase transition, e.g. banner/delete/fulfilled.
type Action struct {
	Slice string
	Op    Op
	Phase Phase
	Err   error
}

// Type renders the action as "slice/op/phase".
func (a Action) Type() string {
	return a.Slice + "/" + string(a.Op) + "/" + string(a.Phase)
}

// Messages are the fixed success strings per mutating op.
type Messages map[Op]string

// State is a snapshot of a resource slice.
type State[T any] struct {
	Items      []T
	Pagination *models.Pagination
	Current    *T
	Last       json.RawMessage
	Loading    bool
	Err        error
	Message    string
}

// Slice is the state container for one resource type.
type Slice[T any] struct {
	name     string
	messages Messages
	publish  func(Action)

	mu    sync.RWMutex
	state State[T]

	subMu   sync.Mutex
	subs    map[int]func(State[T])
	nextSub int
}

// NewSlice creates an empty slice. publish may be nil.
func NewSlice[T any](name string, messages Messages, publish func(Action)) *Slice[T] {
	if publish == nil {
		publish = func(Action) {}
	}
	return &Slice[T]{
		name:     name,
		messages: messages,
		publish:  publish,
		subs:     make(map[int]func(State[T])),
	}
}

// Name returns the slice name used in action types.
func (s *Slice[T]) Name() string {
	return s.name
}

// State returns a copy of the current state.
func (s *Slice[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// snapshot copies state. Caller holds mu.
func (s *Slice[T]) snapshot() State[T] {
	st := s.state
	if st.Items != nil {
		st.Items = append([]T(nil), st.Items...)
	}
	if st.Current != nil {
		cur := *st.Current
		st.Current = &cur
	}
	if st.Pagination != nil {
		pg := *st.Pagination
		st.Pagination = &pg
	}
	return st
}

// Subscribe registers fn to run after every transition. The returned func unsubscribes.
func (s *Slice[T]) Subscribe(fn func(State[T])) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Reset clears the last payload, current record, error and message.
// The collection is kept.
func (s *Slice[T]) Reset() {
	s.mutate(func(st *State[T]) {
		st.Last = nil
		st.Current = nil
		st.Err = nil
		st.Message = ""
	})
}

// ClearMessage clears the message and error once a view has shown them.
func (s *Slice[T]) ClearMessage() {
	s.mutate(func(st *State[T]) {
		st.Err = nil
		st.Message = ""
	})
}

func (s *Slice[T]) begin(op Op) {
	s.mutate(func(st *State[T]) {
		st.Loading = true
		st.Err = nil
		st.Message = ""
	})
	s.publish(Action{Slice: s.name, Op: op, Phase: Pending})
}

func (s *Slice[T]) fail(op Op, err error) {
	s.mutate(func(st *State[T]) {
		st.Loading = false
		st.Err = err
		st.Message = ""
	})
	s.publish(Action{Slice: s.name, Op: op, Phase: Rejected, Err: err})
}

func (s *Slice[T]) succeed(op Op, apply func(st *State[T])) {
	s.mutate(func(st *State[T]) {
		st.Loading = false
		st.Err = nil
		st.Message = s.messages[op]
		apply(st)
	})
	s.publish(Action{Slice: s.name, Op: op, Phase: Fulfilled})
}

func (s *Slice[T]) fulfillList(p actions.Page[T]) {
	s.succeed(OpList, func(st *State[T]) {
		st.Items = append([]T(nil), p.Items...)
		st.Pagination = p.Pagination
		st.Last = p.Raw
	})
}

func (s *Slice[T]) fulfillGet(it actions.Item[T]) {
	s.succeed(OpGet, func(st *State[T]) {
		v := it.Value
		st.Current = &v
		st.Last = it.Raw
	})
}

func (s *Slice[T]) fulfillMutation(op Op, m actions.Mutation[T]) {
	s.succeed(op, func(st *State[T]) {
		st.Last = m.Raw
		if m.Item == nil {
			return
		}
		v := *m.Item
		switch op {
		case OpCreate:
			st.Current = &v
			st.Items = append(st.Items, v)
		case OpUpdate:
			st.Current = &v
		}
	})
}

// mutate applies fn under the lock, then notifies subscribers with the new state.
func (s *Slice[T]) mutate(fn func(st *State[T])) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
