// Package form owns a single form instance: its state store, compiled
// validator, active tab and submit lifecycle.
package form

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/tabs"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Phase is the submit state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	default:
		return "unknown"
	}
}

// SubmitFunc receives valid form data and a handle that mutates the form's
// store, e.g. to clear it after a remote save.
type SubmitFunc func(data state.State, mutate state.Mutate)

// Controller processes form events sequentially. It is not safe for
// concurrent use.
type Controller struct {
	fields    []model.Field
	initial   state.State
	store     *state.Store
	validator *validation.Validator
	errors    validation.ErrorMap
	phase     Phase
	tracker   tabs.Tracker
	onSubmit  SubmitFunc

	logger     *zap.Logger
	bindOpts   render.Options
	newID      func() string
	submission string
}

var _ render.Mutator = (*Controller)(nil)

// New builds a controller for fields seeded with initial values. The
// validator is compiled once here and reused by every Submit.
func New(fields []model.Field, initial map[string]any, onSubmit SubmitFunc, opts ...Option) *Controller {
	c := &Controller{
		fields:   cloneFields(fields),
		initial:  state.New(initial),
		errors:   validation.ErrorMap{},
		onSubmit: onSubmit,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.store = state.NewStore(c.initial)
	c.validator = validation.Compile(c.fields, validation.WithLogger(c.logger))
	return c
}

func cloneFields(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	for idx, field := range fields {
		out[idx] = field.Clone()
	}
	return out
}

// State returns the current snapshot.
func (c *Controller) State() state.State { return c.store.Current() }

// Version counts applied state transitions.
func (c *Controller) Version() uint64 { return c.store.Version() }

// Errors returns a copy of the errors from the last submit.
func (c *Controller) Errors() validation.ErrorMap { return c.errors.Clone() }

// ErrorFor returns the message recorded for path by the last submit.
func (c *Controller) ErrorFor(path string) string { return c.errors.Get(path) }

// Phase reports the submit phase.
func (c *Controller) Phase() Phase { return c.phase }

// Fields returns a copy of the descriptors.
func (c *Controller) Fields() []model.Field { return cloneFields(c.fields) }

// Submission returns the id of the most recent submit, or "".
func (c *Controller) Submission() string { return c.submission }

// Subscribe registers a listener for state transitions.
func (c *Controller) Subscribe(listener state.Listener) { c.store.Subscribe(listener) }

// Mutate returns the handle passed to submit callbacks.
func (c *Controller) Mutate() state.Mutate { return c.store.Mutator() }

func (c *Controller) field(key string) (model.Field, bool) {
	for _, field := range c.fields {
		if field.Key == key {
			return field, true
		}
	}
	return model.Field{}, false
}

// SetValue replaces the top-level value for key.
func (c *Controller) SetValue(key string, value any) {
	c.store.Update(func(s state.State) state.State { return s.SetScalar(key, value) })
}

// SetEntry replaces the record at index of the repeatable value for key.
func (c *Controller) SetEntry(key string, index int, record state.Record) {
	c.store.Update(func(s state.State) state.State { return s.SetEntry(key, index, record) })
}

// SetEntryField merges {nested: value} into the record at index.
func (c *Controller) SetEntryField(key string, index int, nested string, value any) {
	c.store.Update(func(s state.State) state.State { return s.SetEntryField(key, index, nested, value) })
}

// AddEntry appends an empty record to the repeatable group key. It returns
// false, leaving state untouched, when key is not an addable group.
func (c *Controller) AddEntry(key string) bool {
	field, ok := c.field(key)
	if !ok || !visibility.Addable(field, c.State()) {
		c.logger.Debug("add entry refused", zap.String("key", key))
		return false
	}
	c.store.Update(func(s state.State) state.State { return s.AddEntry(key) })
	return true
}

// RemoveEntry deletes the record at index. It returns false when key is not a
// deletable group or index is out of range.
func (c *Controller) RemoveEntry(key string, index int) bool {
	field, ok := c.field(key)
	current := c.State()
	if !ok || !visibility.Deletable(field, current) || index < 0 || index >= current.Len(key) {
		c.logger.Debug("remove entry refused", zap.String("key", key), zap.Int("index", index))
		return false
	}
	c.store.Update(func(s state.State) state.State { return s.RemoveEntry(key, index) })
	return true
}

// Reset replaces state with initial, or with the values the controller was
// created with when initial is nil. Errors and the active tab are cleared.
func (c *Controller) Reset(initial map[string]any) {
	next := c.initial
	if initial != nil {
		next = state.New(initial)
	}
	c.store.Replace(next)
	c.errors = validation.ErrorMap{}
	c.tracker.Reset()
}

// Submit validates the current state. On failure it records the errors and
// returns false without calling the submit callback. On success it clears
// the errors, returns to idle and calls the callback exactly once.
func (c *Controller) Submit() bool {
	id := c.newID()
	c.submission = id
	logger := c.logger.With(zap.String("submission", id))

	c.phase = PhaseValidating
	c.errors = validation.ErrorMap{}
	data := c.store.Current()
	errs := c.validator.Validate(data)
	c.phase = PhaseIdle

	if !errs.Empty() {
		c.errors = errs
		logger.Info("submit rejected", zap.Int("errors", errs.Len()))
		return false
	}

	logger.Info("submit accepted", zap.Uint64("version", c.store.Version()))
	if c.onSubmit != nil {
		c.onSubmit(data, c.store.Mutator())
	}
	return true
}
