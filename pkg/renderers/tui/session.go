// Package tui drives a form.Controller from the terminal. A Session prompts
// every visible field in layout order, submits, and re-prompts only the
// fields that failed validation until the submit succeeds.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/rules"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Session is a terminal presentation layer for one form.
type Session struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	renderers         *render.Registry
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            *zap.Logger
}

// New constructs a session with defaults (survey driver, JSON output).
func New(options ...Option) (*Session, error) {
	s := &Session{
		outputFormat: OutputFormatJSON,
		renderers:    render.DefaultRegistry(),
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if !s.renderers.Has(string(s.outputFormat)) {
		return nil, fmt.Errorf("tui: unknown output format %q", s.outputFormat)
	}
	return s, nil
}

// Name reports the session identifier.
func (s *Session) Name() string {
	return "tui"
}

// ContentType reports the media type Run produces.
func (s *Session) ContentType() string {
	r, err := s.renderers.Get(string(s.outputFormat))
	if err != nil {
		return ""
	}
	return r.ContentType()
}

// Run collects values for c, submits it and returns the serialised snapshot
// that passed validation.
func (s *Session) Run(ctx context.Context, c *form.Controller) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if c == nil {
		return nil, errors.New("tui: controller is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.fill(ctx, c); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		data := c.State()
		if c.Submit() {
			s.logger.Debug("session submitted", zap.String("submission", c.Submission()), zap.Int("attempts", attempt))
			if s.submitTransformer != nil {
				var err error
				if data, err = s.submitTransformer(data); err != nil {
					return nil, fmt.Errorf("tui: submit transformer: %w", err)
				}
			}
			renderer, err := s.renderers.Get(string(s.outputFormat))
			if err != nil {
				return nil, fmt.Errorf("tui: %w", err)
			}
			return renderer.Render(ctx, data)
		}

		errs := c.Errors()
		if s.maxAttempts > 0 && attempt >= s.maxAttempts {
			return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, strings.Join(errs.Paths(), ", "))
		}
		for _, path := range errs.Paths() {
			if err := s.info(ctx, s.theme.ErrorPrefix+path+": "+errs.Get(path)); err != nil {
				return nil, err
			}
		}
		if err := s.correct(ctx, c); err != nil {
			return nil, err
		}
	}
}

// fill prompts every visible field once. The layout is recomputed after each
// prompt so fields revealed by an answer are still visited.
func (s *Session) fill(ctx context.Context, c *form.Controller) error {
	prompted := map[string]bool{}
	current := ""
	for {
		key, tab, ok := nextField(c, prompted)
		if !ok {
			return nil
		}
		prompted[key] = true

		if tab != "" && tab != current {
			current = tab
			c.SelectTab(tab)
			if err := s.info(ctx, s.theme.InfoPrefix+"== "+tab+" =="); err != nil {
				return err
			}
		}
		b, ok := bind(c, key)
		if !ok {
			continue
		}
		if err := s.promptBinding(ctx, c, b); err != nil {
			return err
		}
	}
}

func nextField(c *form.Controller, prompted map[string]bool) (string, string, bool) {
	layout := c.Layout()
	for _, field := range layout.Untabbed {
		if !prompted[field.Key] {
			return field.Key, "", true
		}
	}
	for _, group := range layout.Tabs {
		for _, field := range group.Fields {
			if !prompted[field.Key] {
				return field.Key, group.Name, true
			}
		}
	}
	return "", "", false
}

// correct re-prompts the bindings named by the current errors.
func (s *Session) correct(ctx context.Context, c *form.Controller) error {
	errs := c.Errors()
	handled := 0
	for _, path := range errs.Paths() {
		b, ok := bind(c, path)
		if !ok {
			if err := s.info(ctx, s.theme.ErrorPrefix+"cannot edit "+path); err != nil {
				return err
			}
			continue
		}
		handled++
		if err := s.promptBinding(ctx, c, b); err != nil {
			return err
		}
	}
	if handled == 0 {
		return fmt.Errorf("tui: no editable field for errors %s", strings.Join(errs.Paths(), ", "))
	}
	return nil
}

func bind(c *form.Controller, name string) (render.Binding, bool) {
	return render.Lookup(c.Bindings(), name)
}

func (s *Session) promptBinding(ctx context.Context, c *form.Controller, b render.Binding) error {
	switch b.Widget {
	case widgets.WidgetHidden:
		return nil
	case widgets.WidgetFallback:
		return s.info(ctx, s.theme.ErrorPrefix+b.Fallback)
	case widgets.WidgetCustom:
		return s.info(ctx, s.theme.InfoPrefix+"skipping custom field "+b.Name)
	case widgets.WidgetRepeater:
		return s.promptGroup(ctx, c, b)
	}
	if b.OnChange == nil {
		return nil
	}
	value, err := s.promptValue(ctx, b)
	if err != nil {
		return err
	}
	b.OnChange(value)
	return nil
}

func (s *Session) promptGroup(ctx context.Context, c *form.Controller, b render.Binding) error {
	label := displayLabel(b)
	if b.Error != "" {
		if err := s.info(ctx, s.theme.ErrorPrefix+label+": "+b.Error); err != nil {
			return err
		}
	}

	for b.OnRemove != nil && len(b.Entries) > 0 {
		remove, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Remove a %s entry?", label)})
		if err != nil {
			return err
		}
		if !remove {
			break
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: "Entry to remove", Options: entryLabels(len(b.Entries))})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(b.Entries) {
			b.OnRemove(idx)
		}
		if b, _ = bind(c, b.Name); b.Widget != widgets.WidgetRepeater {
			return nil
		}
	}

	for idx := range b.Entries {
		if err := s.promptEntry(ctx, c, b.Name, idx); err != nil {
			return err
		}
	}

	for {
		b, _ = bind(c, b.Name)
		if b.OnAdd == nil {
			return nil
		}
		minEntries := 0
		if b.Field.Min != nil {
			minEntries = *b.Field.Min
		}
		add, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add a %s entry?", label),
			Default: len(b.Entries) < minEntries,
		})
		if err != nil {
			return err
		}
		if !add || !b.OnAdd() {
			return nil
		}
		if err := s.promptEntry(ctx, c, b.Name, len(b.Entries)); err != nil {
			return err
		}
	}
}

func (s *Session) promptEntry(ctx context.Context, c *form.Controller, key string, idx int) error {
	b, ok := bind(c, key)
	if !ok || idx >= len(b.Entries) {
		return nil
	}
	if err := s.info(ctx, s.theme.InfoPrefix+fmt.Sprintf("%s #%d", displayLabel(b), idx+1)); err != nil {
		return err
	}
	for _, nested := range b.Entries[idx].Fields {
		if err := s.promptBinding(ctx, c, nested); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptValue(ctx context.Context, b render.Binding) (any, error) {
	label := displayLabel(b)
	help := s.help(b)

	switch b.Widget {
	case widgets.WidgetToggle, widgets.WidgetCheckbox:
		return s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: truthy(b.Value), Help: help})

	case widgets.WidgetCheckboxGroup:
		if len(b.Options) == 0 {
			break
		}
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(b.Options),
			Defaults: selectedIndices(b.Options, b.Value),
			Help:     help,
		})
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(b.Options) {
				out = append(out, b.Options[idx].Value)
			}
		}
		return out, nil

	case widgets.WidgetSelect, widgets.WidgetRadio:
		if len(b.Options) == 0 {
			break
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      optionLabels(b.Options),
			DefaultIndex: selectedIndex(b.Options, b.Value),
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(b.Options) {
			return b.Value, nil
		}
		return b.Options[idx].Value, nil

	case widgets.WidgetTextArea, widgets.WidgetCodeEditor:
		text, err := s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: stringify(b.Value), Help: help})
		if err != nil {
			return nil, err
		}
		return text, nil
	}

	cfg := InputConfig{
		Message:     label,
		Default:     stringify(b.Value),
		Help:        help,
		Placeholder: b.Field.Placeholder,
	}
	var (
		text string
		err  error
	)
	if truthy(b.Props["secret"]) {
		text, err = s.driver.Password(ctx, cfg)
	} else {
		text, err = s.driver.Input(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if _, numeric := b.Field.Rule.(rules.NumberRule); numeric && text != "" {
		if n, ok := rules.CoerceNumber(text); ok {
			return n, nil
		}
	}
	return text, nil
}

func (s *Session) help(b render.Binding) string {
	if b.Error != "" {
		return s.theme.ErrorPrefix + b.Error
	}
	if help, ok := b.Props["help"].(string); ok {
		return help
	}
	return ""
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, msg)
}

func displayLabel(b render.Binding) string {
	if label, ok := b.Props[render.PropLabel].(string); ok && label != "" {
		return label
	}
	return b.Field.DisplayLabel()
}

func optionLabels(options []model.Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		if o.Label != "" {
			out[i] = o.Label
		} else {
			out[i] = fmt.Sprint(o.Value)
		}
	}
	return out
}

func selectedIndex(options []model.Option, value any) int {
	for i, o := range options {
		if value != nil && fmt.Sprint(o.Value) == fmt.Sprint(value) {
			return i
		}
	}
	return 0
}

func selectedIndices(options []model.Option, value any) []int {
	selected := map[string]struct{}{}
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			selected[fmt.Sprint(item)] = struct{}{}
		}
	case []string:
		for _, item := range v {
			selected[item] = struct{}{}
		}
	}
	var out []int
	for i, o := range options {
		if _, ok := selected[fmt.Sprint(o.Value)]; ok {
			out = append(out, i)
		}
	}
	return out
}

func entryLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("#%d", i+1)
	}
	return out
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "yes" || v == "1"
	}
	return false
}
