package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type OptionAPI interface {
	ListOptions(ctx context.Context, token, questionKey string) ([]platform.Option, error)
	UpsertOption(ctx context.Context, token string, o platform.Option) error
	DeleteOption(ctx context.Context, token, questionKey, optionKey string) error
	ReorderOptions(ctx context.Context, token, questionKey string, keys []string) error
	UpsertTranslation(ctx context.Context, token, lang, key, text string) error
}

type OptionView struct {
	OptionKey string `json:"option_key"`
	Sort      int    `json:"sort"`
	IsActive  bool   `json:"is_active"`
	Label     string `json:"label"`
}

// OptionController is the immediate-commit sub-editor for multi-type
// questions: every add, delete, toggle, translation edit and reorder goes
// straight to the upstream API, then the local option list is refreshed.
type OptionController struct {
	store *state.Store
	api   OptionAPI
	tok   TokenSource
}

func NewOptionController(store *state.Store, api OptionAPI, tok TokenSource) *OptionController {
	return &OptionController{store: store, api: api, tok: tok}
}

// Reload refreshes one question's option list from the server.
func (c *OptionController) reload(ctx context.Context, questionKey string) error {
	opts, err := c.api.ListOptions(ctx, c.tok(), questionKey)
	if err != nil {
		return err
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Sort < opts[j].Sort })
	c.store.Lock()
	c.store.OptionsByQ[questionKey] = opts
	c.store.Unlock()
	return nil
}

// Reload refreshes every loaded option list; it satisfies ImmediateEditor.
func (c *OptionController) Reload(ctx context.Context) error {
	c.store.Lock()
	keys := make([]string, 0, len(c.store.OptionsByQ))
	for k := range c.store.OptionsByQ {
		keys = append(keys, k)
	}
	c.store.Unlock()
	for _, k := range keys {
		if err := c.reload(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (c *OptionController) question(questionKey string) (*platform.Question, error) {
	c.store.Lock()
	defer c.store.Unlock()
	q := c.store.QuestionByKey(questionKey)
	if q == nil {
		return nil, NewNotFoundError(fmt.Sprintf("question %q not found", questionKey))
	}
	if q.Type != TypeMulti {
		return nil, NewInvalidError(fmt.Sprintf("question %q has no options", questionKey))
	}
	cp := *q
	return &cp, nil
}

// Add creates an option at the end of the question's list and persists it
// immediately.
func (c *OptionController) Add(ctx context.Context, questionKey, optionKey string) error {
	optionKey = strings.TrimSpace(optionKey)
	if optionKey == "" {
		return NewInvalidError("option key required")
	}
	if _, err := c.question(questionKey); err != nil {
		return err
	}
	c.store.Lock()
	maxSort := -10
	for _, o := range c.store.OptionsByQ[questionKey] {
		if o.OptionKey == optionKey {
			c.store.Unlock()
			return NewConflictError(fmt.Sprintf("option key %q already exists", optionKey))
		}
		if o.Sort > maxSort {
			maxSort = o.Sort
		}
	}
	c.store.Unlock()
	opt := platform.Option{
		QuestionKey:    questionKey,
		OptionKey:      optionKey,
		Sort:           maxSort + 10,
		IsActive:       true,
		TranslationKey: state.OptionKey(questionKey, optionKey),
	}
	if err := c.api.UpsertOption(ctx, c.tok(), opt); err != nil {
		return err
	}
	return c.reload(ctx, questionKey)
}

func (c *OptionController) Delete(ctx context.Context, questionKey, optionKey string) error {
	if err := c.api.DeleteOption(ctx, c.tok(), questionKey, optionKey); err != nil {
		return err
	}
	return c.reload(ctx, questionKey)
}

// ToggleActive flips an option's active flag and persists it immediately.
func (c *OptionController) ToggleActive(ctx context.Context, questionKey, optionKey string) error {
	c.store.Lock()
	var opt *platform.Option
	for i := range c.store.OptionsByQ[questionKey] {
		if c.store.OptionsByQ[questionKey][i].OptionKey == optionKey {
			cp := c.store.OptionsByQ[questionKey][i]
			opt = &cp
			break
		}
	}
	c.store.Unlock()
	if opt == nil {
		return NewNotFoundError(fmt.Sprintf("option %q not found", optionKey))
	}
	opt.IsActive = !opt.IsActive
	if err := c.api.UpsertOption(ctx, c.tok(), *opt); err != nil {
		return err
	}
	return c.reload(ctx, questionKey)
}

// SetTranslation writes an option label for one language straight to the
// translations endpoint, then mirrors it into confirmed state.
func (c *OptionController) SetTranslation(ctx context.Context, questionKey, optionKey, lang, text string) error {
	key := state.OptionKey(questionKey, optionKey)
	if err := c.api.UpsertTranslation(ctx, c.tok(), lang, key, text); err != nil {
		return err
	}
	c.store.Lock()
	if c.store.TranslationsByLang[lang] == nil {
		c.store.TranslationsByLang[lang] = map[string]string{}
	}
	c.store.TranslationsByLang[lang][key] = text
	c.store.Unlock()
	return nil
}

// Reorder persists a new order for one question's full option set. Keys from
// another question's list are rejected, as is a partial order.
func (c *OptionController) Reorder(ctx context.Context, questionKey string, orderedKeys []string) error {
	c.store.Lock()
	current := c.store.OptionsByQ[questionKey]
	known := make(map[string]bool, len(current))
	for _, o := range current {
		known[o.OptionKey] = true
	}
	c.store.Unlock()
	if len(orderedKeys) != len(known) {
		return NewInvalidError(fmt.Sprintf("order must contain all %d options of question %q", len(known), questionKey))
	}
	seen := make(map[string]bool, len(orderedKeys))
	for _, k := range orderedKeys {
		if !known[k] {
			return NewInvalidError(fmt.Sprintf("option %q does not belong to question %q", k, questionKey))
		}
		if seen[k] {
			return NewInvalidError(fmt.Sprintf("option %q listed twice", k))
		}
		seen[k] = true
	}
	if err := c.api.ReorderOptions(ctx, c.tok(), questionKey, orderedKeys); err != nil {
		return err
	}
	return c.reload(ctx, questionKey)
}

var _ ImmediateEditor = (*OptionController)(nil)
