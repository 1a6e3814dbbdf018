package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

// Question types accepted by the editor.
const (
	TypeSlider = "slider"
	TypeMulti  = "multi"
	TypeText   = "text"
)

type QuestionnaireAPI interface {
	ListQuestions(ctx context.Context, token string) ([]platform.Question, error)
	UpsertQuestion(ctx context.Context, token string, q platform.Question) error
	DeleteQuestion(ctx context.Context, token, questionKey string) error
	ListOptions(ctx context.Context, token, questionKey string) ([]platform.Option, error)
	ListTranslations(ctx context.Context, token, lang, prefix string) (map[string]string, error)
	UpsertTranslation(ctx context.Context, token, lang, key, text string) error
	AddAudit(ctx context.Context, token string, e platform.AuditEntry) error
}

// QuestionnaireController is the staged editing session for questions and
// their per-language translations. Edits live in the store until an explicit
// Save commits them all; the shell consults it as a dirty guard before any
// page switch.
type QuestionnaireController struct {
	store   *state.Store
	api     QuestionnaireAPI
	tok     TokenSource
	removed []string // question keys staged for deletion, committed on Save
}

func NewQuestionnaireController(store *state.Store, api QuestionnaireAPI, tok TokenSource) *QuestionnaireController {
	return &QuestionnaireController{store: store, api: api, tok: tok}
}

// QuestionEdit is the read-back of one question edit block: base fields, raw
// type-specific form values and the per-language texts.
type QuestionEdit struct {
	QuestionKey string            `json:"question_key"`
	Type        string            `json:"type"`
	Required    bool              `json:"required"`
	IsActive    bool              `json:"is_active"`
	Sort        *int              `json:"sort,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	LegendLow   map[string]string `json:"legend_low,omitempty"`
	LegendHigh  map[string]string `json:"legend_high,omitempty"`
}

// BuildConfig assembles the type-specific config object from raw form values.
// Numeric fields are coerced; unset fields get per-type defaults, notably the
// slider step of 0.01.
func BuildConfig(qType string, fields map[string]string) map[string]any {
	num := func(key string, def float64) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[key]), 64)
		if err != nil {
			return def
		}
		return v
	}
	boolean := func(key string) bool {
		switch strings.ToLower(strings.TrimSpace(fields[key])) {
		case "1", "true", "yes", "on":
			return true
		}
		return false
	}
	switch qType {
	case TypeSlider:
		min := num("min", 0)
		return map[string]any{
			"min":           min,
			"max":           num("max", 10),
			"step":          num("step", 0.01),
			"default":       num("default", min),
			"use_for_color": boolean("use_for_color"),
		}
	case TypeText:
		rows := int(num("rows", 3))
		if rows < 1 {
			rows = 3
		}
		return map[string]any{"rows": rows}
	case TypeMulti:
		return map[string]any{"allow_multiple": boolean("allow_multiple")}
	}
	return map[string]any{}
}

// ValidateQuestionTranslations checks that every language in langs supplies a
// non-empty label, and for slider questions both legend strings. The label is
// always checked first; the returned message names the question key and the
// offending language.
func ValidateQuestionTranslations(questionKey, qType string, langs []string, resolve func(lang, key string) string) error {
	for _, lang := range langs {
		if strings.TrimSpace(resolve(lang, state.LabelKey(questionKey))) == "" {
			return NewInvalidError(fmt.Sprintf("question %q: missing label for language %q", questionKey, lang))
		}
	}
	if qType == TypeSlider {
		for _, lang := range langs {
			if strings.TrimSpace(resolve(lang, state.LegendLowKey(questionKey))) == "" {
				return NewInvalidError(fmt.Sprintf("question %q: missing legend_low for language %q", questionKey, lang))
			}
			if strings.TrimSpace(resolve(lang, state.LegendHighKey(questionKey))) == "" {
				return NewInvalidError(fmt.Sprintf("question %q: missing legend_high for language %q", questionKey, lang))
			}
		}
	}
	return nil
}

// Load replaces all local edits with server-confirmed state: questions,
// options grouped by question, and the full translation map for every enabled
// language. It clears pending edits and the dirty flag.
func (c *QuestionnaireController) Load(ctx context.Context) error {
	token := c.tok()
	questions, err := c.api.ListQuestions(ctx, token)
	if err != nil {
		return err
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Sort < questions[j].Sort })

	options, err := c.api.ListOptions(ctx, token, "")
	if err != nil {
		return err
	}
	byQ := map[string][]platform.Option{}
	for _, o := range options {
		byQ[o.QuestionKey] = append(byQ[o.QuestionKey], o)
	}
	for k := range byQ {
		opts := byQ[k]
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].Sort < opts[j].Sort })
		byQ[k] = opts
	}

	confirmed := map[string]map[string]string{}
	for _, l := range c.store.EnabledLanguages() {
		tr, err := c.api.ListTranslations(ctx, token, l.Lang, "")
		if err != nil {
			return err
		}
		confirmed[l.Lang] = tr
	}

	c.store.Lock()
	c.store.Questions = questions
	c.store.OptionsByQ = byQ
	c.store.TranslationsByLang = confirmed
	c.store.ClearPending()
	c.store.QuestionnaireDirty = false
	c.removed = nil
	c.store.Unlock()
	return nil
}

// StageNew validates and appends a new question to the local list. The key
// must be unique in memory; the per-language texts must already be complete,
// so an incomplete question never enters the staged list. Nothing is sent to
// the server.
func (c *QuestionnaireController) StageNew(edit QuestionEdit) error {
	key := strings.TrimSpace(edit.QuestionKey)
	if key == "" {
		return NewInvalidError("question key required")
	}
	if edit.Type != TypeSlider && edit.Type != TypeMulti && edit.Type != TypeText {
		return NewInvalidError(fmt.Sprintf("unknown question type %q", edit.Type))
	}
	c.store.Lock()
	defer c.store.Unlock()
	if c.store.QuestionByKey(key) != nil {
		return NewConflictError(fmt.Sprintf("question key %q already exists", key))
	}
	langs := enabledCodes(c.store)
	if err := ValidateQuestionTranslations(key, edit.Type, langs, func(lang, trKey string) string {
		return editText(edit, lang, key, trKey)
	}); err != nil {
		return err
	}
	q := platform.Question{
		QuestionKey: key,
		Type:        edit.Type,
		Required:    edit.Required,
		IsActive:    edit.IsActive,
		Config:      BuildConfig(edit.Type, edit.Fields),
	}
	if edit.Sort != nil {
		q.Sort = *edit.Sort
	} else {
		q.Sort = state.NextSort(c.store.Questions)
	}
	c.store.Questions = append(c.store.Questions, q)
	stageTexts(c.store, edit, key)
	c.store.QuestionnaireDirty = true
	return nil
}

// StageUpdate mutates a staged question in place and records its per-language
// texts as pending translations.
func (c *QuestionnaireController) StageUpdate(edit QuestionEdit) error {
	key := strings.TrimSpace(edit.QuestionKey)
	c.store.Lock()
	defer c.store.Unlock()
	q := c.store.QuestionByKey(key)
	if q == nil {
		return NewNotFoundError(fmt.Sprintf("question %q not found", key))
	}
	if edit.Type != "" && edit.Type != q.Type {
		q.Type = edit.Type
	}
	q.Required = edit.Required
	q.IsActive = edit.IsActive
	if edit.Sort != nil {
		q.Sort = *edit.Sort
	}
	if edit.Fields != nil {
		q.Config = BuildConfig(q.Type, edit.Fields)
	}
	stageTexts(c.store, edit, key)
	c.store.QuestionnaireDirty = true
	return nil
}

// StageDelete removes a question from the local list; the upstream delete
// happens on Save.
func (c *QuestionnaireController) StageDelete(questionKey string) error {
	c.store.Lock()
	defer c.store.Unlock()
	idx := -1
	for i, q := range c.store.Questions {
		if q.QuestionKey == questionKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NewNotFoundError(fmt.Sprintf("question %q not found", questionKey))
	}
	c.store.Questions = append(c.store.Questions[:idx], c.store.Questions[idx+1:]...)
	c.removed = append(c.removed, questionKey)
	c.store.QuestionnaireDirty = true
	return nil
}

// Reorder moves moveKey after targetKey and rewrites all staged sorts.
func (c *QuestionnaireController) Reorder(moveKey, targetKey string) {
	c.store.Lock()
	defer c.store.Unlock()
	c.store.Questions = state.ReorderQuestions(c.store.Questions, moveKey, targetKey)
	c.store.QuestionnaireDirty = true
}

// SetTranslation stages one translation edit for the question editor.
func (c *QuestionnaireController) SetTranslation(lang, key, text string) {
	c.store.Lock()
	defer c.store.Unlock()
	c.store.SetPendingTranslation(lang, key, text)
	c.store.QuestionnaireDirty = true
}

// Save commits the whole staged batch. Validation runs over every question
// for every enabled language first and the first missing field aborts the
// save before any network call. Commits are sequential with no rollback: a
// mid-sequence failure leaves the dirty flag set and already-persisted
// questions in place.
func (c *QuestionnaireController) Save(ctx context.Context) error {
	c.store.Lock()
	questions := make([]platform.Question, len(c.store.Questions))
	copy(questions, c.store.Questions)
	langs := enabledCodes(c.store)
	resolve := func(lang, key string) string { return c.store.ResolveTranslation(lang, key, "") }
	for _, q := range questions {
		if err := ValidateQuestionTranslations(q.QuestionKey, q.Type, langs, resolve); err != nil {
			c.store.Status = err.Error()
			c.store.Unlock()
			return err
		}
	}
	removed := make([]string, len(c.removed))
	copy(removed, c.removed)
	texts := map[string]map[string]string{}
	for _, lang := range langs {
		texts[lang] = map[string]string{}
		for _, q := range questions {
			keys := []string{state.LabelKey(q.QuestionKey)}
			if q.Type == TypeSlider {
				keys = append(keys, state.LegendLowKey(q.QuestionKey), state.LegendHighKey(q.QuestionKey))
			}
			for _, k := range keys {
				texts[lang][k] = c.store.ResolveTranslation(lang, k, "")
			}
		}
	}
	c.store.Unlock()

	token := c.tok()
	for _, q := range questions {
		if err := c.api.UpsertQuestion(ctx, token, q); err != nil {
			c.fail(err)
			return err
		}
		keys := []string{state.LabelKey(q.QuestionKey)}
		if q.Type == TypeSlider {
			keys = append(keys, state.LegendLowKey(q.QuestionKey), state.LegendHighKey(q.QuestionKey))
		}
		// one upsert per translation key per language; there is no batch endpoint
		for _, lang := range langs {
			for _, k := range keys {
				if err := c.api.UpsertTranslation(ctx, token, lang, k, texts[lang][k]); err != nil {
					c.fail(err)
					return err
				}
			}
		}
	}
	for _, key := range removed {
		if err := c.api.DeleteQuestion(ctx, token, key); err != nil {
			c.fail(err)
			return err
		}
	}
	if err := c.Load(ctx); err != nil {
		c.fail(err)
		return err
	}
	c.store.Lock()
	c.store.Status = "Saved"
	actor := c.store.Email
	c.store.Unlock()
	// a failed append never fails the save itself
	_ = c.api.AddAudit(ctx, token, platform.AuditEntry{
		Actor:  actor,
		Action: "questionnaire_save",
		Note:   fmt.Sprintf("%d questions, %d removed", len(questions), len(removed)),
	})
	return nil
}

// fail surfaces the error and keeps the dirty flag so the guard re-triggers.
func (c *QuestionnaireController) fail(err error) {
	c.store.Lock()
	c.store.Status = err.Error()
	c.store.QuestionnaireDirty = true
	c.store.Unlock()
}

// Discard reloads server-confirmed state, dropping every staged edit.
func (c *QuestionnaireController) Discard(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *QuestionnaireController) IsDirty() bool {
	c.store.Lock()
	defer c.store.Unlock()
	return c.store.QuestionnaireDirty
}

var _ StagedEditor = (*QuestionnaireController)(nil)

// QuestionView is one rendered question row: base fields plus the texts for
// the currently selected language, resolved pending-first.
type QuestionView struct {
	QuestionKey string         `json:"question_key"`
	Type        string         `json:"type"`
	Required    bool           `json:"required"`
	IsActive    bool           `json:"is_active"`
	Sort        int            `json:"sort"`
	Config      map[string]any `json:"config,omitempty"`
	Label       string         `json:"label"`
	LegendLow   string         `json:"legend_low,omitempty"`
	LegendHigh  string         `json:"legend_high,omitempty"`
	Options     []OptionView   `json:"options,omitempty"`
}

type QuestionnairePage struct {
	Questions    []QuestionView      `json:"questions"`
	Languages    []platform.Language `json:"languages"`
	SelectedLang string              `json:"selected_lang"`
	Dirty        bool                `json:"dirty"`
	Status       string              `json:"status,omitempty"`
}

// Render builds the questionnaire page payload from the staged state.
func (c *QuestionnaireController) Render() QuestionnairePage {
	c.store.Lock()
	defer c.store.Unlock()
	lang := c.store.SelectedLang
	out := QuestionnairePage{
		Languages:    c.store.Languages,
		SelectedLang: lang,
		Dirty:        c.store.QuestionnaireDirty,
		Status:       c.store.Status,
	}
	for _, q := range c.store.Questions {
		v := QuestionView{
			QuestionKey: q.QuestionKey,
			Type:        q.Type,
			Required:    q.Required,
			IsActive:    q.IsActive,
			Sort:        q.Sort,
			Config:      q.Config,
			Label:       c.store.ResolveTranslation(lang, state.LabelKey(q.QuestionKey), q.QuestionKey),
		}
		if q.Type == TypeSlider {
			v.LegendLow = c.store.ResolveTranslation(lang, state.LegendLowKey(q.QuestionKey), "")
			v.LegendHigh = c.store.ResolveTranslation(lang, state.LegendHighKey(q.QuestionKey), "")
		}
		if q.Type == TypeMulti {
			for _, o := range c.store.OptionsByQ[q.QuestionKey] {
				v.Options = append(v.Options, OptionView{
					OptionKey: o.OptionKey,
					Sort:      o.Sort,
					IsActive:  o.IsActive,
					Label:     c.store.ResolveTranslation(lang, state.OptionKey(q.QuestionKey, o.OptionKey), o.OptionKey),
				})
			}
		}
		out.Questions = append(out.Questions, v)
	}
	return out
}

func enabledCodes(s *state.Store) []string {
	langs := s.EnabledLanguages()
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.Lang)
	}
	return out
}

// editText reads a per-language text out of an edit payload by translation key.
func editText(edit QuestionEdit, lang, questionKey, trKey string) string {
	switch trKey {
	case state.LabelKey(questionKey):
		return edit.Labels[lang]
	case state.LegendLowKey(questionKey):
		return edit.LegendLow[lang]
	case state.LegendHighKey(questionKey):
		return edit.LegendHigh[lang]
	}
	return ""
}

// stageTexts moves the edit payload's texts into the pending translation maps.
func stageTexts(s *state.Store, edit QuestionEdit, questionKey string) {
	for lang, text := range edit.Labels {
		s.SetPendingTranslation(lang, state.LabelKey(questionKey), text)
	}
	for lang, text := range edit.LegendLow {
		s.SetPendingTranslation(lang, state.LegendLowKey(questionKey), text)
	}
	for lang, text := range edit.LegendHigh {
		s.SetPendingTranslation(lang, state.LegendHighKey(questionKey), text)
	}
}
