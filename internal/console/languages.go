package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type LanguageAPI interface {
	ListLanguages(ctx context.Context, token string) ([]platform.Language, error)
	UpsertLanguage(ctx context.Context, token string, l platform.Language) error
	ToggleLanguage(ctx context.Context, token, lang string) error
}

// LanguagesController manages the language table. All languages are listed,
// disabled ones included, so translators can pre-populate a language before
// it goes live.
type LanguagesController struct {
	store *state.Store
	api   LanguageAPI
	tok   TokenSource

	// onChange lets the bootstrapper chain a questionnaire reload after the
	// language set or selection changes.
	onChange func(ctx context.Context) error
}

func NewLanguagesController(store *state.Store, api LanguageAPI, tok TokenSource) *LanguagesController {
	return &LanguagesController{store: store, api: api, tok: tok}
}

// OnChange registers the cross-controller callback fired after the language
// list or the selected language changes.
func (c *LanguagesController) OnChange(fn func(ctx context.Context) error) {
	c.onChange = fn
}

func (c *LanguagesController) Load(ctx context.Context) error {
	langs, err := c.api.ListLanguages(ctx, c.tok())
	if err != nil {
		return err
	}
	c.store.Lock()
	c.store.Languages = langs
	c.store.SelectedLang = state.SelectLanguage(c.store.SelectedLang, langs)
	c.store.Unlock()
	return nil
}

type LanguagesPage struct {
	Languages    []platform.Language `json:"languages"`
	SelectedLang string              `json:"selected_lang"`
	Status       string              `json:"status,omitempty"`
}

func (c *LanguagesController) Render() LanguagesPage {
	c.store.Lock()
	defer c.store.Unlock()
	return LanguagesPage{
		Languages:    c.store.Languages,
		SelectedLang: c.store.SelectedLang,
		Status:       c.store.Status,
	}
}

// Select changes the language used for translation display in the editor.
func (c *LanguagesController) Select(ctx context.Context, lang string) error {
	c.store.Lock()
	found := false
	for _, l := range c.store.Languages {
		if l.Lang == lang {
			found = true
			break
		}
	}
	if !found {
		c.store.Unlock()
		return NewNotFoundError(fmt.Sprintf("language %q not found", lang))
	}
	c.store.SelectedLang = lang
	c.store.Unlock()
	return c.fireChange(ctx)
}

func (c *LanguagesController) Save(ctx context.Context, l platform.Language) error {
	l.Lang = strings.ToLower(strings.TrimSpace(l.Lang))
	if l.Lang == "" {
		return NewInvalidError("language code required")
	}
	if strings.TrimSpace(l.Label) == "" {
		return NewInvalidError("language label required")
	}
	if err := c.api.UpsertLanguage(ctx, c.tok(), l); err != nil {
		return err
	}
	if err := c.Load(ctx); err != nil {
		return err
	}
	return c.fireChange(ctx)
}

// Toggle enables or disables a language. Enabling changes the set of
// languages the question editor validates against, so the questionnaire is
// reloaded through the change callback.
func (c *LanguagesController) Toggle(ctx context.Context, lang string) error {
	if err := c.api.ToggleLanguage(ctx, c.tok(), lang); err != nil {
		return err
	}
	if err := c.Load(ctx); err != nil {
		return err
	}
	return c.fireChange(ctx)
}

func (c *LanguagesController) fireChange(ctx context.Context) error {
	if c.onChange == nil {
		return nil
	}
	return c.onChange(ctx)
}
