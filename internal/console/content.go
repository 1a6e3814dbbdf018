package console

import (
	"context"
	"sort"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type ContentAPI interface {
	ListContent(ctx context.Context, token, pageKey string) ([]platform.ContentBlock, error)
	UpsertContentBlock(ctx context.Context, token string, b platform.ContentBlock) error
	DeleteContentBlock(ctx context.Context, token, pageKey, blockKey string) error
	ListTranslations(ctx context.Context, token, lang, prefix string) (map[string]string, error)
	UpsertTranslation(ctx context.Context, token, lang, key, text string) error
}

// ContentController edits the multilingual content pages (imprint, info,
// about). Block copy lives in the translations table under
// content.<page_key>.<block_key>; edits commit immediately like options.
type ContentController struct {
	store *state.Store
	api   ContentAPI
	tok   TokenSource
}

func NewContentController(store *state.Store, api ContentAPI, tok TokenSource) *ContentController {
	return &ContentController{store: store, api: api, tok: tok}
}

func contentKey(pageKey, blockKey string) string {
	return "content." + pageKey + "." + blockKey
}

func (c *ContentController) Load(ctx context.Context, pageKey string) error {
	token := c.tok()
	blocks, err := c.api.ListContent(ctx, token, pageKey)
	if err != nil {
		return err
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Sort < blocks[j].Sort })
	c.store.Lock()
	langs := c.store.EnabledLanguages()
	c.store.ContentBlocks[pageKey] = blocks
	c.store.Unlock()
	for _, l := range langs {
		tr, err := c.api.ListTranslations(ctx, token, l.Lang, "content."+pageKey+".")
		if err != nil {
			return err
		}
		c.store.Lock()
		if c.store.TranslationsByLang[l.Lang] == nil {
			c.store.TranslationsByLang[l.Lang] = map[string]string{}
		}
		for k, v := range tr {
			c.store.TranslationsByLang[l.Lang][k] = v
		}
		c.store.Unlock()
	}
	return nil
}

type ContentBlockView struct {
	BlockKey string `json:"block_key"`
	Kind     string `json:"kind"`
	Sort     int    `json:"sort"`
	Text     string `json:"text"`
}

type ContentPage struct {
	PageKey string             `json:"page_key"`
	Lang    string             `json:"lang"`
	Blocks  []ContentBlockView `json:"blocks"`
	Status  string             `json:"status,omitempty"`
}

func (c *ContentController) Render(pageKey string) ContentPage {
	c.store.Lock()
	defer c.store.Unlock()
	lang := c.store.SelectedLang
	out := ContentPage{PageKey: pageKey, Lang: lang, Status: c.store.Status}
	for _, b := range c.store.ContentBlocks[pageKey] {
		out.Blocks = append(out.Blocks, ContentBlockView{
			BlockKey: b.BlockKey,
			Kind:     b.Kind,
			Sort:     b.Sort,
			Text:     c.store.ResolveTranslation(lang, contentKey(pageKey, b.BlockKey), ""),
		})
	}
	return out
}

func (c *ContentController) SaveBlock(ctx context.Context, b platform.ContentBlock) error {
	if strings.TrimSpace(b.PageKey) == "" || strings.TrimSpace(b.BlockKey) == "" {
		return NewInvalidError("page key and block key required")
	}
	if err := c.api.UpsertContentBlock(ctx, c.tok(), b); err != nil {
		return err
	}
	return c.Load(ctx, b.PageKey)
}

func (c *ContentController) DeleteBlock(ctx context.Context, pageKey, blockKey string) error {
	if err := c.api.DeleteContentBlock(ctx, c.tok(), pageKey, blockKey); err != nil {
		return err
	}
	return c.Load(ctx, pageKey)
}

// SetText writes one block's copy for one language straight to the
// translations endpoint.
func (c *ContentController) SetText(ctx context.Context, pageKey, blockKey, lang, text string) error {
	key := contentKey(pageKey, blockKey)
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
