package console

import (
	"context"
	"testing"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

func TestContentLoadFetchesScopedTranslations(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	api.content = []platform.ContentBlock{
		{PageKey: "imprint", BlockKey: "address", Kind: "text", Sort: 10},
		{PageKey: "imprint", BlockKey: "title", Kind: "heading", Sort: 0},
		{PageKey: "about", BlockKey: "intro", Kind: "text", Sort: 0},
	}
	api.translations = map[string]map[string]string{
		"de": {
			"content.imprint.title": "Impressum",
			"content.about.intro":   "Über uns",
			"questions.mood.label":  "Stimmung",
		},
	}
	c := NewContentController(store, api, testToken)

	if err := c.Load(context.Background(), "imprint"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	page := c.Render("imprint")
	if len(page.Blocks) != 2 {
		t.Fatalf("blocks = %d", len(page.Blocks))
	}
	if page.Blocks[0].BlockKey != "title" {
		t.Fatalf("blocks not sorted: %+v", page.Blocks)
	}
	if page.Blocks[0].Text != "Impressum" {
		t.Fatalf("text = %q", page.Blocks[0].Text)
	}
	// only content.<page>. keys belong in the merge
	if _, ok := store.TranslationsByLang["de"]["questions.mood.label"]; ok {
		t.Fatal("unscoped translation leaked into the merge")
	}
}

func TestContentSetTextCommitsImmediately(t *testing.T) {
	store := testStore()
	api := newStubAPI()
	c := NewContentController(store, api, testToken)

	if err := c.SetText(context.Background(), "imprint", "title", "de", "Impressum"); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if api.calls[0] != "upsert_translation:de:content.imprint.title" {
		t.Fatalf("calls = %v", api.calls)
	}
	if store.TranslationsByLang["de"]["content.imprint.title"] != "Impressum" {
		t.Fatal("confirmed mirror missing")
	}
}

func TestContentSaveBlockRequiresKeys(t *testing.T) {
	c := NewContentController(testStore(), newStubAPI(), testToken)
	if err := c.SaveBlock(context.Background(), platform.ContentBlock{PageKey: "imprint"}); err == nil {
		t.Fatal("missing block key must be rejected")
	}
}
