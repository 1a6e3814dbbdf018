package state

import (
	"testing"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

func TestReorderQuestions(t *testing.T) {
	qs := []platform.Question{
		{QuestionKey: "a", Sort: 0},
		{QuestionKey: "b", Sort: 10},
		{QuestionKey: "c", Sort: 20},
	}
	got := ReorderQuestions(qs, "a", "c")
	wantOrder := []string{"b", "c", "a"}
	for i, key := range wantOrder {
		if got[i].QuestionKey != key {
			t.Fatalf("position %d = %s, want %s", i, got[i].QuestionKey, key)
		}
		if got[i].Sort != i*10 {
			t.Fatalf("sort %d = %d, want %d", i, got[i].Sort, i*10)
		}
	}
	// original slice untouched
	if qs[0].QuestionKey != "a" || qs[0].Sort != 0 {
		t.Fatalf("input mutated: %+v", qs[0])
	}
}

func TestReorderQuestionsNoopCases(t *testing.T) {
	qs := []platform.Question{
		{QuestionKey: "a", Sort: 0},
		{QuestionKey: "b", Sort: 10},
	}
	got := ReorderQuestions(qs, "a", "a")
	if got[0].QuestionKey != "a" || got[1].QuestionKey != "b" {
		t.Fatalf("self move changed order: %+v", got)
	}
	got = ReorderQuestions(qs, "missing", "b")
	if len(got) != 2 {
		t.Fatalf("unknown move key changed length: %d", len(got))
	}
}

func TestNextSort(t *testing.T) {
	qs := []platform.Question{{Sort: 0}, {Sort: 30}, {Sort: 10}}
	if got := NextSort(qs); got != 40 {
		t.Fatalf("NextSort = %d, want 40", got)
	}
	if got := NextSort(nil); got != 10 {
		t.Fatalf("NextSort(empty) = %d, want 10", got)
	}
}

func TestSelectLanguage(t *testing.T) {
	langs := []platform.Language{{Lang: "de"}, {Lang: "fr"}}
	if got := SelectLanguage("fr", langs); got != "fr" {
		t.Fatalf("kept selection = %s", got)
	}
	if got := SelectLanguage("it", langs); got != "de" {
		t.Fatalf("fallback to first = %s", got)
	}
	if got := SelectLanguage("it", nil); got != "de" {
		t.Fatalf("empty list fallback = %s", got)
	}
}

func TestResolveTranslationMerge(t *testing.T) {
	s := NewStore()
	s.TranslationsByLang["de"] = map[string]string{"questions.q1.label": "Wie geht es dir?"}
	if got := s.ResolveTranslation("de", "questions.q1.label", "q1"); got != "Wie geht es dir?" {
		t.Fatalf("confirmed read = %q", got)
	}
	s.SetPendingTranslation("de", "questions.q1.label", "Wie fühlst du dich?")
	if got := s.ResolveTranslation("de", "questions.q1.label", "q1"); got != "Wie fühlst du dich?" {
		t.Fatalf("pending should win: %q", got)
	}
	if got := s.ResolveTranslation("de", "questions.q2.label", "q2"); got != "q2" {
		t.Fatalf("missing key fallback = %q", got)
	}
	s.ClearPending()
	if got := s.ResolveTranslation("de", "questions.q1.label", "q1"); got != "Wie geht es dir?" {
		t.Fatalf("after clear = %q", got)
	}
}
