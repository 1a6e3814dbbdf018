package state

import (
	"sync"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
)

// Store holds everything one console session has fetched or staged. It is
// constructed by the composition root and passed by reference into every
// controller; nothing reads it ambiently.
type Store struct {
	mu sync.Mutex

	// session
	Email string
	Role  string

	// pin moderation view settings
	PinFilter string // all | pending | approved | rejected
	PinQuery  string
	PinSort   string // newest | oldest | floor | wellbeing
	PinPage   int
	PageSize  int

	Pins             []platform.Pin
	Questions        []platform.Question
	OptionsByQ       map[string][]platform.Option
	Languages        []platform.Language
	SelectedLang     string
	Users            []platform.User
	Audit            []platform.AuditEntry
	AuditTotal       int
	ContentBlocks    map[string][]platform.ContentBlock
	Questionnaires   []platform.Questionnaire
	Stations         []platform.Station

	// confirmed (server-persisted) translations and local pending edits,
	// both keyed lang → key → text; reads merge pending over confirmed.
	TranslationsByLang        map[string]map[string]string
	PendingTranslationsByLang map[string]map[string]string

	// QuestionnaireDirty flips true on any staged questionnaire edit and
	// false after a load or a fully successful save.
	QuestionnaireDirty bool

	// Status is the banner text shown by the shell.
	Status string
}

func NewStore() *Store {
	return &Store{
		PinFilter:                 "all",
		PinSort:                   "newest",
		PinPage:                   1,
		PageSize:                  25,
		OptionsByQ:                map[string][]platform.Option{},
		ContentBlocks:             map[string][]platform.ContentBlock{},
		TranslationsByLang:        map[string]map[string]string{},
		PendingTranslationsByLang: map[string]map[string]string{},
		SelectedLang:              "de",
	}
}

// Lock and Unlock guard multi-step mutations. Handlers for one session are
// not expected to race, but the refresh loop touches sessions from its own
// goroutine.
func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

// ResolveTranslation reads pending-first-then-confirmed for lang, falling
// back to the raw key as a human-readable placeholder.
func (s *Store) ResolveTranslation(lang, key, fallback string) string {
	if m := s.PendingTranslationsByLang[lang]; m != nil {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m := s.TranslationsByLang[lang]; m != nil {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
	}
	return fallback
}

// SetPendingTranslation stages one translation edit without touching the
// confirmed map.
func (s *Store) SetPendingTranslation(lang, key, text string) {
	if s.PendingTranslationsByLang[lang] == nil {
		s.PendingTranslationsByLang[lang] = map[string]string{}
	}
	s.PendingTranslationsByLang[lang][key] = text
}

// ClearPending drops all staged translation edits, typically after a save
// reloaded confirmed state.
func (s *Store) ClearPending() {
	s.PendingTranslationsByLang = map[string]map[string]string{}
}

// EnabledLanguages returns only languages offered for translation entry.
func (s *Store) EnabledLanguages() []platform.Language {
	out := make([]platform.Language, 0, len(s.Languages))
	for _, l := range s.Languages {
		if l.Enabled {
			out = append(out, l)
		}
	}
	return out
}

// QuestionByKey returns the staged question with the given key, or nil.
func (s *Store) QuestionByKey(key string) *platform.Question {
	for i := range s.Questions {
		if s.Questions[i].QuestionKey == key {
			return &s.Questions[i]
		}
	}
	return nil
}
