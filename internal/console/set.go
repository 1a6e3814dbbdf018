package console

import (
	"context"

	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

// API is the full upstream surface the controllers need; *platform.Client
// satisfies it. Controllers each depend on their own slice of it.
type API interface {
	PinAPI
	QuestionnaireAPI
	OptionAPI
	LanguageAPI
	UserAPI
	AuditAPI
	ContentAPI
	QuestionnaireMetaAPI
	StationAPI
}

// Set bundles one session's controllers. The composition root builds a Set
// per login and wires the cross-controller callbacks.
type Set struct {
	Pins           *PinsController
	Questionnaire  *QuestionnaireController
	Options        *OptionController
	Languages      *LanguagesController
	Users          *UsersController
	Audit          *AuditController
	Content        *ContentController
	Questionnaires *QuestionnairesController
	Stations       *StationsController
}

func NewSet(store *state.Store, api API, tok TokenSource, installationURL string) *Set {
	s := &Set{
		Pins:           NewPinsController(store, api, tok),
		Questionnaire:  NewQuestionnaireController(store, api, tok),
		Options:        NewOptionController(store, api, tok),
		Languages:      NewLanguagesController(store, api, tok),
		Users:          NewUsersController(store, api, tok),
		Audit:          NewAuditController(store, api, tok),
		Content:        NewContentController(store, api, tok),
		Questionnaires: NewQuestionnairesController(store, api, tok),
		Stations:       NewStationsController(store, api, tok, installationURL),
	}
	// a language change alters the validation set of the question editor
	s.Languages.OnChange(func(ctx context.Context) error {
		if s.Questionnaire.IsDirty() {
			// keep staged edits; they are re-validated against the new set on save
			return nil
		}
		return s.Questionnaire.Load(ctx)
	})
	return s
}
