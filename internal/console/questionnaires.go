package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type QuestionnaireMetaAPI interface {
	ListQuestionnaires(ctx context.Context, token string) ([]platform.Questionnaire, error)
	UpsertQuestionnaire(ctx context.Context, token string, q platform.Questionnaire) error
	SaveSlots(ctx context.Context, token, questionnaireKey string, slots []platform.Slot) error
}

// QuestionnairesController manages questionnaire metadata and the slot
// layout: each slot holds either a fixed question or a pool the installation
// picks from at random.
type QuestionnairesController struct {
	store *state.Store
	api   QuestionnaireMetaAPI
	tok   TokenSource
}

func NewQuestionnairesController(store *state.Store, api QuestionnaireMetaAPI, tok TokenSource) *QuestionnairesController {
	return &QuestionnairesController{store: store, api: api, tok: tok}
}

func (c *QuestionnairesController) Load(ctx context.Context) error {
	qnrs, err := c.api.ListQuestionnaires(ctx, c.tok())
	if err != nil {
		return err
	}
	c.store.Lock()
	c.store.Questionnaires = qnrs
	c.store.Unlock()
	return nil
}

type QuestionnairesPage struct {
	Questionnaires []platform.Questionnaire `json:"questionnaires"`
	Status         string                   `json:"status,omitempty"`
}

func (c *QuestionnairesController) Render() QuestionnairesPage {
	c.store.Lock()
	defer c.store.Unlock()
	return QuestionnairesPage{Questionnaires: c.store.Questionnaires, Status: c.store.Status}
}

func (c *QuestionnairesController) Save(ctx context.Context, q platform.Questionnaire) error {
	q.QuestionnaireKey = strings.TrimSpace(q.QuestionnaireKey)
	if q.QuestionnaireKey == "" {
		return NewInvalidError("questionnaire key required")
	}
	if err := c.api.UpsertQuestionnaire(ctx, c.tok(), q); err != nil {
		return err
	}
	return c.Load(ctx)
}

// SaveSlots validates the slot layout against the staged question list and
// commits it in one save_slots call.
func (c *QuestionnairesController) SaveSlots(ctx context.Context, questionnaireKey string, slots []platform.Slot) error {
	c.store.Lock()
	known := make(map[string]bool, len(c.store.Questions))
	for _, q := range c.store.Questions {
		known[q.QuestionKey] = true
	}
	c.store.Unlock()
	for i := range slots {
		slots[i].Index = i
		switch slots[i].Mode {
		case "fixed":
			if !known[slots[i].QuestionKey] {
				return NewInvalidError(fmt.Sprintf("slot %d: unknown question %q", i, slots[i].QuestionKey))
			}
		case "pool":
			if len(slots[i].Pool) == 0 {
				return NewInvalidError(fmt.Sprintf("slot %d: empty pool", i))
			}
			for _, key := range slots[i].Pool {
				if !known[key] {
					return NewInvalidError(fmt.Sprintf("slot %d: unknown question %q in pool", i, key))
				}
			}
		default:
			return NewInvalidError(fmt.Sprintf("slot %d: unknown mode %q", i, slots[i].Mode))
		}
	}
	if err := c.api.SaveSlots(ctx, c.tok(), questionnaireKey, slots); err != nil {
		return err
	}
	return c.Load(ctx)
}
