package console

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

// stubAPI is the in-memory upstream used by all controller tests. Every write
// is recorded in calls so tests can assert ordering and absence of network
// traffic.
type stubAPI struct {
	questions      []platform.Question
	options        []platform.Option
	translations   map[string]map[string]string // lang → key → text
	pins           []platform.Pin
	languages      []platform.Language
	users          []platform.User
	audit          []platform.AuditEntry
	auditTotal     int
	content        []platform.ContentBlock
	questionnaires []platform.Questionnaire
	slots          map[string][]platform.Slot
	stations       []platform.Station

	calls []string

	failUpsertQuestion    string // question key that fails on upsert
	failUpsertTranslation string // translation key that fails on upsert
	failDeleteQuestion    string
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		translations: map[string]map[string]string{},
		slots:        map[string][]platform.Slot{},
	}
}

func (s *stubAPI) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubAPI) ListQuestions(ctx context.Context, token string) ([]platform.Question, error) {
	out := make([]platform.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

func (s *stubAPI) UpsertQuestion(ctx context.Context, token string, q platform.Question) error {
	s.record("upsert_question:%s", q.QuestionKey)
	if q.QuestionKey == s.failUpsertQuestion {
		return &platform.Error{Status: 500, Message: "boom"}
	}
	for i := range s.questions {
		if s.questions[i].QuestionKey == q.QuestionKey {
			s.questions[i] = q
			return nil
		}
	}
	s.questions = append(s.questions, q)
	return nil
}

func (s *stubAPI) DeleteQuestion(ctx context.Context, token, questionKey string) error {
	s.record("delete_question:%s", questionKey)
	if questionKey == s.failDeleteQuestion {
		return &platform.Error{Status: 500, Message: "boom"}
	}
	kept := s.questions[:0]
	for _, q := range s.questions {
		if q.QuestionKey != questionKey {
			kept = append(kept, q)
		}
	}
	s.questions = kept
	return nil
}

func (s *stubAPI) ListOptions(ctx context.Context, token, questionKey string) ([]platform.Option, error) {
	var out []platform.Option
	for _, o := range s.options {
		if questionKey == "" || o.QuestionKey == questionKey {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubAPI) UpsertOption(ctx context.Context, token string, o platform.Option) error {
	s.record("upsert_option:%s:%s", o.QuestionKey, o.OptionKey)
	for i := range s.options {
		if s.options[i].QuestionKey == o.QuestionKey && s.options[i].OptionKey == o.OptionKey {
			s.options[i] = o
			return nil
		}
	}
	s.options = append(s.options, o)
	return nil
}

func (s *stubAPI) DeleteOption(ctx context.Context, token, questionKey, optionKey string) error {
	s.record("delete_option:%s:%s", questionKey, optionKey)
	kept := s.options[:0]
	for _, o := range s.options {
		if !(o.QuestionKey == questionKey && o.OptionKey == optionKey) {
			kept = append(kept, o)
		}
	}
	s.options = kept
	return nil
}

func (s *stubAPI) ReorderOptions(ctx context.Context, token, questionKey string, keys []string) error {
	s.record("reorder_options:%s:%s", questionKey, strings.Join(keys, ","))
	pos := map[string]int{}
	for i, k := range keys {
		pos[k] = i * 10
	}
	for i := range s.options {
		if s.options[i].QuestionKey == questionKey {
			s.options[i].Sort = pos[s.options[i].OptionKey]
		}
	}
	return nil
}

func (s *stubAPI) ListTranslations(ctx context.Context, token, lang, prefix string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range s.translations[lang] {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (s *stubAPI) UpsertTranslation(ctx context.Context, token, lang, key, text string) error {
	s.record("upsert_translation:%s:%s", lang, key)
	if key == s.failUpsertTranslation {
		return &platform.Error{Status: 500, Message: "boom"}
	}
	if s.translations[lang] == nil {
		s.translations[lang] = map[string]string{}
	}
	s.translations[lang][key] = text
	return nil
}

func (s *stubAPI) DeleteTranslation(ctx context.Context, token, lang, key string) error {
	s.record("delete_translation:%s:%s", lang, key)
	delete(s.translations[lang], key)
	return nil
}

func (s *stubAPI) ListPins(ctx context.Context, token string) ([]platform.Pin, error) {
	out := make([]platform.Pin, len(s.pins))
	copy(out, s.pins)
	return out, nil
}

func (s *stubAPI) UpdateApproval(ctx context.Context, token string, ids []string, approved int) error {
	s.record("update_approval:%s:%d", strings.Join(ids, ","), approved)
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	for i := range s.pins {
		if set[s.pins[i].ID] {
			s.pins[i].Approved = approved
		}
	}
	return nil
}

func (s *stubAPI) DeletePins(ctx context.Context, token string, ids []string) error {
	s.record("delete_pins:%s", strings.Join(ids, ","))
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	kept := s.pins[:0]
	for _, p := range s.pins {
		if !set[p.ID] {
			kept = append(kept, p)
		}
	}
	s.pins = kept
	return nil
}

func (s *stubAPI) ExportPinsCSV(ctx context.Context, token string) ([]byte, error) {
	return []byte("id,floor\n"), nil
}

func (s *stubAPI) ListLanguages(ctx context.Context, token string) ([]platform.Language, error) {
	out := make([]platform.Language, len(s.languages))
	copy(out, s.languages)
	return out, nil
}

func (s *stubAPI) UpsertLanguage(ctx context.Context, token string, l platform.Language) error {
	s.record("upsert_language:%s", l.Lang)
	for i := range s.languages {
		if s.languages[i].Lang == l.Lang {
			s.languages[i] = l
			return nil
		}
	}
	s.languages = append(s.languages, l)
	return nil
}

func (s *stubAPI) ToggleLanguage(ctx context.Context, token, lang string) error {
	s.record("toggle_language:%s", lang)
	for i := range s.languages {
		if s.languages[i].Lang == lang {
			s.languages[i].Enabled = !s.languages[i].Enabled
		}
	}
	return nil
}

func (s *stubAPI) ListUsers(ctx context.Context, token string) ([]platform.User, error) {
	out := make([]platform.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *stubAPI) UpsertUser(ctx context.Context, token string, u platform.User) error {
	s.record("upsert_user:%s", u.Email)
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return nil
		}
	}
	s.users = append(s.users, u)
	return nil
}

func (s *stubAPI) ToggleUser(ctx context.Context, token, id string) error {
	s.record("toggle_user:%s", id)
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].IsActive = !s.users[i].IsActive
		}
	}
	return nil
}

func (s *stubAPI) DeleteUser(ctx context.Context, token, id string) error {
	s.record("delete_user:%s", id)
	kept := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	return nil
}

func (s *stubAPI) AddAudit(ctx context.Context, token string, e platform.AuditEntry) error {
	s.record("add_audit:%s", e.Action)
	s.audit = append(s.audit, e)
	return nil
}

func (s *stubAPI) ListAudit(ctx context.Context, token string, limit, offset int) ([]platform.AuditEntry, int, error) {
	s.record("list_audit:%d:%d", limit, offset)
	if offset >= len(s.audit) {
		return nil, s.auditTotal, nil
	}
	end := offset + limit
	if end > len(s.audit) {
		end = len(s.audit)
	}
	out := make([]platform.AuditEntry, end-offset)
	copy(out, s.audit[offset:end])
	return out, s.auditTotal, nil
}

func (s *stubAPI) ListContent(ctx context.Context, token, pageKey string) ([]platform.ContentBlock, error) {
	var out []platform.ContentBlock
	for _, b := range s.content {
		if b.PageKey == pageKey {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sort < out[j].Sort })
	return out, nil
}

func (s *stubAPI) UpsertContentBlock(ctx context.Context, token string, b platform.ContentBlock) error {
	s.record("upsert_content:%s:%s", b.PageKey, b.BlockKey)
	for i := range s.content {
		if s.content[i].PageKey == b.PageKey && s.content[i].BlockKey == b.BlockKey {
			s.content[i] = b
			return nil
		}
	}
	s.content = append(s.content, b)
	return nil
}

func (s *stubAPI) DeleteContentBlock(ctx context.Context, token, pageKey, blockKey string) error {
	s.record("delete_content:%s:%s", pageKey, blockKey)
	kept := s.content[:0]
	for _, b := range s.content {
		if !(b.PageKey == pageKey && b.BlockKey == blockKey) {
			kept = append(kept, b)
		}
	}
	s.content = kept
	return nil
}

func (s *stubAPI) ListQuestionnaires(ctx context.Context, token string) ([]platform.Questionnaire, error) {
	out := make([]platform.Questionnaire, len(s.questionnaires))
	copy(out, s.questionnaires)
	return out, nil
}

func (s *stubAPI) UpsertQuestionnaire(ctx context.Context, token string, q platform.Questionnaire) error {
	s.record("upsert_questionnaire:%s", q.QuestionnaireKey)
	for i := range s.questionnaires {
		if s.questionnaires[i].QuestionnaireKey == q.QuestionnaireKey {
			s.questionnaires[i] = q
			return nil
		}
	}
	s.questionnaires = append(s.questionnaires, q)
	return nil
}

func (s *stubAPI) SaveSlots(ctx context.Context, token, questionnaireKey string, slots []platform.Slot) error {
	s.record("save_slots:%s:%d", questionnaireKey, len(slots))
	s.slots[questionnaireKey] = slots
	return nil
}

func (s *stubAPI) ListStations(ctx context.Context, token string) ([]platform.Station, error) {
	out := make([]platform.Station, len(s.stations))
	copy(out, s.stations)
	return out, nil
}

func (s *stubAPI) UpsertStation(ctx context.Context, token string, st platform.Station) error {
	s.record("upsert_station:%s", st.StationKey)
	for i := range s.stations {
		if s.stations[i].StationKey == st.StationKey {
			s.stations[i] = st
			return nil
		}
	}
	s.stations = append(s.stations, st)
	return nil
}

func (s *stubAPI) DeleteStation(ctx context.Context, token, stationKey string) error {
	s.record("delete_station:%s", stationKey)
	kept := s.stations[:0]
	for _, st := range s.stations {
		if st.StationKey != stationKey {
			kept = append(kept, st)
		}
	}
	s.stations = kept
	return nil
}

var _ API = (*stubAPI)(nil)

func testToken() string { return "tok" }

// testStore returns a store with de and en enabled, the default setup for
// translation validation tests.
func testStore() *state.Store {
	st := state.NewStore()
	st.Languages = []platform.Language{
		{Lang: "de", Label: "Deutsch", Enabled: true},
		{Lang: "en", Label: "English", Enabled: true},
		{Lang: "fr", Label: "Français", Enabled: false},
	}
	return st
}
