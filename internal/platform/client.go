package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client wraps the upstream feelvonroll API. Every resource family is a single
// endpoint: GETs list with query parameters, POSTs carry an "action"
// discriminator in the body. All persistence and validation is upstream; the
// client only normalizes transport errors.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Error is a normalized upstream failure. The console surfaces its text
// verbatim in the status banner.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is an upstream 401, which forces a
// logout of the console session.
func IsUnauthorized(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Status == http.StatusUnauthorized
	}
	return false
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// normalizeError turns a non-2xx response into "HTTP <status>: <message>",
// preferring the JSON {error} field over the raw body.
func normalizeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(b))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, token, query, nil, out)
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, token, nil, body, out)
}

// --- auth ---

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]any{"action": "login", "email": email, "password": password}
	if err := c.post(ctx, "/auth", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) RefreshToken(ctx context.Context, token string) (*Session, error) {
	var s Session
	if err := c.post(ctx, "/auth", token, map[string]any{"action": "refresh"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.post(ctx, "/auth", token, map[string]any{"action": "logout"}, nil)
}

// --- pins ---

func (c *Client) ListPins(ctx context.Context, token string) ([]Pin, error) {
	var out struct {
		Pins []Pin `json:"pins"`
	}
	if err := c.get(ctx, "/pins", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Pins, nil
}

// UpdateApproval sets the approval state for all given pins in one call.
func (c *Client) UpdateApproval(ctx context.Context, token string, ids []string, approved int) error {
	body := map[string]any{"action": "update_approval", "ids": ids, "approved": approved}
	return c.post(ctx, "/pins", token, body, nil)
}

func (c *Client) DeletePins(ctx context.Context, token string, ids []string) error {
	return c.post(ctx, "/pins", token, map[string]any{"action": "delete", "ids": ids}, nil)
}

// ExportPinsCSV returns the upstream CSV blob untouched.
func (c *Client) ExportPinsCSV(ctx context.Context, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pins?format=csv", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// --- questions ---

func (c *Client) ListQuestions(ctx context.Context, token string) ([]Question, error) {
	var out struct {
		Questions []Question `json:"questions"`
	}
	if err := c.get(ctx, "/questions", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) UpsertQuestion(ctx context.Context, token string, q Question) error {
	body := map[string]any{
		"action":       "upsert",
		"question_key": q.QuestionKey,
		"type":         q.Type,
		"required":     q.Required,
		"is_active":    q.IsActive,
		"sort":         q.Sort,
		"config":       q.Config,
	}
	return c.post(ctx, "/questions", token, body, nil)
}

func (c *Client) DeleteQuestion(ctx context.Context, token, questionKey string) error {
	body := map[string]any{"action": "delete", "question_key": questionKey}
	return c.post(ctx, "/questions", token, body, nil)
}

// --- options ---

func (c *Client) ListOptions(ctx context.Context, token, questionKey string) ([]Option, error) {
	q := url.Values{}
	if questionKey != "" {
		q.Set("question_key", questionKey)
	}
	var out struct {
		Options []Option `json:"options"`
	}
	if err := c.get(ctx, "/options", token, q, &out); err != nil {
		return nil, err
	}
	return out.Options, nil
}

func (c *Client) UpsertOption(ctx context.Context, token string, o Option) error {
	body := map[string]any{
		"action":       "upsert",
		"question_key": o.QuestionKey,
		"option_key":   o.OptionKey,
		"sort":         o.Sort,
		"is_active":    o.IsActive,
	}
	return c.post(ctx, "/options", token, body, nil)
}

func (c *Client) DeleteOption(ctx context.Context, token, questionKey, optionKey string) error {
	body := map[string]any{"action": "delete", "question_key": questionKey, "option_key": optionKey}
	return c.post(ctx, "/options", token, body, nil)
}

// ReorderOptions rewrites the sort index across the full option set of one
// question; keys are the new order.
func (c *Client) ReorderOptions(ctx context.Context, token, questionKey string, keys []string) error {
	body := map[string]any{"action": "reorder", "question_key": questionKey, "option_keys": keys}
	return c.post(ctx, "/options", token, body, nil)
}

// --- translations ---

// ListTranslations returns the flat key→text map for one language, optionally
// restricted to a key prefix.
func (c *Client) ListTranslations(ctx context.Context, token, lang, prefix string) (map[string]string, error) {
	q := url.Values{"lang": {lang}}
	if prefix != "" {
		q.Set("prefix", prefix)
	}
	var out struct {
		Translations map[string]string `json:"translations"`
	}
	if err := c.get(ctx, "/translations", token, q, &out); err != nil {
		return nil, err
	}
	if out.Translations == nil {
		out.Translations = map[string]string{}
	}
	return out.Translations, nil
}

func (c *Client) UpsertTranslation(ctx context.Context, token, lang, key, text string) error {
	body := map[string]any{"action": "upsert", "lang": lang, "key": key, "text": text}
	return c.post(ctx, "/translations", token, body, nil)
}

func (c *Client) DeleteTranslation(ctx context.Context, token, lang, key string) error {
	body := map[string]any{"action": "delete", "lang": lang, "key": key}
	return c.post(ctx, "/translations", token, body, nil)
}

// --- languages ---

func (c *Client) ListLanguages(ctx context.Context, token string) ([]Language, error) {
	var out struct {
		Languages []Language `json:"languages"`
	}
	if err := c.get(ctx, "/languages", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}

func (c *Client) UpsertLanguage(ctx context.Context, token string, l Language) error {
	body := map[string]any{"action": "upsert", "lang": l.Lang, "label": l.Label, "enabled": l.Enabled}
	return c.post(ctx, "/languages", token, body, nil)
}

func (c *Client) ToggleLanguage(ctx context.Context, token, lang string) error {
	return c.post(ctx, "/languages", token, map[string]any{"action": "toggle", "lang": lang}, nil)
}

// --- users ---

func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.get(ctx, "/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) UpsertUser(ctx context.Context, token string, u User) error {
	body := map[string]any{
		"action":    "upsert",
		"id":        u.ID,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	}
	return c.post(ctx, "/users", token, body, nil)
}

func (c *Client) ToggleUser(ctx context.Context, token, id string) error {
	return c.post(ctx, "/users", token, map[string]any{"action": "toggle", "id": id}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.post(ctx, "/users", token, map[string]any{"action": "delete", "id": id}, nil)
}

// --- audit ---

func (c *Client) ListAudit(ctx context.Context, token string, limit, offset int) ([]AuditEntry, int, error) {
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	var out struct {
		Entries []AuditEntry `json:"entries"`
		Total   int          `json:"total"`
	}
	if err := c.get(ctx, "/audit", token, q, &out); err != nil {
		return nil, 0, err
	}
	return out.Entries, out.Total, nil
}

func (c *Client) AddAudit(ctx context.Context, token string, e AuditEntry) error {
	body := map[string]any{
		"action":       "append",
		"actor":        e.Actor,
		"audit_action": e.Action,
		"target":       e.Target,
		"note":         e.Note,
	}
	return c.post(ctx, "/audit", token, body, nil)
}

// --- content ---

func (c *Client) ListContent(ctx context.Context, token, pageKey string) ([]ContentBlock, error) {
	q := url.Values{"page_key": {pageKey}}
	var out struct {
		Blocks []ContentBlock `json:"blocks"`
	}
	if err := c.get(ctx, "/content", token, q, &out); err != nil {
		return nil, err
	}
	return out.Blocks, nil
}

func (c *Client) UpsertContentBlock(ctx context.Context, token string, b ContentBlock) error {
	body := map[string]any{
		"action":    "upsert",
		"page_key":  b.PageKey,
		"block_key": b.BlockKey,
		"kind":      b.Kind,
		"sort":      b.Sort,
	}
	return c.post(ctx, "/content", token, body, nil)
}

func (c *Client) DeleteContentBlock(ctx context.Context, token, pageKey, blockKey string) error {
	body := map[string]any{"action": "delete", "page_key": pageKey, "block_key": blockKey}
	return c.post(ctx, "/content", token, body, nil)
}

// --- questionnaires ---

func (c *Client) ListQuestionnaires(ctx context.Context, token string) ([]Questionnaire, error) {
	var out struct {
		Questionnaires []Questionnaire `json:"questionnaires"`
	}
	if err := c.get(ctx, "/questionnaires", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Questionnaires, nil
}

func (c *Client) UpsertQuestionnaire(ctx context.Context, token string, q Questionnaire) error {
	body := map[string]any{
		"action":            "upsert",
		"questionnaire_key": q.QuestionnaireKey,
		"label":             q.Label,
		"is_active":         q.IsActive,
	}
	return c.post(ctx, "/questionnaires", token, body, nil)
}

func (c *Client) SaveSlots(ctx context.Context, token, questionnaireKey string, slots []Slot) error {
	body := map[string]any{
		"action":            "save_slots",
		"questionnaire_key": questionnaireKey,
		"slots":             slots,
	}
	return c.post(ctx, "/questionnaires", token, body, nil)
}

// --- stations ---

func (c *Client) ListStations(ctx context.Context, token string) ([]Station, error) {
	var out struct {
		Stations []Station `json:"stations"`
	}
	if err := c.get(ctx, "/stations", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Stations, nil
}

func (c *Client) UpsertStation(ctx context.Context, token string, s Station) error {
	body := map[string]any{
		"action":      "upsert",
		"station_key": s.StationKey,
		"label":       s.Label,
		"floor":       s.Floor,
		"is_active":   s.IsActive,
	}
	return c.post(ctx, "/stations", token, body, nil)
}

func (c *Client) DeleteStation(ctx context.Context, token, stationKey string) error {
	body := map[string]any{"action": "delete", "station_key": stationKey}
	return c.post(ctx, "/stations", token, body, nil)
}
