package platform

import "time"

// Session is the authenticated state returned by the upstream auth endpoint.
// The token is opaque to the console; it is attached verbatim as a bearer token.
type Session struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Pin is a single submitted survey response tied to a map location.
// Approved is tri-state: 1 approved, -1 rejected, 0 pending.
type Pin struct {
	ID        string    `json:"id"`
	Floor     string    `json:"floor"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Wellbeing int       `json:"wellbeing"`
	Note      string    `json:"note"`
	Reasons   []string  `json:"reasons,omitempty"`
	Group     string    `json:"group,omitempty"`
	Approved  int       `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is a questionnaire entry. Config is type-specific:
// slider {min,max,step,default,use_for_color}, text {rows}, multi {allow_multiple}.
type Question struct {
	QuestionKey string         `json:"question_key"`
	Type        string         `json:"type"`
	Required    bool           `json:"required"`
	IsActive    bool           `json:"is_active"`
	Sort        int            `json:"sort"`
	Config      map[string]any `json:"config,omitempty"`
}

// Option belongs to exactly one multi-type question.
type Option struct {
	QuestionKey    string `json:"question_key"`
	OptionKey      string `json:"option_key"`
	Sort           int    `json:"sort"`
	IsActive       bool   `json:"is_active"`
	TranslationKey string `json:"translation_key"`
}

// Language is a translation locale. Disabled languages stay listed so
// translators can pre-populate them before activation.
type Language struct {
	Lang    string `json:"lang"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentBlock is one section of a content page; its copy lives in the
// translations table under content.<page_key>.<block_key>.
type ContentBlock struct {
	PageKey  string `json:"page_key"`
	BlockKey string `json:"block_key"`
	Kind     string `json:"kind"`
	Sort     int    `json:"sort"`
}

// Slot is a questionnaire position filled either by a fixed question or a
// random pick from a pool.
type Slot struct {
	Index       int      `json:"index"`
	Mode        string   `json:"mode"` // fixed | pool
	QuestionKey string   `json:"question_key,omitempty"`
	Pool        []string `json:"pool,omitempty"`
}

type Questionnaire struct {
	QuestionnaireKey string `json:"questionnaire_key"`
	Label            string `json:"label"`
	IsActive         bool   `json:"is_active"`
	Slots            []Slot `json:"slots,omitempty"`
}

// Station is a physical QR-code entry point; URL is derived from the key.
type Station struct {
	StationKey string `json:"station_key"`
	Label      string `json:"label"`
	Floor      string `json:"floor"`
	IsActive   bool   `json:"is_active"`
	URL        string `json:"url,omitempty"`
}
