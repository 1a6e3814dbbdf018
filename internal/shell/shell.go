// Package shell owns page switching for the console: which page is visible,
// the unsaved-changes interception before a switch, and the status banner.
package shell

import (
	"context"
	"strings"
	"sync"

	"github.com/lbatschelet/feelvonroll-admin/internal/state"
)

type PageKey string

const (
	PageLogin          PageKey = "login"
	PagePins           PageKey = "pins"
	PageQuestionnaire  PageKey = "questionnaire"
	PageLanguages      PageKey = "languages"
	PageUsers          PageKey = "users"
	PageAudit          PageKey = "audit"
	PageContent        PageKey = "content"
	PageQuestionnaires PageKey = "questionnaires"
	PageStations       PageKey = "stations"
)

var pagePaths = map[PageKey]string{
	PageLogin:          "/login",
	PagePins:           "/pins",
	PageQuestionnaire:  "/questionnaire",
	PageLanguages:      "/languages",
	PageUsers:          "/users",
	PageAudit:          "/audit",
	PageContent:        "/content",
	PageQuestionnaires: "/questionnaires",
	PageStations:       "/stations",
}

// PathForPage returns the URL path for a page key.
func PathForPage(page PageKey) string {
	if p, ok := pagePaths[page]; ok {
		return p
	}
	return pagePaths[PagePins]
}

// PageForPath translates a URL path into a page key; unknown paths land on
// the pin list, the console's default page.
func PageForPath(path string) PageKey {
	path = "/" + strings.Trim(path, "/")
	if i := strings.Index(path[1:], "/"); i >= 0 {
		path = path[:i+1]
	}
	for key, p := range pagePaths {
		if p == path {
			return key
		}
	}
	return PagePins
}

// Guard is consulted before switching away from a page that may hold
// unsaved edits.
type Guard interface {
	IsDirty() bool
	Save(ctx context.Context) error
	Discard(ctx context.Context) error
}

// Resolution is the moderator's answer to the unsaved-changes dialog.
type Resolution string

const (
	ResolveNone    Resolution = ""
	ResolveSave    Resolution = "save"
	ResolveDiscard Resolution = "discard"
	ResolveStay    Resolution = "stay"
)

// NavResult reports where a navigation attempt ended up. Blocked means the
// dialog must be shown: the guard is dirty and no resolution was given.
type NavResult struct {
	Page    PageKey `json:"page"`
	Blocked bool    `json:"blocked"`
}

// Shell tracks the visible page and the registered dirty guards. Each prompt
// is independent: a resolution applies to exactly one navigation attempt.
// Handlers and the session refresh loop share a shell, so current and guards
// sit behind a lock.
type Shell struct {
	mu      sync.Mutex
	store   *state.Store
	current PageKey
	guards  map[PageKey]Guard
}

func New(store *state.Store) *Shell {
	return &Shell{
		store:   store,
		current: PageLogin,
		guards:  map[PageKey]Guard{},
	}
}

// RegisterGuard attaches a dirty guard to the page it protects.
func (s *Shell) RegisterGuard(page PageKey, g Guard) {
	s.mu.Lock()
	s.guards[page] = g
	s.mu.Unlock()
}

func (s *Shell) Current() PageKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Navigate attempts to switch to the target page. If the current page's
// guard reports unsaved edits and no resolution is given, the switch is
// blocked so the dialog can be presented. "save" runs the guard's Save and
// proceeds only if it succeeds; "discard" reloads server state and proceeds;
// "stay" aborts with no state change.
func (s *Shell) Navigate(ctx context.Context, to PageKey, res Resolution) (NavResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if to == s.current {
		return NavResult{Page: s.current}, nil
	}
	g := s.guards[s.current]
	if g != nil && g.IsDirty() {
		switch res {
		case ResolveSave:
			if err := g.Save(ctx); err != nil {
				return NavResult{Page: s.current, Blocked: true}, err
			}
		case ResolveDiscard:
			if err := g.Discard(ctx); err != nil {
				return NavResult{Page: s.current, Blocked: true}, err
			}
		case ResolveStay:
			return NavResult{Page: s.current}, nil
		default:
			return NavResult{Page: s.current, Blocked: true}, nil
		}
	}
	s.current = to
	return NavResult{Page: to}, nil
}

// ForceLogin drops to the login page without consulting guards; used when
// the session is forcibly logged out.
func (s *Shell) ForceLogin() {
	s.mu.Lock()
	s.current = PageLogin
	s.mu.Unlock()
}

// SetStatus writes the status banner text.
func (s *Shell) SetStatus(msg string) {
	s.store.Lock()
	s.store.Status = msg
	s.store.Unlock()
}

func (s *Shell) Status() string {
	s.store.Lock()
	defer s.store.Unlock()
	return s.store.Status
}
