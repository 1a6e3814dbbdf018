// Package web binds the shell and controllers to the HTTP surface consumed
// by the console frontend.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lbatschelet/feelvonroll-admin/internal/config"
	"github.com/lbatschelet/feelvonroll-admin/internal/console"
	"github.com/lbatschelet/feelvonroll-admin/internal/middleware"
	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/session"
	"github.com/lbatschelet/feelvonroll-admin/internal/shell"
	"github.com/lbatschelet/feelvonroll-admin/internal/utils"
)

type Server struct {
	cfg *config.Config
	mgr *session.Manager

	commit    string
	buildTime string
}

func NewServer(cfg *config.Config, mgr *session.Manager, commit, buildTime string) *Server {
	return &Server{cfg: cfg, mgr: mgr, commit: commit, buildTime: buildTime}
}

// Router assembles all console routes plus the static/dev frontend
// fallthrough, wrapped in the middleware stack.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireSession)

	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	authed.HandleFunc("/nav/{page}", s.handleNavigate).Methods(http.MethodPost)

	authed.HandleFunc("/pins", s.handlePins).Methods(http.MethodGet)
	authed.HandleFunc("/pins/bulk", s.handlePinsBulk).Methods(http.MethodPost)
	authed.HandleFunc("/pins/export.csv", s.handlePinsExport).Methods(http.MethodGet)
	authed.HandleFunc("/pins/{id}/cycle", s.handlePinCycle).Methods(http.MethodPost)

	authed.HandleFunc("/questionnaire", s.handleQuestionnaire).Methods(http.MethodGet)
	authed.HandleFunc("/questionnaire/questions", s.handleQuestionNew).Methods(http.MethodPost)
	authed.HandleFunc("/questionnaire/questions/{key}", s.handleQuestionUpdate).Methods(http.MethodPut)
	authed.HandleFunc("/questionnaire/questions/{key}", s.handleQuestionDelete).Methods(http.MethodDelete)
	authed.HandleFunc("/questionnaire/reorder", s.handleQuestionReorder).Methods(http.MethodPost)
	authed.HandleFunc("/questionnaire/translations", s.handleQuestionTranslation).Methods(http.MethodPost)
	authed.HandleFunc("/questionnaire/save", s.handleQuestionnaireSave).Methods(http.MethodPost)
	authed.HandleFunc("/questionnaire/discard", s.handleQuestionnaireDiscard).Methods(http.MethodPost)

	authed.HandleFunc("/questions/{key}/options", s.handleOptionAdd).Methods(http.MethodPost)
	authed.HandleFunc("/questions/{key}/options/reorder", s.handleOptionReorder).Methods(http.MethodPost)
	authed.HandleFunc("/questions/{key}/options/{opt}", s.handleOptionDelete).Methods(http.MethodDelete)
	authed.HandleFunc("/questions/{key}/options/{opt}/toggle", s.handleOptionToggle).Methods(http.MethodPost)
	authed.HandleFunc("/questions/{key}/options/{opt}/translation", s.handleOptionTranslation).Methods(http.MethodPost)

	authed.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)
	authed.HandleFunc("/languages", s.handleLanguageSave).Methods(http.MethodPost)
	authed.HandleFunc("/languages/select", s.handleLanguageSelect).Methods(http.MethodPost)
	authed.HandleFunc("/languages/{lang}/toggle", s.handleLanguageToggle).Methods(http.MethodPost)

	authed.HandleFunc("/users", s.handleUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users", s.handleUserSave).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}/toggle", s.handleUserToggle).Methods(http.MethodPost)
	authed.HandleFunc("/users/{id}", s.handleUserDelete).Methods(http.MethodDelete)

	authed.HandleFunc("/audit", s.handleAudit).Methods(http.MethodGet)

	authed.HandleFunc("/content/{pageKey}", s.handleContent).Methods(http.MethodGet)
	authed.HandleFunc("/content/{pageKey}/blocks", s.handleContentBlockSave).Methods(http.MethodPost)
	authed.HandleFunc("/content/{pageKey}/blocks/{blockKey}", s.handleContentBlockDelete).Methods(http.MethodDelete)
	authed.HandleFunc("/content/{pageKey}/blocks/{blockKey}/text", s.handleContentText).Methods(http.MethodPost)

	authed.HandleFunc("/questionnaires", s.handleQuestionnaires).Methods(http.MethodGet)
	authed.HandleFunc("/questionnaires", s.handleQuestionnaireMetaSave).Methods(http.MethodPost)
	authed.HandleFunc("/questionnaires/{key}/slots", s.handleSlotsSave).Methods(http.MethodPost)

	authed.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet)
	authed.HandleFunc("/stations", s.handleStationSave).Methods(http.MethodPost)
	authed.HandleFunc("/stations/{key}", s.handleStationDelete).Methods(http.MethodDelete)

	// frontend: static build or dev proxy, same strategy on / as the API has
	if s.cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.StaticDir)))
	} else if s.cfg.DevFrontendURL != "" {
		if u, err := url.Parse(s.cfg.DevFrontendURL); err == nil {
			rp := httputil.NewSingleHostReverseProxy(u)
			// no-store must also hold for proxied dev responses
			rp.ModifyResponse = func(res *http.Response) error {
				res.Header.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
				res.Header.Set("Pragma", "no-cache")
				res.Header.Set("Expires", "0")
				return nil
			}
			r.PathPrefix("/").Handler(rp)
		} else {
			log.Printf("invalid FVR_DEV_FRONTEND_URL=%q: %v", s.cfg.DevFrontendURL, err)
		}
	}

	var h http.Handler = r
	h = middleware.WithSession(s.mgr, h)
	h = middleware.LocaleMiddleware(h)
	h = middleware.SecureHeaders(h)
	h = middleware.NoStore(h)
	if s.cfg.AllowOrigin != "" {
		h = middleware.CORS(s.cfg.AllowOrigin, h)
	}
	return h
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError surfaces the failure as a status-banner string. Upstream 401s
// additionally force the session out.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if ce, ok := console.AsConsoleError(err); ok {
		switch ce.Code {
		case console.ErrorInvalid:
			status = http.StatusBadRequest
		case console.ErrorNotFound:
			status = http.StatusNotFound
		case console.ErrorConflict:
			status = http.StatusConflict
		case console.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
	}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		sess.Shell.SetStatus(err.Error())
		if platform.IsUnauthorized(err) {
			s.mgr.ForceLogout(sess)
			status = http.StatusUnauthorized
		}
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func sessionAndSet(r *http.Request) (*session.Session, *console.Set) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, nil
	}
	set, _ := sess.Controllers.(*console.Set)
	return sess, set
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return console.NewInvalidError("invalid request body: " + err.Error())
	}
	return nil
}

// --- meta ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"name":       "feelvonroll admin console",
		"locale":     locale,
		"msg":        utils.T(locale, "health.ok"),
		"commit":     s.commit,
		"build_time": s.buildTime,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"commit": s.commit, "build_time": s.buildTime})
}

// --- auth ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, cookie, err := s.mgr.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": err.Error()})
		return
	}
	set, _ := sess.Controllers.(*console.Set)
	if set != nil {
		// languages drive everything else; pins is the landing page
		if err := set.Languages.Load(r.Context()); err != nil {
			sess.Shell.SetStatus(err.Error())
		}
		if err := set.Pins.Load(r.Context()); err != nil {
			sess.Shell.SetStatus(err.Error())
		}
		if _, err := sess.Shell.Navigate(r.Context(), shell.PagePins, shell.ResolveNone); err != nil {
			sess.Shell.SetStatus(err.Error())
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    cookie,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"email": sess.Email,
		"role":  sess.Role,
		"page":  sess.Shell.Current(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionAndSet(r)
	s.mgr.Logout(r.Context(), sess)
	http.SetCookie(w, &http.Cookie{Name: middleware.CookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":  true,
		"msg": utils.T(middleware.LocaleFromContext(r.Context()), "status.loggedout"),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionAndSet(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"email":  sess.Email,
		"role":   sess.Role,
		"page":   sess.Shell.Current(),
		"path":   shell.PathForPage(sess.Shell.Current()),
		"status": sess.Shell.Status(),
	})
}

// --- navigation ---

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sess, set := sessionAndSet(r)
	to := shell.PageForPath("/" + mux.Vars(r)["page"])
	res := shell.Resolution(r.URL.Query().Get("resolve"))
	nav, err := sess.Shell.Navigate(r.Context(), to, res)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if nav.Blocked {
		writeJSON(w, http.StatusConflict, map[string]any{
			"blocked": true,
			"page":    nav.Page,
			"choices": []string{"save", "discard", "stay"},
		})
		return
	}
	if nav.Page == to {
		if err := s.loadPage(r, set, to); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, nav)
}

// loadPage runs the target page's loader so the follow-up render has data.
func (s *Server) loadPage(r *http.Request, set *console.Set, page shell.PageKey) error {
	ctx := r.Context()
	switch page {
	case shell.PagePins:
		return set.Pins.Load(ctx)
	case shell.PageQuestionnaire:
		return set.Questionnaire.Load(ctx)
	case shell.PageLanguages:
		return set.Languages.Load(ctx)
	case shell.PageUsers:
		return set.Users.Load(ctx)
	case shell.PageAudit:
		return set.Audit.Load(ctx)
	case shell.PageQuestionnaires:
		return set.Questionnaires.Load(ctx)
	case shell.PageStations:
		return set.Stations.Load(ctx)
	}
	return nil
}

// --- pins ---

func (s *Server) handlePins(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	set.Pins.SetView(q.Get("filter"), q.Get("query"), q.Get("sort"), page, size)
	writeJSON(w, http.StatusOK, set.Pins.Render())
}

func (s *Server) handlePinCycle(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Pins.CycleStatus(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Pins.Render())
}

func (s *Server) handlePinsBulk(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Action string   `json:"action"`
		IDs    []string `json:"ids"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Pins.Bulk(r.Context(), req.Action, req.IDs); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Pins.Render())
}

func (s *Server) handlePinsExport(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	blob, err := set.Pins.ExportCSV(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=pins.csv")
	_, _ = w.Write(blob)
}

// --- questionnaire ---

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionNew(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var edit console.QuestionEdit
	if err := decode(r, &edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Questionnaire.StageNew(edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionUpdate(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var edit console.QuestionEdit
	if err := decode(r, &edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	edit.QuestionKey = mux.Vars(r)["key"]
	if err := set.Questionnaire.StageUpdate(edit); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Questionnaire.StageDelete(mux.Vars(r)["key"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionReorder(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Move   string `json:"move"`
		Target string `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	set.Questionnaire.Reorder(req.Move, req.Target)
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionTranslation(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Lang string `json:"lang"`
		Key  string `json:"key"`
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	set.Questionnaire.SetTranslation(req.Lang, req.Key, req.Text)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleQuestionnaireSave(w http.ResponseWriter, r *http.Request) {
	sess, set := sessionAndSet(r)
	if err := set.Questionnaire.Save(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Shell.SetStatus(utils.T(middleware.LocaleFromContext(r.Context()), "status.saved"))
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleQuestionnaireDiscard(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Questionnaire.Discard(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

// --- options ---

func (s *Server) handleOptionAdd(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		OptionKey string `json:"option_key"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Options.Add(r.Context(), mux.Vars(r)["key"], req.OptionKey); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleOptionDelete(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	v := mux.Vars(r)
	if err := set.Options.Delete(r.Context(), v["key"], v["opt"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleOptionToggle(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	v := mux.Vars(r)
	if err := set.Options.ToggleActive(r.Context(), v["key"], v["opt"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleOptionTranslation(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	v := mux.Vars(r)
	var req struct {
		Lang string `json:"lang"`
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Options.SetTranslation(r.Context(), v["key"], v["opt"], req.Lang, req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

func (s *Server) handleOptionReorder(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Keys []string `json:"keys"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Options.Reorder(r.Context(), mux.Vars(r)["key"], req.Keys); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaire.Render())
}

// --- languages ---

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	writeJSON(w, http.StatusOK, set.Languages.Render())
}

func (s *Server) handleLanguageSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var l platform.Language
	if err := decode(r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Languages.Save(r.Context(), l); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Languages.Render())
}

func (s *Server) handleLanguageSelect(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Lang string `json:"lang"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Languages.Select(r.Context(), req.Lang); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Languages.Render())
}

func (s *Server) handleLanguageToggle(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Languages.Toggle(r.Context(), mux.Vars(r)["lang"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Languages.Render())
}

// --- users ---

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	writeJSON(w, http.StatusOK, set.Users.Render())
}

func (s *Server) handleUserSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var u platform.User
	if err := decode(r, &u); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Users.Save(r.Context(), u); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Users.Render())
}

func (s *Server) handleUserToggle(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Users.Toggle(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Users.Render())
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Users.Render())
}

// --- audit ---

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	set.Audit.SetPage(limit, offset)
	if err := set.Audit.Load(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Audit.Render())
}

// --- content ---

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	pageKey := mux.Vars(r)["pageKey"]
	if err := set.Content.Load(r.Context(), pageKey); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Content.Render(pageKey))
}

func (s *Server) handleContentBlockSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var b platform.ContentBlock
	if err := decode(r, &b); err != nil {
		s.writeError(w, r, err)
		return
	}
	b.PageKey = mux.Vars(r)["pageKey"]
	if err := set.Content.SaveBlock(r.Context(), b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Content.Render(b.PageKey))
}

func (s *Server) handleContentBlockDelete(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	v := mux.Vars(r)
	if err := set.Content.DeleteBlock(r.Context(), v["pageKey"], v["blockKey"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Content.Render(v["pageKey"]))
}

func (s *Server) handleContentText(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	v := mux.Vars(r)
	var req struct {
		Lang string `json:"lang"`
		Text string `json:"text"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Content.SetText(r.Context(), v["pageKey"], v["blockKey"], req.Lang, req.Text); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Content.Render(v["pageKey"]))
}

// --- questionnaires ---

func (s *Server) handleQuestionnaires(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	writeJSON(w, http.StatusOK, set.Questionnaires.Render())
}

func (s *Server) handleQuestionnaireMetaSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var q platform.Questionnaire
	if err := decode(r, &q); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Questionnaires.Save(r.Context(), q); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaires.Render())
}

func (s *Server) handleSlotsSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var req struct {
		Slots []platform.Slot `json:"slots"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Questionnaires.SaveSlots(r.Context(), mux.Vars(r)["key"], req.Slots); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Questionnaires.Render())
}

// --- stations ---

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	writeJSON(w, http.StatusOK, set.Stations.Render())
}

func (s *Server) handleStationSave(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	var st platform.Station
	if err := decode(r, &st); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := set.Stations.Save(r.Context(), st); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Stations.Render())
}

func (s *Server) handleStationDelete(w http.ResponseWriter, r *http.Request) {
	_, set := sessionAndSet(r)
	if err := set.Stations.Delete(r.Context(), mux.Vars(r)["key"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set.Stations.Render())
}
