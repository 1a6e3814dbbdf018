package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSendsBearerTokenAndAction(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	if err := c.ToggleLanguage(context.Background(), "tok", "fr"); err != nil {
		t.Fatalf("ToggleLanguage: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody["action"] != "toggle" || gotBody["lang"] != "fr" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestClientNormalizesJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"insufficient role"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListUsers(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "HTTP 403: insufficient role" {
		t.Fatalf("err = %q", err)
	}
}

func TestClientNormalizesPlainBodyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.DeletePins(context.Background(), "tok", []string{"p1"})
	if err == nil || err.Error() != "HTTP 502: gateway timeout" {
		t.Fatalf("err = %v", err)
	}
}

func TestClientEmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.DeleteStation(context.Background(), "tok", "x")
	if err == nil || err.Error() != "HTTP 404: Not Found" {
		t.Fatalf("err = %v", err)
	}
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListPins(context.Background(), "stale")
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = false", err)
	}
	if IsUnauthorized(context.Canceled) {
		t.Fatal("unrelated errors must not read as 401")
	}
}

func TestListTranslationsQueryAndNilMap(t *testing.T) {
	var gotLang, gotPrefix string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("lang")
		gotPrefix = r.URL.Query().Get("prefix")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tr, err := c.ListTranslations(context.Background(), "tok", "de", "content.imprint.")
	if err != nil {
		t.Fatalf("ListTranslations: %v", err)
	}
	if gotLang != "de" || gotPrefix != "content.imprint." {
		t.Fatalf("query = lang %q prefix %q", gotLang, gotPrefix)
	}
	if tr == nil {
		t.Fatal("missing map must come back empty, not nil")
	}
}

func TestAddAuditSendsActor(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.AddAudit(context.Background(), "tok", AuditEntry{
		Actor:  "mod@feelvonroll.ch",
		Action: "pin_status",
		Target: "p1",
		Note:   "2",
	})
	if err != nil {
		t.Fatalf("AddAudit: %v", err)
	}
	if gotBody["action"] != "append" || gotBody["actor"] != "mod@feelvonroll.ch" {
		t.Fatalf("body = %v", gotBody)
	}
	if gotBody["audit_action"] != "pin_status" || gotBody["target"] != "p1" {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestListAuditDecodesTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entries":[{"id":"a1","action":"pin.approve"}],"total":41}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	entries, total, err := c.ListAudit(context.Background(), "tok", 50, 0)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if len(entries) != 1 || total != 41 {
		t.Fatalf("entries = %d total = %d", len(entries), total)
	}
}

func TestExportPinsCSVPassesBlobThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "csv" {
			t.Errorf("format = %q", r.URL.Query().Get("format"))
		}
		_, _ = w.Write([]byte("id,floor\np1,EG\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	blob, err := c.ExportPinsCSV(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ExportPinsCSV: %v", err)
	}
	if string(blob) != "id,floor\np1,EG\n" {
		t.Fatalf("blob = %q", blob)
	}
}
