package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/lbatschelet/feelvonroll-admin/internal/config"
	"github.com/lbatschelet/feelvonroll-admin/internal/console"
	"github.com/lbatschelet/feelvonroll-admin/internal/platform"
	"github.com/lbatschelet/feelvonroll-admin/internal/session"
	"github.com/lbatschelet/feelvonroll-admin/internal/shell"
	"github.com/lbatschelet/feelvonroll-admin/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	commit := os.Getenv("FVR_COMMIT")
	buildTime := os.Getenv("FVR_BUILD_TIME")

	client := platform.NewClient(cfg.APIBaseURL)

	mgr, err := session.NewManager(client, cfg.SessionSecret, func(s *session.Session) {
		s.Store.PageSize = cfg.PageSize
		set := console.NewSet(s.Store, client, s.Token, cfg.InstallationURL)
		s.Shell.RegisterGuard(shell.PageQuestionnaire, set.Questionnaire)
		s.Controllers = set
	})
	if err != nil {
		log.Fatalf("session manager: %v", err)
	}
	mgr.StartRefreshLoop(context.Background())

	srv := web.NewServer(cfg, mgr, commit, buildTime)

	log.Printf("feelvonroll admin console listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
