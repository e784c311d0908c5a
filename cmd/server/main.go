package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/csg33k/vessel-reports/internal/adapters/inspection"
	"github.com/csg33k/vessel-reports/internal/adapters/mailer"
	"github.com/csg33k/vessel-reports/internal/adapters/pdf"
	"github.com/csg33k/vessel-reports/internal/adapters/rbd"
	sqliteadapter "github.com/csg33k/vessel-reports/internal/adapters/sqlite"
	"github.com/csg33k/vessel-reports/internal/adapters/templatesource"
	"github.com/csg33k/vessel-reports/internal/config"
	"github.com/csg33k/vessel-reports/internal/domain"
	"github.com/csg33k/vessel-reports/internal/handlers"
	"github.com/csg33k/vessel-reports/internal/middleware"
	"github.com/csg33k/vessel-reports/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	repo, err := sqliteadapter.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if cfg.AutoMigrate {
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	catalog, err := domain.LoadVesselCatalog(cfg.VesselsFile)
	if err != nil {
		log.Fatalf("failed to load vessel catalog: %v", err)
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if !mail.Enabled() {
		slog.Warn("SMTP_HOST not set; reports can only be downloaded")
	}

	sessions := session.NewStore(cfg.SessionTTL)
	go sweepSessions(sessions, time.Minute*10)

	h := handlers.New(handlers.Config{
		Trips:              repo,
		Templates:          templatesource.New(cfg.TemplateTimeout),
		Mailer:             mail,
		Inspection:         inspection.New(),
		Expense:            rbd.New(cfg.RBDSignPlace),
		Summary:            pdf.New(),
		Sessions:           sessions,
		Catalog:            catalog,
		InspectionTemplate: cfg.InspectionTemplate,
		RBDTemplate:        cfg.RBDTemplate,
	})

	app := middleware.Chain(h.Routes(),
		middleware.RequestLogger(slog.Default()),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: middleware.DefaultCSP}),
		middleware.MaxBody(handlers.MaxUpload+1<<20),
	)

	log.Printf("Vessel Reports running on http://localhost:%s", cfg.Port)
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("Inspection template: %s", cfg.InspectionTemplate)
	log.Printf("RBD template: %s", cfg.RBDTemplate)
	if err := http.ListenAndServe(":"+cfg.Port, app); err != nil {
		log.Fatal(err)
	}
}

func sweepSessions(s *session.Store, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		if n := s.Sweep(); n > 0 {
			slog.Info("expired sessions dropped", "count", n)
		}
	}
}
