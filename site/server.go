package site

import (
	"fmt"
	"html/template"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"civicrec-monitor/config"
	"civicrec-monitor/snapshot"
)

var templates *template.Template

type statusData struct {
	CatalogURL string
	Tracked    []string
	Offerings  []snapshot.Offering
	LastRun    string
}

// StartServer serves the latest monitoring artifacts: a status page, the
// plain-text report, the baseline JSON and the ICS feed.
func StartServer(cfg *config.Config) error {
	var err error
	templates, err = template.ParseGlob("site/templates/*.html")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	http.HandleFunc("/", statusHandler(cfg))
	http.HandleFunc("/report", fileHandler(cfg.ReportFile, "text/plain; charset=utf-8"))
	http.HandleFunc("/baseline.json", fileHandler(cfg.BaselineFile, "application/json"))
	http.HandleFunc("/calendar.ics", fileHandler(cfg.CalendarFile, "text/calendar"))

	addr := ":" + cfg.ServePort
	log.Infof("starting status server on http://localhost%s", addr)
	return http.ListenAndServe(addr, nil)
}

func statusHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		base := snapshot.LoadBaseline(cfg.BaselineFile)
		data := statusData{
			CatalogURL: cfg.CatalogURL,
			Tracked:    cfg.TrackedOfferings,
			Offerings:  base.Items,
			LastRun:    "never",
		}
		if base.LastUpdated != nil {
			data.LastRun = base.LastUpdated.Format("2006-01-02 15:04:05 MST")
		}

		if err := templates.ExecuteTemplate(w, "index.html", data); err != nil {
			log.Warnf("rendering status page: %v", err)
		}
	}
}

func fileHandler(filename, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(filename)
		if err != nil {
			http.Error(w, fmt.Sprintf("%s not available yet", filename), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
