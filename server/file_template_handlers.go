package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/jrsteele09/orbithall-admin/internal/utils"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

// Pages are rendered inside layout.html. Fragments are HTMX panels rendered on their own.
const (
	pageLogin      = "login.html"
	pageHome       = "home.html"
	pageSites      = "sites.html"
	pageSiteNew    = "site_new.html"
	pageSiteDetail = "site_detail.html"
	pageSiteEdit   = "site_edit.html"
	pageError      = "error.html"

	fragmentStats = "stats_panel.html"
	fragmentPosts = "posts_panel.html"
)

var pageNames = []string{
	pageLogin,
	pageHome,
	pageSites,
	pageSiteNew,
	pageSiteDetail,
	pageSiteEdit,
	pageError,
	fragmentStats,
	fragmentPosts,
}

var funcMap = template.FuncMap{
	"csrfField":      csrf.TemplateField,
	"formatDate":     formatDate,
	"formatDateTime": formatDateTime,
	"tokenPreview":   tokenPreview,
	"errorPanel": func(title, message string) errorPanelData {
		return errorPanelData{Title: title, Message: message}
	},
	"postTitle": func(title *string) string {
		if t := utils.Value(title); t != "" {
			return t
		}
		return "(untitled)"
	},
}

type errorPanelData struct {
	Title   string
	Message string
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// parsePages builds a template for each page by combining layout.html with the page template.
func parsePages() (map[string]*template.Template, error) {
	tmplFS := TemplateFilesFS()

	layoutBytes, err := fs.ReadFile(tmplFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pageBytes, err := fs.ReadFile(tmplFS, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		tmpl, err := template.New("layout.html").Funcs(funcMap).Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", name, err)
		}

		if _, err := tmpl.New(name).Parse(string(pageBytes)); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		pages[name] = tmpl
	}
	return pages, nil
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	s.render(w, status, name, "layout.html", data)
}

func (s *Server) renderFragment(w http.ResponseWriter, status int, name string, data any) {
	s.render(w, status, name, name, data)
}

func (s *Server) render(w http.ResponseWriter, status int, name, entry string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Buffered so a failed render can still answer 500.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		log.Err(err).Str("template", name).Msg("render error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// tokenPreview shows the first ten characters of a token.
func tokenPreview(token string) string {
	const previewLength = 10
	if len(token) <= previewLength {
		return token
	}
	return token[:previewLength] + "..."
}
