package main

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS
	templates   = template.Must(template.New("").Funcs(template.FuncMap{
		"roles": func() []string { return roles },
	}).ParseFS(templatesFS, "templates/*.html"))

	//go:embed assets/*
	assetsFS embed.FS
)

func (s *server) renderTemplate(w http.ResponseWriter, code int, template string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	err := templates.ExecuteTemplate(w, template, data)
	if err != nil {
		slog.Error("serving html", "template", template, "error", err)
	}
}

func (s *server) renderError(w http.ResponseWriter, reqErr error) {
	code := statusCode(reqErr)
	data := map[string]any{
		"Title":   fmt.Sprintf("%d %s", code, http.StatusText(code)),
		"Status":  code,
		"Message": reqErr.Error(),
	}

	if code >= http.StatusInternalServerError {
		slog.Error("serving html", "error", reqErr)
	}

	s.renderTemplate(w, code, "error.html", data)
}
