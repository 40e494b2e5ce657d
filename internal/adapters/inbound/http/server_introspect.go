package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/cleitonmarx/symbiont/depend"
)

//go:embed templates/introspect.gohtml
var templateFS embed.FS

var introspectTmpl = template.Must(template.ParseFS(templateFS, "templates/introspect.gohtml"))

// IntrospectHandler renders the dependency graph the app registered at boot
// as an interactive Mermaid page.
func IntrospectHandler(w http.ResponseWriter, r *http.Request) {
	graph, err := depend.ResolveNamed[string]("introspection-graph-mermaid")
	if err != nil {
		http.Error(w, "Failed to resolve dependency graph", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		Title string
		Graph string
	}{
		Title: "Academy CRM Introspection Graph",
		Graph: graph,
	}
	if err := introspectTmpl.Execute(w, data); err != nil {
		http.Error(w, "Failed to render introspection page", http.StatusInternalServerError)
	}
}
