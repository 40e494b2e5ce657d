package app

import (
	"context"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/cleitonmarx/symbiont/introspection"
	"github.com/cleitonmarx/symbiont/introspection/mermaid"
)

// MermaidGraphIntrospector renders the app's initializer and dependency graph
// as Mermaid markup and registers it for the /introspect endpoint.
type MermaidGraphIntrospector struct{}

// Introspect generates the graph from the introspection report and registers
// it as a named dependency.
func (mi MermaidGraphIntrospector) Introspect(_ context.Context, r introspection.Report) error {
	graph := mermaid.GenerateIntrospectionGraph(r)
	depend.RegisterNamed(graph, "introspection-graph-mermaid")
	return nil
}
