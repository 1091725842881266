package search

import (
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
)

// SearchMonitor provides hooks to observe query execution.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(kind core.EntityKind, query string)
	AfterNormalize(f *filter.Node)
	AfterCompile(compiled *compile.CompiledQuery)
	AfterBackendSearch(candidates int, filterAdvisory bool)
	AfterPostFilter(kept int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.EntityKind, _ string)          {}
func (n *noopMonitor) AfterNormalize(_ *filter.Node)              {}
func (n *noopMonitor) AfterCompile(_ *compile.CompiledQuery)      {}
func (n *noopMonitor) AfterBackendSearch(_ int, _ bool)           {}
func (n *noopMonitor) AfterPostFilter(_ int)                      {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)              {}
