package ai

import (
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
)

// GeneratedQuery is the structured form of a natural-language request.
type GeneratedQuery struct {
	// Filter holds the hard constraints the request expressed, nil when it
	// expressed none.
	Filter *filter.Node

	// RankBy holds an explicit ranking expression when the request asked
	// for one ("order by stars"). Nil leaves ranking to the kind's default
	// formula.
	RankBy *rank.Expr

	// Query is the free-text remainder after constraints were lifted out,
	// used for lexical scoring. May be empty.
	Query string
}
