package schema

import "github.com/poiesic/relevance/core"

// Built-in field tables per entity kind. Adding an entity kind is a table
// edit, not a code change elsewhere in the engine.

var userFields = []FieldDescriptor{
	{Name: "login", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "name", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "emails", Kind: StringArray, Filterable: true, FullTextSearchable: true},
	{Name: "bio", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "location", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "company", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "followers", Kind: Uint, Filterable: true},
	{Name: "createdAt", Kind: Timestamp, Filterable: true},
}

var profileFields = []FieldDescriptor{
	{Name: "title", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "headline", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "expertise", Kind: StringArray, Filterable: true, FullTextSearchable: true},
	{Name: "education", Kind: StringArray, Filterable: true, FullTextSearchable: true},
	{Name: "school", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "degree", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "summary", Kind: String, FullTextSearchable: true},
	{Name: "skills", Kind: StringArray, Filterable: true, FullTextSearchable: true},
	{Name: "company", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "connections", Kind: Uint, Filterable: true},
	{Name: "updatedAt", Kind: Timestamp, Filterable: true},
}

var repoFields = []FieldDescriptor{
	{Name: "name", Kind: String, Filterable: true, FullTextSearchable: true},
	{Name: "description", Kind: String, FullTextSearchable: true},
	{Name: "topics", Kind: StringArray, Filterable: true, FullTextSearchable: true},
	{Name: "language", Kind: String, Filterable: true},
	{Name: "stargazerCount", Kind: Uint, Filterable: true},
	{Name: "closedIssueCount", Kind: Uint, Filterable: true},
	{Name: "archived", Kind: Bool, Filterable: true},
	{Name: "pushedAt", Kind: Timestamp, Filterable: true},
}

// Builtin returns the registry of built-in entity kinds: user, profile, repo.
func Builtin() *Registry {
	user, err := New(core.KindUser, userFields...)
	if err != nil {
		panic(err)
	}
	profile, err := New(core.KindProfile, profileFields...)
	if err != nil {
		panic(err)
	}
	repo, err := New(core.KindRepo, repoFields...)
	if err != nil {
		panic(err)
	}

	registry, err := NewRegistry(user, profile, repo)
	if err != nil {
		panic(err)
	}
	return registry
}
