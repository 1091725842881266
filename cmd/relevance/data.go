package main

import (
	"github.com/poiesic/relevance/core"
)

// Sample corpus used by the seed command. IDs are left zero so the store
// assigns content-derived identifiers; re-seeding an existing database
// fails on the duplicate check rather than silently double-counting.

var sampleUsers = []map[string]any{
	{
		"login":     "ferris",
		"name":      "Ferris Oxide",
		"emails":    []string{"ferris@example.com"},
		"bio":       "systems programmer building compilers and embedded tooling in rust",
		"location":  "berlin",
		"company":   "crablab",
		"followers": uint64(1520),
		"createdAt": "2014-03-11T09:00:00Z",
	},
	{
		"login":     "gopherina",
		"name":      "Gopherina Marsh",
		"emails":    []string{"gopherina@example.com"},
		"bio":       "distributed systems and go services at scale",
		"location":  "portland",
		"company":   "cloudworks",
		"followers": uint64(88000),
		"createdAt": "2012-07-21T15:30:00Z",
	},
	{
		"login":     "quietcoder",
		"name":      "Sam Quiet",
		"bio":       "occasional rust dabbler, mostly gardens",
		"location":  "berlin",
		"followers": uint64(12),
		"createdAt": "2021-01-02T12:00:00Z",
	},
	{
		"login":     "datadiva",
		"name":      "Priya Raman",
		"emails":    []string{"priya@example.com"},
		"bio":       "machine learning infrastructure and feature stores",
		"location":  "bangalore",
		"company":   "vectorforge",
		"followers": uint64(4300),
		"createdAt": "2016-11-05T08:45:00Z",
	},
}

var sampleProfiles = []map[string]any{
	{
		"title":       "Staff Engineer",
		"headline":    "compilers, languages, and developer tools",
		"expertise":   []string{"rust", "llvm", "wasm"},
		"education":   "TU Berlin",
		"school":      "TU Berlin",
		"degree":      "MSc Computer Science",
		"summary":     "ten years building ahead of time compilers and language runtimes",
		"skills":      []string{"rust", "c++", "llvm"},
		"company":     "crablab",
		"connections": uint64(640),
		"updatedAt":   "2025-05-18T10:00:00Z",
	},
	{
		"title":       "Principal Engineer",
		"headline":    "kubernetes and large scale go services",
		"expertise":   []string{"go", "kubernetes", "grpc"},
		"education":   "Oregon State University",
		"school":      "Oregon State University",
		"degree":      "BSc Computer Science",
		"summary":     "runs the platform team for a fleet of several thousand services",
		"skills":      []string{"go", "kubernetes", "terraform"},
		"company":     "cloudworks",
		"connections": uint64(2100),
		"updatedAt":   "2025-07-02T16:20:00Z",
	},
	{
		"title":       "ML Platform Lead",
		"headline":    "vector databases and retrieval pipelines",
		"expertise":   []string{"python", "embeddings", "search"},
		"education":   "IISc Bangalore",
		"school":      "IISc Bangalore",
		"degree":      "PhD Machine Learning",
		"summary":     "built a retrieval augmented generation stack from scratch twice",
		"skills":      []string{"python", "pytorch", "faiss"},
		"company":     "vectorforge",
		"connections": uint64(980),
		"updatedAt":   "2025-03-30T09:10:00Z",
	},
}

var sampleRepos = []map[string]any{
	{
		"name":             "oxidize",
		"description":      "an incremental compiler framework for embedded targets",
		"topics":           []string{"compiler", "embedded", "rust"},
		"language":         "rust",
		"stargazerCount":   uint64(24800),
		"closedIssueCount": uint64(8700),
		"archived":         false,
		"pushedAt":         "2025-08-20T18:00:00Z",
	},
	{
		"name":             "fleetd",
		"description":      "lightweight agent for orchestrating container fleets",
		"topics":           []string{"containers", "orchestration", "go"},
		"language":         "go",
		"stargazerCount":   uint64(97000),
		"closedIssueCount": uint64(41000),
		"archived":         false,
		"pushedAt":         "2025-08-27T07:30:00Z",
	},
	{
		"name":             "toy-kernel",
		"description":      "a hobby operating system kernel written over a weekend",
		"topics":           []string{"kernel", "osdev", "rust"},
		"language":         "rust",
		"stargazerCount":   uint64(430),
		"closedIssueCount": uint64(9),
		"archived":         true,
		"pushedAt":         "2022-02-14T23:59:00Z",
	},
	{
		"name":             "fastgrep",
		"description":      "line oriented search tool that recursively searches directories",
		"topics":           []string{"cli", "search", "regex"},
		"language":         "rust",
		"stargazerCount":   uint64(41000),
		"closedIssueCount": uint64(1900),
		"archived":         false,
		"pushedAt":         "2025-08-01T12:15:00Z",
	},
}

func sampleDocuments() []*core.Document {
	var docs []*core.Document
	for _, attrs := range sampleUsers {
		docs = append(docs, &core.Document{Kind: core.KindUser, Attrs: attrs})
	}
	for _, attrs := range sampleProfiles {
		docs = append(docs, &core.Document{Kind: core.KindProfile, Attrs: attrs})
	}
	for _, attrs := range sampleRepos {
		docs = append(docs, &core.Document{Kind: core.KindRepo, Attrs: attrs})
	}
	return docs
}
