// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/relevance"
	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/backend/badger"
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/ingest"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/reembed"
	"github.com/poiesic/relevance/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "relevance",
		Usage: "Ranked search with filter and expression pushdown",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load the bundled sample corpus into a database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "embed",
						Usage: "Generate embeddings for repo documents (requires an embedding service)",
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Execute a structured search",
				ArgsUsage: "[query text]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    "Entity kind to search (user, profile, repo)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Filter as JSON, e.g. '{\"field\":\"language\",\"op\":\"Eq\",\"value\":\"rust\"}'",
					},
					&cli.StringFlag{
						Name:  "rank",
						Usage: "Ranking expression as JSON (defaults to the kind's built-in formula)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Backend timeout",
						Value: search.DefaultTimeout,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embedding vectors for a kind with the configured model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    "Entity kind to reembed",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Documents per embedding call",
						Value: reembed.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a natural-language request",
				ArgsUsage: "<request text>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    "Entity kind to search (user, profile, repo)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "AI service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Chat model used for query generation",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	docs := sampleDocuments()

	if c.Bool("embed") {
		pipeline, err := ingest.NewPipeline(engine.Store(), engine.Registry(), engine.Embedder())
		if err != nil {
			return err
		}
		defer pipeline.Release()

		if err := pipeline.Ingest(ctx, docs...); err != nil {
			return fmt.Errorf("failed to seed documents: %w", err)
		}
	} else if err := engine.AddDocuments(ctx, docs...); err != nil {
		return fmt.Errorf("failed to seed documents: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d documents into %s\n", len(docs), c.String("db"))
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	req := &search.Request{
		Kind:    core.EntityKind(c.String("kind")),
		Query:   strings.Join(c.Args().Slice(), " "),
		Limit:   c.Int("limit"),
		Timeout: c.Duration("timeout"),
	}

	if raw := c.String("filter"); raw != "" {
		node, err := filter.Parse([]byte(raw))
		if err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		req.Filter = node
	}
	if raw := c.String("rank"); raw != "" {
		expr, err := rank.Parse([]byte(raw))
		if err != nil {
			return fmt.Errorf("invalid ranking expression: %w", err)
		}
		req.RankBy = expr
	}

	results, err := engine.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(results)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.Join(c.Args().Slice(), " ")
	if text == "" {
		return fmt.Errorf("request text is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	results, err := engine.Ask(ctx, core.EntityKind(c.String("kind")), text, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	printResults(results)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer engine.Close()

	config := reembed.DefaultConfig()
	config.BatchSize = c.Int("batch-size")

	reembedder, err := reembed.NewReembedder(
		engine.Store(), engine.Registry(), engine.Embedder(),
		core.EntityKind(c.String("kind")), config, os.Stderr)
	if err != nil {
		return err
	}

	return reembedder.Run(ctx)
}

// openEngine opens the engine at --db with the AI flags applied. Repos
// are served as a vector store here; users and profiles keep the
// lexical default.
func openEngine(c *cli.Context) (*relevance.Engine, error) {
	return relevance.Open(c.String("db"),
		engineAIOptions(c),
		relevance.WithStoreOptions(
			badger.WithCapabilities(core.KindRepo, compile.Vector()),
		),
	)
}

// engineAIOptions builds the AI configuration option from CLI flags.
// Commands without AI flags fall back to the defaults, which is harmless:
// no connection is made until an AI service is actually used.
func engineAIOptions(c *cli.Context) relevance.EngineOption {
	opts := []ai.ConfigOption{}
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("generator-model"); model != "" {
		opts = append(opts, ai.WithGeneratorModel(model))
	}
	return relevance.WithAIConfig(ai.NewConfig(opts...))
}

// displayName picks the most recognizable attribute for result output.
func displayName(doc *core.Document) string {
	for _, field := range []string{"login", "name", "title"} {
		if values := doc.Strings(field); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func printResults(results []*core.SearchResult) {
	if len(results) == 0 {
		fmt.Println("no results")
		return
	}
	for i, r := range results {
		fmt.Printf("%2d. %-24s id=%-20d score=%.4f\n", i+1, displayName(r.Document), r.Document.Id, r.Score)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
