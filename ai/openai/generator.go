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


package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryGenerator implements ai.QueryGenerator using OpenAI-compatible chat APIs.
type QueryGenerator struct {
	client   llms.Model
	registry *schema.Registry
	logger   *slog.Logger
}

// generated is an internal type used for JSON unmarshaling.
// It matches the structure requested from the LLM.
type generated struct {
	Filter json.RawMessage `json:"filter"`
	Rank   json.RawMessage `json:"rank"`
	Query  string          `json:"query"`
}

// newQueryGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newQueryGenerator(config *ai.Config, registry *schema.Registry) (*QueryGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, fmt.Errorf("schema registry required")
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &QueryGenerator{
		client:   client,
		registry: registry,
		logger:   slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewQueryGenerator creates a new query generator using the provided
// configuration and schema registry.
//
// Returns ai.QueryGenerator interface to enforce abstraction.
func NewQueryGenerator(config *ai.Config, registry *schema.Registry) (ai.QueryGenerator, error) {
	return newQueryGenerator(config, registry)
}

// GenerateQuery translates a natural-language request into a structured
// query using an LLM guided by the kind's field schema.
func (g *QueryGenerator) GenerateQuery(ctx context.Context, kind core.EntityKind, text string) (*ai.GeneratedQuery, error) {
	sch, ok := g.registry.Schema(kind)
	if !ok {
		return nil, fmt.Errorf("unknown entity kind: %s", kind)
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildGeneratorPrompt(sch)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result generated
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return &ai.GeneratedQuery{Query: text}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			g.logger.Warn("error parsing generator response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		g.logger.Error("failed to parse generator response after retries", "err", lastErr)
		return nil, lastErr
	}

	out := &ai.GeneratedQuery{Query: strings.TrimSpace(result.Query)}

	if present(result.Filter) {
		node, err := filter.Parse(result.Filter)
		if err != nil {
			g.logger.Error("generator produced an unparseable filter", "err", err)
			return nil, err
		}
		out.Filter = node
	}
	if present(result.Rank) {
		expr, err := rank.Parse(result.Rank)
		if err != nil {
			g.logger.Error("generator produced an unparseable expression", "err", err)
			return nil, err
		}
		out.RankBy = expr
	}

	g.logger.Debug("generated query",
		"kind", kind,
		"hasFilter", out.Filter != nil,
		"hasRank", out.RankBy != nil,
		"query", out.Query)
	return out, nil
}

// present reports whether a raw JSON value carries content beyond null.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
