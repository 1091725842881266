package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/relevance/schema"
)

const queryResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "filter": {
      "type": ["object", "null"],
      "description": "Filter tree. Either {\"field\":...,\"op\":...,\"value\":...} or {\"op\":\"And\"|\"Or\",\"filters\":[...]}"
    },
    "rank": {
      "type": ["object", "null"],
      "description": "Ranking expression tree, e.g. {\"type\":\"Attr\",\"name\":\"stargazerCount\"}"
    },
    "query": {
      "type": "string",
      "description": "Free-text search terms left after constraints were lifted out"
    }
  },
  "required": ["filter", "rank", "query"],
  "additionalProperties": false
}`

const queryPromptTemplate = `Translate the user's request into a structured search query and return it as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

The documents being searched have these fields:

%s

Filter rules:
- A leaf filter is {"field": <name>, "op": <operator>, "value": <value>}.
- Composites are {"op": "And", "filters": [...]} or {"op": "Or", "filters": [...]}.
- Operators: Eq, NotEq, In, NotIn, Gt, Gte, Lt, Lte, Contains, ContainsAny,
  NotContains, NotContainsAny, ContainsAllTokens, Glob, IGlob, Regex.
- Only use fields marked filterable. Ordering operators (Gt, Gte, Lt, Lte) apply
  to numeric and timestamp fields only.
- Put hard constraints ("written in rust", "more than 1000 stars") in the filter.
- If the request has no hard constraints, "filter" is null.

Rank rules:
- Almost always null: the engine has a good default formula. Only produce a rank
  expression when the user explicitly asks for an ordering ("order by stars").
- Nodes: {"type":"Attr","name":...}, {"type":"Const","value":...},
  {"type":"BM25","field":...,"query":...}, {"type":"Sum"|"Mult"|"Max"|"Min","exprs":[...]},
  {"type":"Div","exprs":[a,b]}, {"type":"Log","base":...,"expr":...},
  {"type":"Saturate","midpoint":...,"expr":...}.

Query rules:
- "query" carries the descriptive words worth matching against text fields,
  with the filtered constraints removed. Empty string if nothing remains.

Example:
Input: "popular rust repos about game engines, at least 1000 stars"
Output:
{
  "filter": {"op": "And", "filters": [
    {"field": "language", "op": "Eq", "value": "rust"},
    {"field": "stargazerCount", "op": "Gte", "value": 1000}
  ]},
  "rank": null,
  "query": "game engines"
}

Example:
Input: "users in berlin, order by follower count"
Output:
{
  "filter": {"field": "location", "op": "Eq", "value": "berlin"},
  "rank": {"type": "Attr", "name": "followers"},
  "query": ""
}`

// buildGeneratorPrompt renders the system prompt for one entity kind,
// listing its fields with their types and allowed uses.
func buildGeneratorPrompt(sch *schema.Schema) string {
	var fields strings.Builder
	for _, name := range sch.FieldNames() {
		fd, _ := sch.Field(name)
		var uses []string
		if fd.Filterable {
			uses = append(uses, "filterable")
		}
		if fd.FullTextSearchable {
			uses = append(uses, "text-searchable")
		}
		use := "display only"
		if len(uses) > 0 {
			use = strings.Join(uses, ", ")
		}
		fmt.Fprintf(&fields, "- %s (%s; %s)\n", fd.Name, fd.Kind, use)
	}

	return fmt.Sprintf(queryPromptTemplate, queryResponseSchema, strings.TrimRight(fields.String(), "\n"))
}
