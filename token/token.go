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


// Package token provides the single tokenizer shared by full-text filtering
// and BM25 scoring. Filtering and relevance must tokenize identically, or
// natively computed and locally computed scores stop being comparable.
package token

import "strings"

const punctuation = ".,!?;:'\"-()[]{}"

// Tokenize splits text into lowercased tokens with surrounding punctuation
// trimmed. No stemming and no stop-word removal: removal would make local
// term statistics diverge from the remote store's.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	tokens := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, punctuation))
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}

	return tokens
}

// Set tokenizes every value and collects the tokens into a membership set.
func Set(values ...string) map[string]bool {
	set := make(map[string]bool)
	for _, v := range values {
		for _, tok := range Tokenize(v) {
			set[tok] = true
		}
	}
	return set
}

// ContainsAll reports whether every token of query appears somewhere across
// the content values, in any order, across any element. An empty query
// never matches.
func ContainsAll(content []string, query string) bool {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return false
	}

	set := Set(content...)
	for _, tok := range queryTokens {
		if !set[tok] {
			return false
		}
	}
	return true
}
