package filter

import (
	"encoding/json"
	"fmt"
)

// Wire shape: {"field": ..., "op": ..., "value": ...} for comparisons,
// {"op": "And"|"Or", "filters": [...]} for composites.
type nodeJSON struct {
	Field   string          `json:"field,omitempty"`
	Op      string          `json:"op"`
	Value   json.RawMessage `json:"value,omitempty"`
	Filters []*Node         `json:"filters,omitempty"`
}

// UnmarshalJSON decodes the external filter representation.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedValue, err)
	}

	switch raw.Op {
	case string(CombinatorAnd), string(CombinatorOr):
		if raw.Field != "" {
			return fmt.Errorf("%w: composite %q cannot name a field", ErrMalformedValue, raw.Op)
		}
		*n = Node{Combinator: Combinator(raw.Op), Children: raw.Filters}
		return nil
	case "":
		return fmt.Errorf("%w: missing op", ErrUnknownOperator)
	}

	if raw.Field == "" {
		return fmt.Errorf("%w: comparison %q requires a field", ErrMalformedValue, raw.Op)
	}

	var value any
	if len(raw.Value) > 0 {
		if err := json.Unmarshal(raw.Value, &value); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedValue, err)
		}
	}

	*n = Node{Field: raw.Field, Op: Operator(raw.Op), Value: value}
	return nil
}

// MarshalJSON encodes the external filter representation.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsComposite() {
		return json.Marshal(nodeJSON{
			Op:      string(n.Combinator),
			Filters: n.Children,
		})
	}

	value, err := json.Marshal(n.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(nodeJSON{
		Field: n.Field,
		Op:    string(n.Op),
		Value: value,
	})
}

// Parse decodes a filter from its JSON representation.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
