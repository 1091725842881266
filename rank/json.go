package rank

import (
	"encoding/json"
	"fmt"
)

// Wire shape per node type:
//
//	{"type":"BM25","field":...,"query":...}
//	{"type":"Attr","name":...}
//	{"type":"Const","value":...}
//	{"type":"Sum"|"Mult"|"Max"|"Min","exprs":[...]}
//	{"type":"Div","exprs":[numerator, denominator]}
//	{"type":"Log","base":...,"expr":...}
//	{"type":"Saturate","expr":...,"midpoint":...}
type exprJSON struct {
	Type     string           `json:"type"`
	Field    string           `json:"field,omitempty"`
	Query    string           `json:"query,omitempty"`
	Name     string           `json:"name,omitempty"`
	Value    *float64         `json:"value,omitempty"`
	Base     *float64         `json:"base,omitempty"`
	Midpoint *float64         `json:"midpoint,omitempty"`
	Exprs    []*Expr          `json:"exprs,omitempty"`
	Expr     *json.RawMessage `json:"expr,omitempty"`
}

// UnmarshalJSON decodes the external expression representation.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var raw exprJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Log and Saturate carry a single operand under "expr".
	var operand *Expr
	if raw.Expr != nil {
		operand = &Expr{}
		if err := json.Unmarshal(*raw.Expr, operand); err != nil {
			return err
		}
	}

	switch raw.Type {
	case "BM25":
		*e = Expr{Type: TypeBM25, Field: raw.Field, Query: raw.Query}
	case "Attr":
		*e = Expr{Type: TypeAttr, Name: raw.Name}
	case "Const":
		if raw.Value == nil {
			return fmt.Errorf("%w: Const requires a value", ErrNonNumericConst)
		}
		*e = Expr{Type: TypeConst, Value: *raw.Value}
	case "Sum":
		*e = Expr{Type: TypeSum, Exprs: raw.Exprs}
	case "Mult":
		*e = Expr{Type: TypeMult, Exprs: raw.Exprs}
	case "Max":
		*e = Expr{Type: TypeMax, Exprs: raw.Exprs}
	case "Min":
		*e = Expr{Type: TypeMin, Exprs: raw.Exprs}
	case "Div":
		*e = Expr{Type: TypeDiv, Exprs: raw.Exprs}
	case "Log":
		if raw.Base == nil || operand == nil {
			return fmt.Errorf("%w: Log requires base and expr", ErrBadArity)
		}
		*e = Expr{Type: TypeLog, Base: *raw.Base, Exprs: []*Expr{operand}}
	case "Saturate":
		if raw.Midpoint == nil || operand == nil {
			return fmt.Errorf("%w: Saturate requires midpoint and expr", ErrBadArity)
		}
		*e = Expr{Type: TypeSaturate, Midpoint: *raw.Midpoint, Exprs: []*Expr{operand}}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExprType, raw.Type)
	}
	return nil
}

// MarshalJSON encodes the external expression representation.
func (e *Expr) MarshalJSON() ([]byte, error) {
	out := exprJSON{Type: e.Type.String()}

	switch e.Type {
	case TypeBM25:
		out.Field = e.Field
		out.Query = e.Query
	case TypeAttr:
		out.Name = e.Name
	case TypeConst:
		v := e.Value
		out.Value = &v
	case TypeSum, TypeMult, TypeMax, TypeMin, TypeDiv:
		out.Exprs = e.Exprs
	case TypeLog:
		b := e.Base
		out.Base = &b
		if err := marshalOperand(e, &out); err != nil {
			return nil, err
		}
	case TypeSaturate:
		m := e.Midpoint
		out.Midpoint = &m
		if err := marshalOperand(e, &out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownExprType, e.Type)
	}

	return json.Marshal(out)
}

func marshalOperand(e *Expr, out *exprJSON) error {
	if len(e.Exprs) != 1 {
		return fmt.Errorf("%w: %s requires exactly one operand", ErrBadArity, e.Type)
	}
	data, err := json.Marshal(e.Exprs[0])
	if err != nil {
		return err
	}
	raw := json.RawMessage(data)
	out.Expr = &raw
	return nil
}

// Parse decodes an expression from its JSON representation.
func Parse(data []byte) (*Expr, error) {
	var e Expr
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
