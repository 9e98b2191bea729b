// Package query composes list-screen inputs into the canonical query handed to data access.
package query

import (
	"strings"
)

// Operator is a predicate comparison. Filters of a query are always combined with AND.
type Operator int

const (
	Eq Operator = iota
	Ne
	Contains // case-insensitive substring match
	Gt
	Gte
	Lt
	Lte
)

var opNames = map[Operator]string{
	Eq:       "eq",
	Ne:       "ne",
	Contains: "contains",
	Gt:       "gt",
	Gte:      "gte",
	Lt:       "lt",
	Lte:      "lte",
}

func (op Operator) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the operator by name in JSON payloads.
func (op Operator) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// FilterInput is one predicate destined for the data access layer.
type FilterInput struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

func EqualFilter(field string, value interface{}) FilterInput {
	return FilterInput{Field: field, Operator: Eq, Value: value}
}

func ContainsFilter(field string, value interface{}) FilterInput {
	return FilterInput{Field: field, Operator: Contains, Value: value}
}

// Constraint is the selection of a categorical dimension: either no constraint or equality to a value.
type Constraint struct {
	value string
	set   bool
}

// NoConstraint applies no predicate for its dimension.
func NoConstraint() Constraint { return Constraint{} }

// EqualTo constrains its dimension to v.
func EqualTo(v string) Constraint { return Constraint{value: v, set: true} }

// Value returns the constrained value and whether a constraint applies.
func (c Constraint) Value() (string, bool) { return c.value, c.set }

func (c Constraint) String() string {
	if !c.set {
		return "*"
	}
	return "=" + c.value
}

// AllSentinel is the raw selection value UIs send for "no constraint".
const AllSentinel = "all"

// ParseConstraint converts a raw selection into a Constraint.
// Empty input and the sentinel (case-insensitive) both mean NoConstraint.
func ParseConstraint(raw, sentinel string) Constraint {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, sentinel) {
		return NoConstraint()
	}
	return EqualTo(raw)
}
