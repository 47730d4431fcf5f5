// internal/model/filter.go
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operator is the comparison a filter rule applies. The underlying value is
// the phrase shown to users and sent in prompts.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "does not equal"
	OperatorGreaterThan Operator = "is greater than"
	OperatorLessThan    Operator = "is less than"
	OperatorContains    Operator = "contains"
)

// Operators lists every operator in display order.
var Operators = []Operator{
	OperatorEquals,
	OperatorNotEquals,
	OperatorGreaterThan,
	OperatorLessThan,
	OperatorContains,
}

var operatorKeys = map[Operator]string{
	OperatorEquals:      "equals",
	OperatorNotEquals:   "not-equals",
	OperatorGreaterThan: "greater-than",
	OperatorLessThan:    "less-than",
	OperatorContains:    "contains",
}

// Phrase returns the natural-language form, e.g. "is greater than".
func (o Operator) Phrase() string { return string(o) }

// Key returns the short machine form, e.g. "greater-than".
func (o Operator) Key() string { return operatorKeys[o] }

// ParseOperator accepts either the key ("not-equals") or the phrase
// ("does not equal"). An empty string yields OperatorEquals.
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return OperatorEquals, nil
	}
	for _, op := range Operators {
		if strings.EqualFold(s, string(op)) || strings.EqualFold(s, op.Key()) {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

func (o *Operator) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	op, err := ParseOperator(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

func (o *Operator) UnmarshalText(b []byte) error {
	op, err := ParseOperator(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Filter is a single column/operator/value predicate. It is never evaluated.
type Filter struct {
	ID       int      `json:"id" yaml:"id"`
	Column   string   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}
