// Package filter evaluates admin-table filter conditions against records.
//
// A record is any value that encodes to a JSON object. Fields are addressed
// by their JSON names (gjson paths, so "profile.nickname" reaches nested
// objects). Conditions combine with a single AND/OR; a free-text search is
// always ANDed on top.
package filter

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tinoosan/fanbase/internal/errs"
)

// Operator is the comparison applied by a Condition.
type Operator string

const (
	Equals     Operator = "equals"
	Contains   Operator = "contains"
	GT         Operator = "gt"
	LT         Operator = "lt"
	GTE        Operator = "gte"
	LTE        Operator = "lte"
	Between    Operator = "between"
	IsEmpty    Operator = "isEmpty"
	IsNotEmpty Operator = "isNotEmpty"
)

// Known reports whether op is a supported operator.
func (op Operator) Known() bool {
	switch op {
	case Equals, Contains, GT, LT, GTE, LTE, Between, IsEmpty, IsNotEmpty:
		return true
	}
	return false
}

// Logic joins the conditions of a query.
type Logic string

const (
	And Logic = "AND"
	Or  Logic = "OR"
)

// Condition is one predicate as sent by a filter UI. Value2 is only read by Between.
type Condition struct {
	ID       string   `json:"id,omitempty"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
	Value2   any      `json:"value2,omitempty"`
}

// Query is a condition group plus an optional free-text search.
// SearchFields is chosen by the server, never by the caller.
type Query struct {
	Conditions   []Condition `json:"conditions"`
	Logic        Logic       `json:"logic"`
	Search       string      `json:"search,omitempty"`
	SearchFields []string    `json:"-"`
}

// Validate rejects queries the evaluator cannot interpret. A between
// condition with exactly one bound set is rejected: the validation rule wins
// over vacuous truth, which only covers a between with neither bound set.
func (q Query) Validate() error {
	switch q.Logic {
	case "", And, Or:
	default:
		return errs.Validation("unknown filter logic %q", q.Logic)
	}
	for i, c := range q.Conditions {
		if strings.TrimSpace(c.Field) == "" {
			return errs.Validation("condition %d: field is required", i)
		}
		if !c.Operator.Known() {
			return errs.Validation("condition %d: unknown operator %q", i, c.Operator)
		}
		if c.Operator == Between && unset(c.Value) != unset(c.Value2) {
			return errs.Validation("condition %d: between requires both value and value2", i)
		}
	}
	return nil
}

// Record is a JSON-encoded row ready for field lookups.
type Record struct {
	raw []byte
}

// RecordOf encodes v once so conditions can read its fields.
func RecordOf(v any) (Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Record{}, errs.Validation("record is not encodable: %v", err)
	}
	return Record{raw: b}, nil
}

// Get returns the field addressed by path.
func (r Record) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// Match evaluates the condition against r.
func (c Condition) Match(r Record) bool {
	field := r.Get(c.Field)
	switch c.Operator {
	case IsEmpty:
		return fieldEmpty(field)
	case IsNotEmpty:
		return !fieldEmpty(field)
	}
	if unset(c.Value) {
		return true
	}
	switch c.Operator {
	case Equals:
		return strings.EqualFold(fieldString(field), stringify(c.Value))
	case Contains:
		return strings.Contains(strings.ToLower(fieldString(field)), strings.ToLower(stringify(c.Value)))
	case GT:
		return fieldNumber(field) > number(c.Value)
	case LT:
		return fieldNumber(field) < number(c.Value)
	case GTE:
		return fieldNumber(field) >= number(c.Value)
	case LTE:
		return fieldNumber(field) <= number(c.Value)
	case Between:
		if unset(c.Value2) {
			return true
		}
		n := fieldNumber(field)
		return n >= number(c.Value) && n <= number(c.Value2)
	}
	return false
}

// MatchAll combines conditions with logic. No conditions match everything.
func MatchAll(conds []Condition, logic Logic, r Record) bool {
	if len(conds) == 0 {
		return true
	}
	if logic == Or {
		for _, c := range conds {
			if c.Match(r) {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !c.Match(r) {
			return false
		}
	}
	return true
}

// Match applies the condition group and then the search text.
func (q Query) Match(r Record) bool {
	if !MatchAll(q.Conditions, q.Logic, r) {
		return false
	}
	return q.matchSearch(r)
}

func (q Query) matchSearch(r Record) bool {
	text := strings.ToLower(strings.TrimSpace(q.Search))
	if text == "" {
		return true
	}
	for _, f := range q.SearchFields {
		if strings.Contains(strings.ToLower(fieldString(r.Get(f))), text) {
			return true
		}
	}
	return false
}

// Apply validates q and returns the rows it matches, in input order.
func Apply[T any](rows []T, q Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := RecordOf(row)
		if err != nil {
			return nil, err
		}
		if q.Match(rec) {
			out = append(out, row)
		}
	}
	return out, nil
}

func unset(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func fieldEmpty(f gjson.Result) bool {
	if !f.Exists() || f.Type == gjson.Null {
		return true
	}
	return f.Type == gjson.String && f.Str == ""
}

func fieldString(f gjson.Result) string {
	if !f.Exists() || f.Type == gjson.Null {
		return ""
	}
	return f.String()
}

// fieldNumber coerces a record field. Anything that is not a number or a
// numeric string is NaN, so every comparison against it is false.
func fieldNumber(f gjson.Result) float64 {
	switch f.Type {
	case gjson.Number:
		return f.Num
	case gjson.String:
		return parseNumber(f.Str)
	}
	return math.NaN()
}

func number(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case json.Number:
		return parseNumber(x.String())
	case string:
		return parseNumber(x)
	}
	return math.NaN()
}

func parseNumber(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
