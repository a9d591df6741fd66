package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
)

type row struct {
	ID       int64   `json:"id"`
	Nickname string  `json:"nickname"`
	Role     string  `json:"role"`
	Amount   int64   `json:"amount"`
	Note     *string `json:"note"`
	Code     string  `json:"code"`
}

func strp(s string) *string { return &s }

func rec(t *testing.T, v any) Record {
	t.Helper()
	r, err := RecordOf(v)
	require.NoError(t, err)
	return r
}

func TestCondition_Operators(t *testing.T) {
	r := rec(t, row{ID: 7, Nickname: "StarLight", Role: "VIP", Amount: 1500, Code: "abc"})

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals is case-insensitive", Condition{Field: "role", Operator: Equals, Value: "vip"}, true},
		{"equals stringifies numbers", Condition{Field: "amount", Operator: Equals, Value: float64(1500)}, true},
		{"equals mismatch", Condition{Field: "role", Operator: Equals, Value: "admin"}, false},
		{"contains substring", Condition{Field: "nickname", Operator: Contains, Value: "LIGHT"}, true},
		{"contains miss", Condition{Field: "nickname", Operator: Contains, Value: "moon"}, false},
		{"gt", Condition{Field: "amount", Operator: GT, Value: float64(1000)}, true},
		{"gt numeric string value", Condition{Field: "amount", Operator: GT, Value: "1499"}, true},
		{"lt", Condition{Field: "amount", Operator: LT, Value: float64(1000)}, false},
		{"gte boundary", Condition{Field: "amount", Operator: GTE, Value: float64(1500)}, true},
		{"lte boundary", Condition{Field: "amount", Operator: LTE, Value: float64(1500)}, true},
		{"between inclusive", Condition{Field: "amount", Operator: Between, Value: float64(1500), Value2: float64(2000)}, true},
		{"between outside", Condition{Field: "amount", Operator: Between, Value: float64(1), Value2: float64(10)}, false},
		{"between missing upper is vacuous", Condition{Field: "amount", Operator: Between, Value: float64(1)}, true},
		{"non-numeric field compares as NaN", Condition{Field: "code", Operator: GT, Value: float64(0)}, false},
		{"non-numeric field NaN for lte too", Condition{Field: "code", Operator: LTE, Value: float64(0)}, false},
		{"non-numeric value compares as NaN", Condition{Field: "amount", Operator: LT, Value: "lots"}, false},
		{"isEmpty on null", Condition{Field: "note", Operator: IsEmpty}, true},
		{"isEmpty on missing field", Condition{Field: "nope", Operator: IsEmpty}, true},
		{"isNotEmpty on set field", Condition{Field: "nickname", Operator: IsNotEmpty}, true},
		{"unknown operator never matches", Condition{Field: "role", Operator: "like", Value: "vip"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cond.Match(r))
		})
	}
}

func TestCondition_Vacuity(t *testing.T) {
	rows := []row{
		{ID: 1, Nickname: "a", Role: "member"},
		{ID: 2, Nickname: "b", Role: "vip", Note: strp("hi")},
	}
	for _, op := range []Operator{Equals, Contains, GT, LT, GTE, LTE, Between} {
		for _, v := range []any{nil, ""} {
			c := Condition{Field: "role", Operator: op, Value: v}
			for _, r := range rows {
				assert.True(t, c.Match(rec(t, r)), "operator %s with value %#v must not filter", op, v)
			}
		}
	}

	// isEmpty ignores value and excludes a non-empty field.
	c := Condition{Field: "nickname", Operator: IsEmpty, Value: "anything"}
	for _, r := range rows {
		assert.False(t, c.Match(rec(t, r)))
	}
	// isEmpty on a set pointer field.
	assert.False(t, Condition{Field: "note", Operator: IsEmpty}.Match(rec(t, rows[1])))
}

func TestMatchAll_Logic(t *testing.T) {
	r := rec(t, row{Nickname: "alpha", Role: "vip", Amount: 10})
	hit := Condition{Field: "role", Operator: Equals, Value: "vip"}
	miss := Condition{Field: "nickname", Operator: Equals, Value: "beta"}

	assert.False(t, MatchAll([]Condition{hit, miss}, And, r))
	assert.True(t, MatchAll([]Condition{hit, miss}, Or, r))
	assert.False(t, MatchAll([]Condition{miss}, Or, r))
	assert.True(t, MatchAll(nil, Or, r))
	assert.True(t, MatchAll(nil, And, r))
	// empty logic defaults to AND
	assert.False(t, MatchAll([]Condition{hit, miss}, "", r))
}

func TestQuery_SearchAlwaysNarrows(t *testing.T) {
	rows := []row{
		{ID: 1, Nickname: "alpha", Role: "vip"},
		{ID: 2, Nickname: "bravo", Role: "member"},
		{ID: 3, Nickname: "alpine", Role: "member"},
	}
	q := Query{
		Conditions: []Condition{
			{Field: "role", Operator: Equals, Value: "vip"},
			{Field: "role", Operator: Equals, Value: "member"},
		},
		Logic:        Or,
		Search:       "ALP",
		SearchFields: []string{"nickname"},
	}
	got, err := Apply(rows, q)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestQuery_Validate(t *testing.T) {
	cases := []struct {
		name string
		q    Query
		ok   bool
	}{
		{"empty", Query{}, true},
		{"bad logic", Query{Logic: "XOR"}, false},
		{"missing field", Query{Conditions: []Condition{{Operator: Equals, Value: "x"}}}, false},
		{"unknown operator", Query{Conditions: []Condition{{Field: "a", Operator: "regex"}}}, false},
		{"between missing value2", Query{Conditions: []Condition{{Field: "a", Operator: Between, Value: float64(1)}}}, false},
		{"between armed but unset", Query{Conditions: []Condition{{Field: "a", Operator: Between}}}, true},
		{"between complete", Query{Conditions: []Condition{{Field: "a", Operator: Between, Value: float64(1), Value2: float64(2)}}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestApply_RejectsInvalidQuery(t *testing.T) {
	_, err := Apply([]row{{ID: 1}}, Query{Conditions: []Condition{{Field: "amount", Operator: Between, Value2: float64(3)}}})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRecord_NestedPath(t *testing.T) {
	r := rec(t, map[string]any{"author": map[string]any{"nickname": "Neo"}})
	assert.True(t, Condition{Field: "author.nickname", Operator: Equals, Value: "neo"}.Match(r))
}
