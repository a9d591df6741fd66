package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/filter"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_Invariant(t *testing.T) {
	rows := seq(47)

	p := Paginate(rows, PageOptions{Page: 1, Limit: 20})
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(47), p.TotalCount)
	assert.Len(t, p.Data, 20)

	p = Paginate(rows, PageOptions{Page: 3, Limit: 20})
	assert.Len(t, p.Data, 7)
	assert.Equal(t, 41, p.Data[0])

	p = Paginate(rows, PageOptions{Page: 4, Limit: 20})
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, int64(47), p.TotalCount)
	assert.Equal(t, 3, p.TotalPages)

	huge := PageOptions{Page: math.MaxInt64 / 10, Limit: 20}
	require.NotPanics(t, func() { p = Paginate(rows, huge) })
	assert.Empty(t, p.Data)
	assert.Equal(t, int64(47), p.TotalCount)
	assert.Equal(t, huge.Page, p.Page)
}

func TestPageOptions_Normalize(t *testing.T) {
	assert.Equal(t, PageOptions{Page: 1, Limit: DefaultPageSize}, PageOptions{}.Normalize())
	assert.Equal(t, PageOptions{Page: 2, Limit: MaxPageSize}, PageOptions{Page: 2, Limit: 1000}.Normalize())
	assert.Equal(t, 40, PageOptions{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, math.MaxInt, PageOptions{Page: math.MaxInt64 / 10, Limit: 20}.Offset())
}

func TestPageOptions_Beyond(t *testing.T) {
	assert.False(t, PageOptions{Page: 3, Limit: 20}.Beyond(47))
	assert.True(t, PageOptions{Page: 4, Limit: 20}.Beyond(47))
	assert.True(t, PageOptions{Page: 2, Limit: 20}.Beyond(0))
	assert.True(t, PageOptions{Page: math.MaxInt64 / 10, Limit: 20}.Beyond(47))
}

func TestNewPage_EmptyTotal(t *testing.T) {
	p := NewPage[int](nil, 0, PageOptions{Page: 1, Limit: 10})
	assert.Equal(t, 0, p.TotalPages)
	assert.NotNil(t, p.Data)
}

func TestFilterPage(t *testing.T) {
	type item struct {
		N    int    `json:"n"`
		Kind string `json:"kind"`
	}
	var rows []item
	for i := 1; i <= 30; i++ {
		k := "odd"
		if i%2 == 0 {
			k = "even"
		}
		rows = append(rows, item{N: i, Kind: k})
	}
	q := filter.Query{Conditions: []filter.Condition{{Field: "kind", Operator: filter.Equals, Value: "EVEN"}}}
	p, err := FilterPage(rows, q, PageOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), p.TotalCount)
	assert.Len(t, p.Data, 5)
	assert.Equal(t, 22, p.Data[0].N)

	_, err = FilterPage(rows, filter.Query{Logic: "NAND"}, PageOptions{})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRunBatch_StopsAtFirstFailure(t *testing.T) {
	var applied []int64
	res := RunBatch(context.Background(), []int64{1, 2, 3, 4}, func(_ context.Context, _ int, id int64) error {
		if id == 3 {
			return errs.NotFound("banner")
		}
		applied = append(applied, id)
		return nil
	})
	require.Len(t, res, 4)
	assert.Equal(t, []int64{1, 2}, applied)
	assert.True(t, res[0].OK)
	assert.True(t, res[1].OK)
	assert.False(t, res[2].OK)
	assert.Equal(t, "not found", res[2].Error)
	assert.False(t, res[3].OK)
	assert.ErrorIs(t, res[3].Err(), ErrSkipped)
	assert.Equal(t, 2, res.Succeeded())

	failed, ok := res.Failed()
	require.True(t, ok)
	assert.Equal(t, int64(3), failed.ID)
}

func TestRunBatch_HidesBackendDetail(t *testing.T) {
	res := RunBatch(context.Background(), []int64{9}, func(context.Context, int, int64) error {
		return errs.Backend("donations.delete", errors.New("pq: deadlock detected"))
	})
	assert.Equal(t, "failed", res[0].Error)
	assert.ErrorIs(t, res[0].Err(), errs.ErrBackend)
}
