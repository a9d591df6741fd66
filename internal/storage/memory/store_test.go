package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
	"github.com/tinoosan/fanbase/internal/storage/storagetest"
)

func seeded() *Store {
	s := New()
	s.Load(fixture.Default())
	return s
}

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) repository.Backend { return seeded() })
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	s.Reset()

	all, err := s.Donations().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	p, err := s.Profiles().FindByID(ctx, fixture.AdminID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoadCopiesDataset(t *testing.T) {
	ctx := context.Background()
	ds := fixture.Default()
	s := New()
	s.Load(ds)

	ds.Seasons[0].Name = "mutated"
	got, err := s.Seasons().FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotEqual(t, "mutated", got.Name)
}

func TestConcurrentLikesKeepCountConsistent(t *testing.T) {
	ctx := context.Background()
	s := seeded()
	posts := s.Posts()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			user := fixture.DonorID(1 + n%8)
			if n >= 8 {
				user = user + "-extra"
			}
			_, _ = posts.ToggleLike(ctx, 3, user)
		}(i)
	}
	wg.Wait()

	p, err := posts.FindByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, p)

	var liked int64
	for i := range 20 {
		user := fixture.DonorID(1 + i%8)
		if i >= 8 {
			user = user + "-extra"
		}
		ok, err := posts.HasUserLiked(ctx, 3, user)
		require.NoError(t, err)
		if ok {
			liked++
		}
	}
	assert.Equal(t, liked, p.LikeCount)
}

func TestConcurrentViewsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := seeded()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Posts().IncrementViewCount(ctx, 2)
		}()
	}
	wg.Wait()

	p, err := s.Posts().FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(88+50), p.ViewCount)
}
