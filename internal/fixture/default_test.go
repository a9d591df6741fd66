package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsConsistent(t *testing.T) {
	ds := Default()

	profiles := map[string]bool{}
	for _, p := range ds.Profiles {
		require.NoError(t, p.Validate(), p.ID)
		profiles[p.ID] = true
	}
	seasons := map[int64]bool{}
	for _, s := range ds.Seasons {
		require.NoError(t, s.Validate())
		seasons[s.ID] = true
	}
	episodes := map[int64]bool{}
	for _, e := range ds.Episodes {
		require.NoError(t, e.Validate())
		assert.True(t, seasons[e.SeasonID], "episode %d season", e.ID)
		episodes[e.ID] = true
	}

	totals := map[string]int64{}
	for _, d := range ds.Donations {
		require.NoError(t, d.Validate(), "donation %d", d.ID)
		assert.True(t, seasons[d.SeasonID], "donation %d season", d.ID)
		if d.EpisodeID != nil {
			assert.True(t, episodes[*d.EpisodeID], "donation %d episode", d.ID)
		}
		if d.DonorID != nil {
			assert.True(t, profiles[*d.DonorID], "donation %d donor", d.ID)
			totals[*d.DonorID] += d.Amount
		}
	}
	for _, p := range ds.Profiles {
		assert.Equal(t, totals[p.ID], p.TotalDonation, p.ID)
	}

	posts := map[int64]bool{}
	for _, p := range ds.Posts {
		require.NoError(t, p.Validate())
		assert.True(t, profiles[p.AuthorID], "post %d author", p.ID)
		posts[p.ID] = true
	}
	for _, c := range ds.Comments {
		assert.True(t, posts[c.PostID], "comment %d post", c.ID)
	}
	for _, l := range ds.PostLikes {
		assert.True(t, posts[l.PostID], "like %d post", l.ID)
	}

	rewards := map[int64]bool{}
	for _, r := range ds.VipRewards {
		require.NoError(t, r.Validate())
		assert.True(t, profiles[r.ProfileID])
		rewards[r.ID] = true
	}
	for _, img := range ds.VipImages {
		assert.True(t, rewards[img.RewardID], "image %d reward", img.ID)
	}

	org := map[int64]bool{}
	for _, m := range ds.Org {
		org[m.ID] = true
	}
	for _, l := range ds.LiveStatus {
		assert.True(t, org[l.MemberID], "live %d member", l.ID)
	}
	for _, g := range ds.Guestbook {
		require.NoError(t, g.Validate())
		assert.True(t, profiles[g.TributeUserID])
	}
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	a := Default()
	a.Profiles[0].Nickname = "changed"
	*a.Donations[0].DonorID = "someone-else"

	b := Default()
	assert.Equal(t, "Admin", b.Profiles[0].Nickname)
	assert.Equal(t, DonorID(1), *b.Donations[0].DonorID)
}

func TestPostCountersMatchRows(t *testing.T) {
	ds := Default()
	for _, p := range ds.Posts {
		if p.IsDeleted {
			continue
		}
		var likes, comments int64
		for _, l := range ds.PostLikes {
			if l.PostID == p.ID {
				likes++
			}
		}
		for _, c := range ds.Comments {
			if c.PostID == p.ID && !c.IsDeleted {
				comments++
			}
		}
		assert.Equal(t, likes, p.LikeCount, "post %d likes", p.ID)
		assert.Equal(t, comments, p.CommentCount, "post %d comments", p.ID)
	}
}
