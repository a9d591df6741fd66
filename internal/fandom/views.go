package fandom

// AnonymousName is shown in place of an author who posted anonymously or
// whose profile no longer exists.
const AnonymousName = "Anonymous"

// RankingItem is a derived standing. It is computed on read and never stored.
type RankingItem struct {
	Rank        int     `json:"rank"`
	DonorID     *string `json:"donor_id,omitempty"`
	DonorName   string  `json:"donor_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	TotalAmount int64   `json:"total_amount"`
	SeasonID    *int64  `json:"season_id,omitempty"`
}

// PostItem is a post with its author resolved for display.
type PostItem struct {
	Post
	AuthorName string `json:"author_name"`
}

// CommentItem is a comment with its author resolved for display.
type CommentItem struct {
	Comment
	AuthorName string `json:"author_name"`
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// AuthorName resolves the display name of a post or comment author.
func AuthorName(anonymous bool, p *Profile) string {
	if anonymous || p == nil || p.Nickname == "" {
		return AnonymousName
	}
	return p.Nickname
}
