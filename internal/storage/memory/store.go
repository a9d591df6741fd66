// Package memory is the fixture backend: every repository held in maps behind
// one RWMutex. It is the default provider for local development and tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/fixture"
	"github.com/tinoosan/fanbase/internal/repository"
)

// table is an int64-keyed collection with a monotonic id sequence.
// Deleting a row never rewinds the sequence.
type table[T any] struct {
	rows map[int64]T
	seq  int64
	id   func(*T) *int64
}

func newTable[T any](id func(*T) *int64) *table[T] {
	return &table[T]{rows: make(map[int64]T), id: id}
}

// insert stores row under a fresh id.
func (t *table[T]) insert(row T) T {
	t.seq++
	*t.id(&row) = t.seq
	t.rows[t.seq] = row
	return row
}

// load stores row under its own id, advancing the sequence past it.
func (t *table[T]) load(row T) {
	id := *t.id(&row)
	if id == 0 {
		t.insert(row)
		return
	}
	if id > t.seq {
		t.seq = id
	}
	t.rows[id] = row
}

func (t *table[T]) get(id int64) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// replace overwrites an existing row and reports whether it existed.
func (t *table[T]) replace(row T) bool {
	id := *t.id(&row)
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// list returns the rows accepted by keep, sorted by cmp. cmp must be total.
func (t *table[T]) list(keep func(T) bool, cmp func(a, b T) int) []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, cmp)
	return out
}

// first returns the smallest row under cmp that keep accepts.
func (t *table[T]) first(keep func(T) bool, cmp func(a, b T) int) (*T, bool) {
	rows := t.list(keep, cmp)
	if len(rows) == 0 {
		return nil, false
	}
	return &rows[0], true
}

// Store is the in-memory backend. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	profiles   map[string]fandom.Profile
	seasons    *table[fandom.Season]
	episodes   *table[fandom.Episode]
	donations  *table[fandom.Donation]
	org        *table[fandom.OrgMember]
	notices    *table[fandom.Notice]
	posts      *table[fandom.Post]
	likes      *table[fandom.PostLike]
	comments   *table[fandom.Comment]
	schedules  *table[fandom.Schedule]
	timeline   *table[fandom.TimelineEvent]
	signatures *table[fandom.Signature]
	rewards    *table[fandom.VipReward]
	images     *table[fandom.VipImage]
	media      *table[fandom.Media]
	live       *table[fandom.LiveStatus]
	banners    *table[fandom.Banner]
	guestbook  *table[fandom.GuestbookEntry]
}

// New constructs an empty in-memory store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Reset drops every row and rewinds the id sequences.
func (s *Store) Reset() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
}

func (s *Store) reset() {
	s.profiles = make(map[string]fandom.Profile)
	s.seasons = newTable(func(r *fandom.Season) *int64 { return &r.ID })
	s.episodes = newTable(func(r *fandom.Episode) *int64 { return &r.ID })
	s.donations = newTable(func(r *fandom.Donation) *int64 { return &r.ID })
	s.org = newTable(func(r *fandom.OrgMember) *int64 { return &r.ID })
	s.notices = newTable(func(r *fandom.Notice) *int64 { return &r.ID })
	s.posts = newTable(func(r *fandom.Post) *int64 { return &r.ID })
	s.likes = newTable(func(r *fandom.PostLike) *int64 { return &r.ID })
	s.comments = newTable(func(r *fandom.Comment) *int64 { return &r.ID })
	s.schedules = newTable(func(r *fandom.Schedule) *int64 { return &r.ID })
	s.timeline = newTable(func(r *fandom.TimelineEvent) *int64 { return &r.ID })
	s.signatures = newTable(func(r *fandom.Signature) *int64 { return &r.ID })
	s.rewards = newTable(func(r *fandom.VipReward) *int64 { return &r.ID })
	s.images = newTable(func(r *fandom.VipImage) *int64 { return &r.ID })
	s.media = newTable(func(r *fandom.Media) *int64 { return &r.ID })
	s.live = newTable(func(r *fandom.LiveStatus) *int64 { return &r.ID })
	s.banners = newTable(func(r *fandom.Banner) *int64 { return &r.ID })
	s.guestbook = newTable(func(r *fandom.GuestbookEntry) *int64 { return &r.ID })
}

// Load copies a dataset into the store, keeping its ids.
func (s *Store) Load(ds fixture.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ds.Profiles {
		s.profiles[p.ID] = p
	}
	loadAll(s.seasons, ds.Seasons)
	loadAll(s.episodes, ds.Episodes)
	loadAll(s.donations, ds.Donations)
	loadAll(s.org, ds.Org)
	loadAll(s.notices, ds.Notices)
	loadAll(s.posts, ds.Posts)
	loadAll(s.likes, ds.PostLikes)
	loadAll(s.comments, ds.Comments)
	loadAll(s.schedules, ds.Schedules)
	loadAll(s.timeline, ds.Timeline)
	loadAll(s.signatures, ds.Signatures)
	loadAll(s.rewards, ds.VipRewards)
	loadAll(s.images, ds.VipImages)
	loadAll(s.media, ds.Media)
	loadAll(s.live, ds.LiveStatus)
	loadAll(s.banners, ds.Banners)
	loadAll(s.guestbook, ds.Guestbook)
}

func loadAll[T any](t *table[T], rows []T) {
	for _, r := range rows {
		t.load(r)
	}
}

func (s *Store) Profiles() repository.Profiles         { return profileRepo{s} }
func (s *Store) Seasons() repository.Seasons           { return seasonRepo{s} }
func (s *Store) Episodes() repository.Episodes         { return episodeRepo{s} }
func (s *Store) Donations() repository.Donations       { return donationRepo{s} }
func (s *Store) Rankings() repository.Rankings         { return rankingRepo{s} }
func (s *Store) Posts() repository.Posts               { return postRepo{s} }
func (s *Store) Comments() repository.Comments         { return commentRepo{s} }
func (s *Store) Notices() repository.Notices           { return noticeRepo{s} }
func (s *Store) Schedules() repository.Schedules       { return scheduleRepo{s} }
func (s *Store) Timeline() repository.Timeline         { return timelineRepo{s} }
func (s *Store) Signatures() repository.Signatures     { return signatureRepo{s} }
func (s *Store) VipRewards() repository.VipRewards     { return rewardRepo{s} }
func (s *Store) VipImages() repository.VipImages       { return imageRepo{s} }
func (s *Store) Media() repository.Media               { return mediaRepo{s} }
func (s *Store) LiveStatus() repository.LiveStatus     { return liveRepo{s} }
func (s *Store) Banners() repository.Banners           { return bannerRepo{s} }
func (s *Store) Guestbook() repository.Guestbook       { return guestbookRepo{s} }
func (s *Store) Organization() repository.Organization { return orgRepo{s} }

// Ready always succeeds; it mirrors the relational backend's health probe.
func (s *Store) Ready(context.Context) error { return nil }

