package memory

import (
	"cmp"
	"context"

	"github.com/tinoosan/fanbase/internal/errs"
	"github.com/tinoosan/fanbase/internal/fandom"
	"github.com/tinoosan/fanbase/internal/repository"
)

type liveRepo struct{ s *Store }

func liveByID(a, b fandom.LiveStatus) int { return cmp.Compare(a.ID, b.ID) }

func liveByViewers(a, b fandom.LiveStatus) int {
	if c := cmp.Compare(b.ViewerCount, a.ViewerCount); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r liveRepo) FindAll(_ context.Context) ([]fandom.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.live.list(nil, liveByID), nil
}

func (r liveRepo) FindByMemberID(_ context.Context, memberID int64) ([]fandom.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.live.list(func(l fandom.LiveStatus) bool { return l.MemberID == memberID }, liveByID), nil
}

func (r liveRepo) FindLive(_ context.Context) ([]fandom.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.live.list(func(l fandom.LiveStatus) bool { return l.IsLive }, liveByViewers), nil
}

func (r liveRepo) FindLiveByPlatform(_ context.Context, platform string) ([]fandom.LiveStatus, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.live.list(func(l fandom.LiveStatus) bool {
		return l.IsLive && l.Platform == platform
	}, liveByViewers), nil
}

func (r liveRepo) UpdateStatus(_ context.Context, memberID int64, isLive bool, viewerCount *int) error {
	now := repository.Timestamp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.s.live.list(func(l fandom.LiveStatus) bool { return l.MemberID == memberID }, liveByID)
	if len(rows) == 0 {
		return errs.NotFound("live status")
	}
	for _, l := range rows {
		l.IsLive = isLive
		if viewerCount != nil {
			l.ViewerCount = *viewerCount
		}
		l.LastChecked = now
		r.s.live.replace(l)
	}
	return nil
}

func (r liveRepo) Upsert(_ context.Context, l fandom.LiveStatus) (fandom.LiveStatus, error) {
	if err := l.Validate(); err != nil {
		return fandom.LiveStatus{}, err
	}
	stamp(&l.LastChecked, repository.Timestamp())
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.live.first(func(x fandom.LiveStatus) bool {
		return x.MemberID == l.MemberID && x.Platform == l.Platform
	}, liveByID)
	if !ok {
		return r.s.live.insert(l), nil
	}
	l.ID = cur.ID
	r.s.live.replace(l)
	return l, nil
}

func (r liveRepo) LiveCount(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, l := range r.s.live.rows {
		if l.IsLive {
			n++
		}
	}
	return n, nil
}

func (r liveRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.live.remove(id) {
		return errs.NotFound("live status")
	}
	return nil
}
