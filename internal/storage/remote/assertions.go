package remote

import "github.com/tinoosan/fanbase/internal/repository"

// Compile-time checks that the relational Store covers every repository.
var (
	_ repository.Backend = (*Store)(nil)

	_ repository.Profiles     = profileRepo{}
	_ repository.Seasons      = seasonRepo{}
	_ repository.Episodes     = episodeRepo{}
	_ repository.Donations    = donationRepo{}
	_ repository.Rankings     = rankingRepo{}
	_ repository.Posts        = postRepo{}
	_ repository.Comments     = commentRepo{}
	_ repository.Notices      = noticeRepo{}
	_ repository.Schedules    = scheduleRepo{}
	_ repository.Timeline     = timelineRepo{}
	_ repository.Signatures   = signatureRepo{}
	_ repository.VipRewards   = rewardRepo{}
	_ repository.VipImages    = imageRepo{}
	_ repository.Media        = mediaRepo{}
	_ repository.LiveStatus   = liveRepo{}
	_ repository.Banners      = bannerRepo{}
	_ repository.Guestbook    = guestbookRepo{}
	_ repository.Organization = orgRepo{}
)
