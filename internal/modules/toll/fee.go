package toll

import (
	"sort"
	"time"
)

// FeeForPassTime returns the fee tier in effect at t's clock time. The date
// is ignored. Minutes before the first tier are free.
func (s *Service) FeeForPassTime(t time.Time) int64 {
	local := s.rules.local(t)
	minute := local.Hour()*60 + local.Minute()

	tiers := s.rules.schedule
	// first tier starting strictly after minute; the one before it applies
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].StartMinute > minute })
	if i == 0 {
		return 0
	}
	return tiers[i-1].Fee
}
