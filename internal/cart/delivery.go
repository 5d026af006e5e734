package cart

import (
	"strings"
	"time"
)

const (
	standardDeliveryDays = 3
	premiumDeliveryDays  = 1
)

// EstimateDelivery returns the expected delivery date counting business days
// from the given time. Any line whose store name contains "premium" upgrades
// the whole cart to next-business-day.
func (s *Service) EstimateDelivery(from time.Time) time.Time {
	days := standardDeliveryDays
	for _, item := range s.items {
		if item.StoreName != nil && strings.Contains(strings.ToLower(*item.StoreName), "premium") {
			days = premiumDeliveryDays
			break
		}
	}
	return addBusinessDays(from, days)
}

// addBusinessDays advances day by day, counting only Mon-Fri.
func addBusinessDays(from time.Time, days int) time.Time {
	current := from
	for added := 0; added < days; {
		current = current.AddDate(0, 0, 1)
		if wd := current.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return current
}
