package usecases

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jinzhu/now"

	"github.com/planora/backoffice/internal/core/domain"
)

const (
	// WeeklyBucketCount is the number of consecutive weeks on the chart.
	WeeklyBucketCount = 12
	// RecentTripCount is the number of newest trips shown on the dashboard.
	RecentTripCount = 5
)

// BuildDashboard aggregates an owner's full trip list as of now. Week
// boundaries are calendar days in loc.
func BuildDashboard(trips []domain.Trip, at time.Time, loc *time.Location) domain.Dashboard {
	if loc == nil {
		loc = time.Local
	}

	d := domain.Dashboard{
		TotalTrips:  len(trips),
		GeneratedAt: at,
	}
	for _, t := range trips {
		switch t.Status {
		case domain.TripStatusCompleted:
			d.CompletedCount++
		case domain.TripStatusCancelled:
			d.CancelledCount++
		case domain.TripStatusUpcoming:
			d.UpcomingCount++
		}
		d.TotalRevenue += t.Price()
	}

	d.StatusBreakdown = statusBreakdown(d.CompletedCount, d.UpcomingCount, d.CancelledCount)
	d.WeeklyTrips = weeklyBuckets(trips, at.In(loc))
	d.RecentTrips = recentTrips(trips, RecentTripCount)
	return d
}

func statusBreakdown(completed, upcoming, cancelled int) domain.StatusBreakdown {
	total := completed + upcoming + cancelled
	if total < 1 {
		total = 1
	}
	share := func(n int) float64 { return float64(n) / float64(total) }

	b := domain.StatusBreakdown{
		Total:          total,
		CompletedPct:   int(math.Round(share(completed) * 100)),
		UpcomingPct:    int(math.Round(share(upcoming) * 100)),
		CancelledPct:   int(math.Round(share(cancelled) * 100)),
		CompletedAngle: share(completed) * 360,
		UpcomingAngle:  share(upcoming) * 360,
	}
	// Cancelled takes the remainder so the donut always closes, including
	// the empty case where it fills the whole circle.
	b.CancelledAngle = 360 - b.CompletedAngle - b.UpcomingAngle

	upcomingEnd := b.CompletedAngle + b.UpcomingAngle
	b.Segments = []domain.ArcSegment{
		{Status: domain.TripStatusCompleted, Start: 0, End: b.CompletedAngle},
		{Status: domain.TripStatusUpcoming, Start: b.CompletedAngle, End: upcomingEnd},
		{Status: domain.TripStatusCancelled, Start: upcomingEnd, End: 360},
	}
	return b
}

// weeklyBuckets returns the twelve weeks ending today, oldest first. Week
// i (0 = oldest) starts at local midnight 7*(11-i) days ago and ends at
// 23:59:59.999 six days later.
func weeklyBuckets(trips []domain.Trip, today time.Time) []domain.WeeklyBucket {
	buckets := make([]domain.WeeklyBucket, 0, WeeklyBucketCount)
	for i := WeeklyBucketCount - 1; i >= 0; i-- {
		start := now.With(today.AddDate(0, 0, -7*i)).BeginningOfDay()
		end := now.With(start.AddDate(0, 0, 6)).EndOfDay().Truncate(time.Millisecond)

		b := domain.WeeklyBucket{
			Week:  fmt.Sprintf("%02d/%02d", int(start.Month()), start.Day()),
			Start: start,
			End:   end,
		}
		for _, t := range trips {
			if !t.CreatedAt.Before(start) && !t.CreatedAt.After(end) {
				b.Trips++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// recentTrips returns the n newest trips by created_at, ties broken by id.
func recentTrips(trips []domain.Trip, n int) []domain.Trip {
	sorted := make([]domain.Trip, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
