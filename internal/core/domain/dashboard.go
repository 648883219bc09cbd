package domain

import "time"

// Dashboard is the aggregate view of one owner's trips.
type Dashboard struct {
	TotalTrips      int             `json:"total_trips"`
	CompletedCount  int             `json:"completed_count"`
	CancelledCount  int             `json:"cancelled_count"`
	UpcomingCount   int             `json:"upcoming_count"`
	TotalRevenue    float64         `json:"total_revenue"`
	StatusBreakdown StatusBreakdown `json:"status_breakdown"`
	WeeklyTrips     []WeeklyBucket  `json:"weekly_trips"`
	RecentTrips     []Trip          `json:"recent_trips"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// StatusBreakdown splits upcoming, completed and cancelled trips for the
// donut chart. BOOKED trips are not part of it.
type StatusBreakdown struct {
	// Total is upcoming+completed+cancelled, floored to 1.
	Total          int          `json:"total"`
	CompletedPct   int          `json:"completed_pct"`
	UpcomingPct    int          `json:"upcoming_pct"`
	CancelledPct   int          `json:"cancelled_pct"`
	CompletedAngle float64      `json:"completed_angle"`
	UpcomingAngle  float64      `json:"upcoming_angle"`
	CancelledAngle float64      `json:"cancelled_angle"`
	Segments       []ArcSegment `json:"segments"`
}

// ArcSegment is a [Start, End) degree range of the donut chart.
type ArcSegment struct {
	Status TripStatus `json:"status"`
	Start  float64    `json:"start"`
	End    float64    `json:"end"`
}

// WeeklyBucket counts trips created inside [Start, End].
type WeeklyBucket struct {
	Week  string    `json:"week"` // MM/DD of Start
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Trips int       `json:"trips"`
}
