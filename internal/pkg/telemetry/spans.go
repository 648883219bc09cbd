package telemetry

// Span names used by the service layer.
const (
	SpanTripsList      = "trips.list"
	SpanTripsGet       = "trips.get"
	SpanTripsCreate    = "trips.create"
	SpanTripsQuickBook = "trips.quick_book"
	SpanTripsUpdate    = "trips.update"
	SpanTripsDelete    = "trips.delete"

	SpanDashboardBuild = "dashboard.build"

	SpanDestinationsList   = "destinations.list"
	SpanDestinationsDetail = "destinations.detail"
)
