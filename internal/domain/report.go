package domain

// ChartPoint is one labelled value in a report series.
type ChartPoint struct {
	Label string
	Value int
}

// Report aggregates request statistics for the admin dashboard.
type Report struct {
	TotalRequests                int
	OpenRequests                 int
	ClosedRequests               int
	AverageResolutionTimeInHours float64
	RequestsByType               []ChartPoint
	RequestsByPriority           []ChartPoint
	RequestsByMonth              []ChartPoint
}
