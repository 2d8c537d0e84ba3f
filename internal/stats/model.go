package stats

// Summary holds the dashboard metrics derived from request state and the
// audit log. AverageProcessingHours is nil until at least one request has
// reached a decision.
type Summary struct {
	PendingCount           int      `json:"pendingCount"`
	ApprovedToday          int      `json:"approvedToday"`
	TotalPaidOut           int64    `json:"totalPaidOut"`
	AverageProcessingHours *float64 `json:"averageProcessingHours"`
}
