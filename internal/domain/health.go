package domain

import "time"

// ============================================================
// Health & events
// ============================================================

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse wraps a successful action without a resource body.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Event types published after successful mutations.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventGoalCompleted      = "goal.completed"
	EventDebtSettled        = "debt.settled"
	EventAchievementGranted = "achievement.granted"
	EventNetWorthSnapshot   = "networth.snapshot"
)

// Event is a domain event. Type doubles as the routing key.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}
