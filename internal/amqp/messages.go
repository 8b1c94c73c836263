package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseEvent is the lightweight message published whenever an expense is
// created or updated. The worker fetches the full expense from the database,
// so the event only needs to identify it.
type ExpenseEvent struct {
	ExpenseID int64     `json:"expense_id"`
	PlaceID   int64     `json:"place_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

func NewExpenseEvent(expenseID, placeID int64, action string) *ExpenseEvent {
	return &ExpenseEvent{
		ExpenseID: expenseID,
		PlaceID:   placeID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
