package domain

import "time"

// Member is a user's membership in a ledger group. Reference data owned by the
// group service; this service only ever reads it.
type Member struct {
	GroupID  string    `json:"group_id" dynamodbav:"group_id"`
	UserID   string    `json:"user_id" dynamodbav:"user_id"`
	Nickname string    `json:"nickname" dynamodbav:"nickname"`
	JoinedAt time.Time `json:"joined" dynamodbav:"joined_at"`
}
