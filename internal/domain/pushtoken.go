package domain

import "time"

// PushToken is a user's current push delivery address (an SNS platform
// endpoint ARN). At most one live value per user; registration overwrites.
// Absence is a normal state: users without a registered device simply get no
// push.
type PushToken struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Token     string    `json:"token" dynamodbav:"token"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// RegisterPushTokenRequest is the registration endpoint body.
type RegisterPushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
