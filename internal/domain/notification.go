package domain

import (
	"fmt"
	"time"
)

// NotificationType is a closed set; new event kinds get a new constant here
// and a case in the push payload builder.
type NotificationType string

const (
	NotificationTransactionAdded NotificationType = "TRANSACTION_ADDED"
)

// Titles and content fragments are rendered in Korean, matching the client
// app locale.
const (
	transactionAddedTitle = "새로운 거래내역"
	incomeLabel           = "수입"
	expenseLabel          = "지출"
)

// NotificationData is the structured payload clients use for deep-linking.
type NotificationData struct {
	TransactionID string `json:"transaction_id" dynamodbav:"transaction_id"`
	GroupID       string `json:"group_id" dynamodbav:"group_id"`
}

// Notification is one recipient's copy of a group event. Owned by the
// recipient once written; the fan-out never updates or deletes it.
type Notification struct {
	NotificationID string           `json:"id" dynamodbav:"notification_id"`
	GroupID        string           `json:"group_id" dynamodbav:"group_id"`
	RecipientID    string           `json:"recipient_id" dynamodbav:"recipient_id"`
	Title          string           `json:"title" dynamodbav:"title"`
	Content        string           `json:"content" dynamodbav:"content"`
	Type           NotificationType `json:"type" dynamodbav:"type"`
	Data           NotificationData `json:"data" dynamodbav:"data"`
	Read           bool             `json:"read" dynamodbav:"read"`
	CreatedAt      time.Time        `json:"created" dynamodbav:"created_at"`
}

// NewTransactionNotification renders the per-recipient notification for a new
// transaction. The id is derived from (transaction, recipient) so a redelivered
// event overwrites its own record instead of duplicating it.
func NewTransactionNotification(tx Transaction, recipientID string, now time.Time) *Notification {
	label := expenseLabel
	if tx.Type {
		label = incomeLabel
	}
	return &Notification{
		NotificationID: tx.TransactionID + "#" + recipientID,
		GroupID:        tx.GroupID,
		RecipientID:    recipientID,
		Title:          transactionAddedTitle,
		Content:        fmt.Sprintf("%s님이 %d원의 %s을(를) 등록했습니다.", tx.AuthorName, tx.Amount, label),
		Type:           NotificationTransactionAdded,
		Data: NotificationData{
			TransactionID: tx.TransactionID,
			GroupID:       tx.GroupID,
		},
		Read:      false,
		CreatedAt: now.UTC(),
	}
}
