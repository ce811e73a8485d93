package sns

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/moim/ledger-notify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPushMessage(t *testing.T) {
	tx := domain.Transaction{
		GroupID:       "g1",
		TransactionID: "t1",
		AuthorID:      "u1",
		AuthorName:    "Alice",
		Amount:        5000,
		Type:          false,
	}
	n := domain.NewTransactionNotification(tx, "u2", time.Now())

	msg, err := buildPushMessage(n)
	require.NoError(t, err)

	var wrapper map[string]string
	require.NoError(t, json.Unmarshal([]byte(msg), &wrapper))
	assert.Equal(t, n.Content, wrapper["default"])

	var gcm gcmMessage
	require.NoError(t, json.Unmarshal([]byte(wrapper["GCM"]), &gcm))
	assert.Equal(t, "새로운 거래내역", gcm.Notification.Title)
	assert.Contains(t, gcm.Notification.Body, "Alice")
	assert.Contains(t, gcm.Notification.Body, "5000")
	assert.Contains(t, gcm.Notification.Body, "지출")
	assert.Equal(t, map[string]string{
		"type":          "TRANSACTION_ADDED",
		"transactionId": "t1",
		"groupId":       "g1",
	}, gcm.Data)
	assert.Equal(t, "transaction_notification", gcm.Android.Notification.ChannelID)
}

func TestBuildPushMessage_IncomeLabel(t *testing.T) {
	tx := domain.Transaction{
		GroupID:       "g1",
		TransactionID: "t2",
		AuthorName:    "Bob",
		Amount:        12000,
		Type:          true,
	}
	n := domain.NewTransactionNotification(tx, "u3", time.Now())

	msg, err := buildPushMessage(n)
	require.NoError(t, err)
	assert.Contains(t, msg, "수입")
	assert.NotContains(t, msg, "지출")
}
