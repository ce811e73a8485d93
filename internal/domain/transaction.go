package domain

// Transaction is the ledger entry that triggers a fan-out. It is created by
// the ledger writer upstream and is read-only for this service.
type Transaction struct {
	GroupID       string `json:"gid"`
	TransactionID string `json:"tid"`
	AuthorID      string `json:"author_id"`
	AuthorName    string `json:"author_name"`
	// Amount is in KRW; the ledger stores whole won only.
	Amount int64 `json:"amount"`
	// Type is true for income, false for expense.
	Type bool `json:"type"`
}

// TransactionCreated is the event envelope published on the transaction topic.
// Delivery is at-least-once; consumers must tolerate redelivery.
type TransactionCreated struct {
	Transaction Transaction `json:"transaction"`
}
