package models

import "time"

// HabariNotification represents a transaction notification delivered by the
// Habari payment gateway webhook.
type HabariNotification struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionid"`
	TerminalID    string    `json:"terminalid"`
	MerchantID    string    `json:"merchantid"`
	MerchantName  string    `json:"merchantname"`
	PAN           string    `json:"pan"`
	TokenType     string    `json:"tokentype"`
	CreatedAt     time.Time `json:"createdAt"`
}
