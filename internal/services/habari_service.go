package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/models"
)

// HabariServiceProvider defines the interface for Habari gateway
// notifications.
type HabariServiceProvider interface {
	CreateNotification(n models.HabariNotification) (models.HabariNotification, error)
	GetAllNotifications() ([]models.HabariNotification, error)
}

// HabariService stores transaction notifications received from the Habari
// payment gateway webhook.
type HabariService struct {
	db *sql.DB
}

// NewHabariService creates a new HabariService.
func NewHabariService(db *sql.DB) *HabariService {
	return &HabariService{db: db}
}

// CreateNotification persists a gateway notification.
func (s *HabariService) CreateNotification(n models.HabariNotification) (models.HabariNotification, error) {
	n.ID = uuid.New().String()
	_, err := s.db.Exec("INSERT INTO habari_notifications(id, transaction_id, terminal_id, merchant_id, merchant_name, pan, token_type) VALUES(?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.TransactionID, n.TerminalID, n.MerchantID, n.MerchantName, n.PAN, n.TokenType)
	if err != nil {
		return models.HabariNotification{}, fmt.Errorf("inserting habari notification: %w", err)
	}
	if err := s.db.QueryRow("SELECT created_at FROM habari_notifications WHERE id = ?", n.ID).Scan(&n.CreatedAt); err != nil {
		return models.HabariNotification{}, err
	}
	return n, nil
}

// GetAllNotifications retrieves all stored notifications, newest first.
func (s *HabariService) GetAllNotifications() ([]models.HabariNotification, error) {
	rows, err := s.db.Query("SELECT id, transaction_id, terminal_id, merchant_id, merchant_name, pan, token_type, created_at FROM habari_notifications ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying habari notifications: %w", err)
	}
	defer rows.Close()

	var ns []models.HabariNotification
	for rows.Next() {
		var n models.HabariNotification
		if err := rows.Scan(&n.ID, &n.TransactionID, &n.TerminalID, &n.MerchantID, &n.MerchantName, &n.PAN, &n.TokenType, &n.CreatedAt); err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, rows.Err()
}
