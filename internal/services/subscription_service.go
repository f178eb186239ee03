package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/models"
)

// SubscriptionServiceProvider defines the interface for newsletter signups.
type SubscriptionServiceProvider interface {
	CreateSubscription(name, email string) (models.Subscription, error)
	GetAllSubscriptions() ([]models.Subscription, error)
}

// SubscriptionService provides business logic for newsletter subscriptions.
type SubscriptionService struct {
	db *sql.DB
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(db *sql.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// CreateSubscription records a newsletter signup.
func (s *SubscriptionService) CreateSubscription(name, email string) (models.Subscription, error) {
	sub := models.Subscription{ID: uuid.New().String(), Name: name, Email: email}
	_, err := s.db.Exec("INSERT INTO subscriptions(id, name, email) VALUES(?, ?, ?)", sub.ID, sub.Name, sub.Email)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("inserting subscription: %w", err)
	}
	if err := s.db.QueryRow("SELECT created_at FROM subscriptions WHERE id = ?", sub.ID).Scan(&sub.CreatedAt); err != nil {
		return models.Subscription{}, err
	}
	return sub, nil
}

// GetAllSubscriptions retrieves all signups, newest first.
func (s *SubscriptionService) GetAllSubscriptions() ([]models.Subscription, error) {
	rows, err := s.db.Query("SELECT id, name, email, created_at FROM subscriptions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
