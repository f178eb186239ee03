package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmordi/habari-blog-be/internal/models"
)

// ContactServiceProvider defines the interface for contact form submissions.
type ContactServiceProvider interface {
	CreateMessage(msg models.ContactMessage) (models.ContactMessage, error)
	GetAllMessages() ([]models.ContactMessage, error)
}

// ContactService provides business logic for contact form submissions.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

// CreateMessage records a contact form submission.
func (s *ContactService) CreateMessage(msg models.ContactMessage) (models.ContactMessage, error) {
	msg.ID = uuid.New().String()
	_, err := s.db.Exec("INSERT INTO contact_messages(id, first_name, last_name, email, phone_number, message) VALUES(?, ?, ?, ?, ?, ?)",
		msg.ID, msg.FirstName, msg.LastName, msg.Email, msg.PhoneNumber, msg.Message)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("inserting contact message: %w", err)
	}
	if err := s.db.QueryRow("SELECT created_at FROM contact_messages WHERE id = ?", msg.ID).Scan(&msg.CreatedAt); err != nil {
		return models.ContactMessage{}, err
	}
	return msg, nil
}

// GetAllMessages retrieves all submissions, newest first.
func (s *ContactService) GetAllMessages() ([]models.ContactMessage, error) {
	rows, err := s.db.Query("SELECT id, first_name, last_name, email, phone_number, message, created_at FROM contact_messages ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("querying contact messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ContactMessage
	for rows.Next() {
		var msg models.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.FirstName, &msg.LastName, &msg.Email, &msg.PhoneNumber, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
