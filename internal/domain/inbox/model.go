package inbox

import (
	"errors"
	"time"
)

var ErrMessageNotFound = errors.New("message not found")

// Message is a contact-form submission.
type Message struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
