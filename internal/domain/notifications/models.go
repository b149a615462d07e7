package notifications

import "time"

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	Type        string
	EntityID    string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Delivery is the persisted outcome of one Notify call.
type Delivery struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	EntityID  string    `json:"entityId"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
