package rnfi

import "time"

// ContactMessage is a submission of the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	RemoteIP  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
