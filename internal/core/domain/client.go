package domain

import "time"

// Client is an account holder. DocumentNumber is the national identity
// document and must be unique across active clients.
type Client struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	DocumentNumber string    `json:"document_number"`
	Email          string    `json:"email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c Client) EntityID() int64 { return c.ID }

func (c Client) WithID(id int64) Client {
	c.ID = id
	return c
}

func (c Client) Clone() Client { return c }
