// Package client holds the client (customer) aggregate.
package client

import "fmt"

// Client is a customer the user works with.
type Client struct {
	ID        string
	OwnerID   string
	Name      string
	Company   string
	Email     string
	Phone     string
	CreatedAt int64 // unix millis
}

// Validate checks the fields a caller controls.
func (c *Client) Validate() error {
	if c.OwnerID == "" {
		return fmt.Errorf("owner is required")
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
