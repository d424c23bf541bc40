package domain

import "time"

// Client is a customer record managed by a commercial user.
// BusinessName and Telephone are optional and may be cleared explicitly.
// CommercialContactID becomes nil when the owning user is deleted; the
// client record itself is never hard-deleted.
type Client struct {
	ID                  int64
	FirstName           string
	LastName            string
	BusinessName        *string
	Telephone           *string
	Email               string
	FirstContact        time.Time // set once, at creation
	LastUpdate          time.Time // refreshed on every update
	CommercialContactID *int64
}

// DisplayName returns the business name when present, otherwise the
// client's full name.
func (c *Client) DisplayName() string {
	if c.BusinessName != nil && *c.BusinessName != "" {
		return *c.BusinessName
	}
	return c.FirstName + " " + c.LastName
}
