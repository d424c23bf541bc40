package domain

import "time"

// Contract links a client to a commercial user with pricing state.
// Invariants: TotalPrice > 0 and 0 <= RestToPay <= TotalPrice.
// CommercialContactID becomes nil when the owning user is deleted.
type Contract struct {
	ID                  int64
	TotalPrice          float64
	RestToPay           float64
	Signed              bool
	Creation            time.Time // set once, at creation
	ClientID            int64
	CommercialContactID *int64
}

// Pending reports whether the contract still needs attention: unsigned
// or not fully paid.
func (c *Contract) Pending() bool {
	return !c.Signed || c.RestToPay > 0
}
