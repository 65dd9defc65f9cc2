package offer

import (
	"fmt"
	"time"
)

const (
	OwnerTypeSupplier = "supplier"
	OwnerTypeAgent    = "agent"
)

const (
	TicketTypeStandard    = "standard"
	TicketTypeVIP         = "vip"
	TicketTypeHospitality = "hospitality"
)

// Offer is one seller's price for one fixture.
type Offer struct {
	ID          string
	FixtureID   string
	OwnerType   string
	OwnerID     string
	TicketType  string
	Price       float64
	Currency    string
	URL         string
	Notes       string
	IsAvailable bool
	UpdatedAt   time.Time
}

func (o Offer) Validate() error {
	if o.FixtureID == "" {
		return fmt.Errorf("offer fixture id is required")
	}
	switch o.OwnerType {
	case OwnerTypeSupplier, OwnerTypeAgent:
	default:
		return fmt.Errorf("offer owner type %q is not supported", o.OwnerType)
	}
	if o.OwnerID == "" {
		return fmt.Errorf("offer owner id is required")
	}
	switch o.TicketType {
	case TicketTypeStandard, TicketTypeVIP, TicketTypeHospitality:
	default:
		return fmt.Errorf("offer ticket type %q is not supported", o.TicketType)
	}
	if o.Price <= 0 {
		return fmt.Errorf("offer price must be positive")
	}
	if o.Currency == "" {
		return fmt.Errorf("offer currency is required")
	}

	return nil
}
