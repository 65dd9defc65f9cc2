package fixture

import (
	"fmt"
	"time"
)

// Statuses as reported by the data provider.
const (
	StatusNotStarted = "Not Started"
	StatusFirstHalf  = "First Half"
	StatusHalftime   = "Halftime"
	StatusSecondHalf = "Second Half"
	StatusFinished   = "Match Finished"
	StatusPostponed  = "Match Postponed"
	StatusCancelled  = "Match Cancelled"
)

type Fixture struct {
	ID         string
	LeagueID   string
	HomeTeamID string
	AwayTeamID string
	VenueID    string
	KickoffAt  time.Time
	Status     string
	Round      string
	Slug       string
	ExternalID int64
	IsHot      bool

	// MinPrice is the cheapest available offer across all sellers,
	// converted to EUR. Nil when no offer is available.
	MinPrice *PriceSnapshot

	SupplierRefs []SupplierRef

	UpdatedAt time.Time
}

// PriceSnapshot is a cached cheapest-offer value.
type PriceSnapshot struct {
	Amount    float64
	Currency  string
	UpdatedAt time.Time
}

// SupplierRef links a fixture to one supplier's event listing.
type SupplierRef struct {
	SupplierID      string
	ExternalEventID string
	EventURL        string
	Metadata        map[string]string
}

func (f Fixture) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if f.LeagueID == "" {
		return fmt.Errorf("fixture league id is required")
	}
	if f.HomeTeamID == "" || f.AwayTeamID == "" {
		return fmt.Errorf("fixture teams are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture home and away teams must differ")
	}
	if f.KickoffAt.IsZero() {
		return fmt.Errorf("fixture kickoff time is required")
	}

	return nil
}

func (f Fixture) SupplierRefFor(supplierID string) (SupplierRef, bool) {
	for _, ref := range f.SupplierRefs {
		if ref.SupplierID == supplierID {
			return ref, true
		}
	}
	return SupplierRef{}, false
}

// Upcoming reports whether the fixture has not kicked off yet.
func (f Fixture) Upcoming(now time.Time) bool {
	return f.KickoffAt.After(now)
}

// BuildSlug derives the canonical fixture slug from the league and team
// slugs plus the kickoff date in UTC.
func BuildSlug(leagueSlug, homeSlug, awaySlug string, kickoff time.Time) string {
	return fmt.Sprintf("%s-%s-vs-%s-%s", leagueSlug, homeSlug, awaySlug, kickoff.UTC().Format("2006-01-02"))
}
