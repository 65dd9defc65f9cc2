package usecase

import "time"

// External payload contracts produced by provider clients and consumed
// by the sync services. Field values are raw feed data; nothing here has
// been reconciled against local records yet.

// ExternalTeam is a team row from the sports-data provider.
type ExternalTeam struct {
	ExternalID      int64
	Name            string
	Code            string
	Country         string
	LogoURL         string
	VenueExternalID int64
}

// ExternalVenue is a stadium row from the sports-data provider.
type ExternalVenue struct {
	ExternalID int64
	Name       string
	City       string
	Country    string
	Capacity   int
	ImageURL   string
}

// ExternalFixture is a scheduled match from the sports-data provider.
type ExternalFixture struct {
	ExternalID         int64
	LeagueExternalID   int64
	HomeTeamName       string
	AwayTeamName       string
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	VenueExternalID    int64
	KickoffAt          time.Time
	Status             string
	Round              string
}

// ExternalFixtureBundle is one league-season snapshot: the fixtures plus
// the teams and venues referenced by them.
type ExternalFixtureBundle struct {
	Fixtures []ExternalFixture
	Teams    []ExternalTeam
	Venues   []ExternalVenue
}

// ExternalOffer is one ticket listing from a supplier. Team names are
// the supplier's own spelling and go through the resolver before use.
type ExternalOffer struct {
	SupplierEventID string
	EventName       string
	HomeTeamName    string
	AwayTeamName    string
	KickoffAt       time.Time
	Price           float64
	Currency        string
	TicketType      string
	URL             string
	Available       bool
}
