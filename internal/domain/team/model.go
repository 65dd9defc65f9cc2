package team

import (
	"fmt"
	"strings"
)

// Team is a football club known to the marketplace.
type Team struct {
	ID           string
	NameEn       string
	NameLocal    string
	Code         string
	Slug         string
	CountryEn    string
	CountryLocal string
	LogoURL      string
	VenueID      string
	LeagueIDs    []string
	IsPopular    bool
	SupplierRefs []SupplierRef
}

// SupplierRef links a team to its identity in one supplier's catalogue.
type SupplierRef struct {
	SupplierID       string
	ExternalTeamID   string
	ExternalTeamName string
	Metadata         map[string]string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.NameEn == "" && t.NameLocal == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Slug == "" {
		return fmt.Errorf("team slug is required")
	}

	return nil
}

// DisplayName prefers the English name and falls back to the local one.
func (t Team) DisplayName() string {
	if strings.TrimSpace(t.NameEn) != "" {
		return t.NameEn
	}
	return t.NameLocal
}

func (t Team) InLeague(leagueID string) bool {
	for _, id := range t.LeagueIDs {
		if id == leagueID {
			return true
		}
	}
	return false
}

// SupplierRefFor returns the stored reference for one supplier, if any.
func (t Team) SupplierRefFor(supplierID string) (SupplierRef, bool) {
	for _, ref := range t.SupplierRefs {
		if ref.SupplierID == supplierID {
			return ref, true
		}
	}
	return SupplierRef{}, false
}
