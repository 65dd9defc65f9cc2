package league

import "fmt"

const (
	TypeLeague = "League"
	TypeCup    = "Cup"
)

type League struct {
	ID           string
	NameEn       string
	NameLocal    string
	Slug         string
	Type         string
	CountryEn    string
	CountryLocal string
	LogoURL      string
	IsPopular    bool
	ExternalID   int64

	// Months holds the distinct "2006-01" keys of months that currently
	// have at least one upcoming fixture, sorted ascending.
	Months []string
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Slug == "" {
		return fmt.Errorf("league slug is required")
	}
	switch l.Type {
	case TypeLeague, TypeCup:
	default:
		return fmt.Errorf("league type %q is not supported", l.Type)
	}

	return nil
}
