package venue

import "fmt"

type Venue struct {
	ID           string
	NameEn       string
	NameLocal    string
	CityEn       string
	CityLocal    string
	CountryEn    string
	CountryLocal string
	Capacity     int
	ImageURL     string
	ExternalID   int64
}

func (v Venue) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("venue id is required")
	}
	if v.NameEn == "" && v.NameLocal == "" {
		return fmt.Errorf("venue name is required")
	}
	if v.Capacity < 0 {
		return fmt.Errorf("venue capacity must not be negative")
	}

	return nil
}
