package agent

import "fmt"

// Agent is a reseller that lists its own offers on the marketplace.
type Agent struct {
	ID             string
	Name           string
	Slug           string
	Email          string
	LogoURL        string
	ExternalRating float64
	IsActive       bool
}

func (a Agent) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("agent id is required")
	}
	if a.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if a.Slug == "" {
		return fmt.Errorf("agent slug is required")
	}
	if a.ExternalRating < 0 || a.ExternalRating > 5 {
		return fmt.Errorf("agent rating must be between 0 and 5")
	}

	return nil
}
