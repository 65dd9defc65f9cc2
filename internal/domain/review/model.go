package review

import (
	"fmt"
	"time"
)

type Review struct {
	ID        string
	AgentID   string
	Author    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func (r Review) Validate() error {
	if r.AgentID == "" {
		return fmt.Errorf("review agent id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("review rating must be between 1 and 5")
	}

	return nil
}
