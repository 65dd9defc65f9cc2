package supplier

import (
	"fmt"
	"time"
)

// Known supplier slugs.
const (
	SlugHelloTickets = "hellotickets"
	SlugP1Travel     = "p1-travel"
)

const (
	SyncMethodAPI  = "api"
	SyncMethodFeed = "feed"
)

type Supplier struct {
	ID         string
	Name       string
	Slug       string
	SyncMethod string
	Priority   int
	IsActive   bool
	LastSyncAt *time.Time
}

func (s Supplier) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("supplier id is required")
	}
	if s.Slug == "" {
		return fmt.Errorf("supplier slug is required")
	}
	switch s.SyncMethod {
	case SyncMethodAPI, SyncMethodFeed:
	default:
		return fmt.Errorf("supplier sync method %q is not supported", s.SyncMethod)
	}

	return nil
}
