package reconcile

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

// ErrConcurrentUpdate is returned when the guarded write lost to another
// writer. The caller should re-read the fixture and retry.
var ErrConcurrentUpdate = errors.New("fixture changed concurrently")

// kickoffTolerance is how far a feed kickoff may drift from the stored
// one before it counts as a change.
const kickoffTolerance = 60 * time.Second

// FixtureWriter is the persistence surface the applier needs.
type FixtureWriter interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	UpdateGuarded(ctx context.Context, prev, next fixture.Fixture) (bool, error)
}

// FixturePatch carries the external values to reconcile into a fixture.
// Nil fields are left untouched. The slug fields feed slug recomputation
// when teams or kickoff change; they are never written directly.
type FixturePatch struct {
	KickoffAt  *time.Time
	VenueID    *string
	HomeTeamID *string
	AwayTeamID *string
	ExternalID *int64
	MinPrice   *fixture.PriceSnapshot

	LeagueSlug string
	HomeSlug   string
	AwaySlug   string
}

// ApplyResult reports what a reconciliation call did.
type ApplyResult struct {
	Updated bool
	Changed []string
}

// Applier performs the compare-then-write step of reconciliation. Every
// write is conditional on the values read beforehand, so two concurrent
// runs cannot silently overwrite each other.
type Applier struct {
	writer FixtureWriter
	log    *logging.Logger
}

func NewApplier(writer FixtureWriter, log *logging.Logger) *Applier {
	if log == nil {
		log = logging.NewNop()
	}
	return &Applier{writer: writer, log: log}
}

// ApplyFixtureUpdate diffs the patch against the fixture and performs at
// most one guarded write. Re-running with the same input writes nothing.
func (a *Applier) ApplyFixtureUpdate(ctx context.Context, f fixture.Fixture, patch FixturePatch) (ApplyResult, error) {
	next := f
	var changed []string

	if patch.KickoffAt != nil {
		if delta := absDuration(f.KickoffAt.Sub(*patch.KickoffAt)); delta > kickoffTolerance {
			next.KickoffAt = *patch.KickoffAt
			changed = append(changed, "kickoff_at")
		}
	}
	if patch.VenueID != nil && *patch.VenueID != f.VenueID {
		next.VenueID = *patch.VenueID
		changed = append(changed, "venue_id")
	}
	// A home/away swap writes both sides in the same update so the
	// fixture never persists with two identical teams.
	if patch.HomeTeamID != nil && *patch.HomeTeamID != f.HomeTeamID {
		next.HomeTeamID = *patch.HomeTeamID
		changed = append(changed, "home_team_id")
	}
	if patch.AwayTeamID != nil && *patch.AwayTeamID != f.AwayTeamID {
		next.AwayTeamID = *patch.AwayTeamID
		changed = append(changed, "away_team_id")
	}
	if patch.ExternalID != nil && *patch.ExternalID != f.ExternalID {
		next.ExternalID = *patch.ExternalID
		changed = append(changed, "external_id")
	}
	if patch.MinPrice != nil && !samePrice(f.MinPrice, patch.MinPrice) {
		snapshot := *patch.MinPrice
		next.MinPrice = &snapshot
		changed = append(changed, "min_price")
	}

	if slugInputsChanged(changed) && patch.LeagueSlug != "" && patch.HomeSlug != "" && patch.AwaySlug != "" {
		slug := fixture.BuildSlug(patch.LeagueSlug, patch.HomeSlug, patch.AwaySlug, next.KickoffAt)
		if slug != f.Slug {
			taken, err := a.writer.SlugTaken(ctx, slug, f.ID)
			if err != nil {
				return ApplyResult{}, errors.Wrap(err, "check slug collision")
			}
			if taken {
				a.log.WarnContext(ctx, "fixture slug collision, keeping current slug",
					"fixture_id", f.ID, "slug", slug)
			} else {
				next.Slug = slug
				changed = append(changed, "slug")
			}
		}
	}

	if len(changed) == 0 {
		return ApplyResult{}, nil
	}

	for _, field := range changed {
		a.log.InfoContext(ctx, "fixture field reconciled",
			"fixture_id", f.ID, "field", field)
	}

	ok, err := a.writer.UpdateGuarded(ctx, f, next)
	if err != nil {
		return ApplyResult{}, errors.Wrap(err, "write fixture update")
	}
	if !ok {
		return ApplyResult{Changed: changed}, ErrConcurrentUpdate
	}

	return ApplyResult{Updated: true, Changed: changed}, nil
}

func slugInputsChanged(changed []string) bool {
	for _, field := range changed {
		switch field {
		case "kickoff_at", "home_team_id", "away_team_id":
			return true
		}
	}
	return false
}

func samePrice(a, b *fixture.PriceSnapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Amount == b.Amount && a.Currency == b.Currency
}
