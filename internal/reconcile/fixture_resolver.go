package reconcile

import (
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
)

// FixtureMatch is a fixture found inside the tolerance window. Reversed
// means the local store labels home and away opposite to the feed.
type FixtureMatch struct {
	Fixture  fixture.Fixture
	Reversed bool
}

// DateMismatch is a fixture whose team pair matches but whose kickoff
// falls outside the window. It is reported for manual review, never
// applied automatically.
type DateMismatch struct {
	Fixture  fixture.Fixture
	Reversed bool
	Delta    time.Duration
}

// FixtureResolver finds local fixtures by team pair and kickoff window.
// Like TeamResolver it is built per run and read-only afterwards.
type FixtureResolver struct {
	fixtures []fixture.Fixture
}

func NewFixtureResolver(fixtures []fixture.Fixture) *FixtureResolver {
	return &FixtureResolver{fixtures: fixtures}
}

// Resolve looks for a fixture between the two teams whose kickoff lies
// within window of the external kickoff, inclusive at the edges. The
// straight (home, away) orientation is tried before the reversed one,
// and the candidate closest to the external kickoff wins. When nothing
// falls inside the window, the nearest team-pair match outside it is
// returned as a DateMismatch so the caller can report it.
func (r *FixtureResolver) Resolve(homeTeamID, awayTeamID string, kickoff time.Time, window time.Duration) (*FixtureMatch, *DateMismatch) {
	if match := r.closest(homeTeamID, awayTeamID, kickoff, window); match != nil {
		return &FixtureMatch{Fixture: *match, Reversed: false}, nil
	}
	if match := r.closest(awayTeamID, homeTeamID, kickoff, window); match != nil {
		return &FixtureMatch{Fixture: *match, Reversed: true}, nil
	}

	return nil, r.nearMiss(homeTeamID, awayTeamID, kickoff)
}

func (r *FixtureResolver) closest(homeTeamID, awayTeamID string, kickoff time.Time, window time.Duration) *fixture.Fixture {
	var (
		best      *fixture.Fixture
		bestDelta time.Duration
	)
	for i, f := range r.fixtures {
		if f.HomeTeamID != homeTeamID || f.AwayTeamID != awayTeamID {
			continue
		}
		delta := absDuration(f.KickoffAt.Sub(kickoff))
		if delta > window {
			continue
		}
		if best == nil || delta < bestDelta {
			best = &r.fixtures[i]
			bestDelta = delta
		}
	}

	return best
}

func (r *FixtureResolver) nearMiss(homeTeamID, awayTeamID string, kickoff time.Time) *DateMismatch {
	var miss *DateMismatch
	for _, f := range r.fixtures {
		var reversed bool
		switch {
		case f.HomeTeamID == homeTeamID && f.AwayTeamID == awayTeamID:
		case f.HomeTeamID == awayTeamID && f.AwayTeamID == homeTeamID:
			reversed = true
		default:
			continue
		}
		delta := absDuration(f.KickoffAt.Sub(kickoff))
		if miss == nil || delta < miss.Delta {
			miss = &DateMismatch{Fixture: f, Reversed: reversed, Delta: delta}
		}
	}

	return miss
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
