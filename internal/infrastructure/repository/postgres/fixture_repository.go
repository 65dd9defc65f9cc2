package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id string) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *FixtureRepository) GetBySlug(ctx context.Context, slug string) (fixture.Fixture, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *FixtureRepository) GetByExternalID(ctx context.Context, externalID int64) (fixture.Fixture, bool, error) {
	if externalID == 0 {
		return fixture.Fixture{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *FixtureRepository) getOne(ctx context.Context, cond qb.Condition) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture: %w", err)
	}

	refs, err := r.listRefs(ctx, []string{row.PublicID})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	return row.toDomain(refs[row.PublicID]), true, nil
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Eq("league_public_id", leagueID),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) ListUpcoming(ctx context.Context, from time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Gte("kickoff_at", from),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) ListUpcomingByLeague(ctx context.Context, leagueID string, from time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Eq("league_public_id", leagueID),
		qb.Gte("kickoff_at", from),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) ListByKickoffWindow(ctx context.Context, leagueID string, from, to time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx,
		qb.Eq("league_public_id", leagueID),
		qb.Gte("kickoff_at", from),
		qb.Lte("kickoff_at", to),
		qb.IsNull("deleted_at"),
	)
}

func (r *FixtureRepository) list(ctx context.Context, conditions ...qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(conditions...).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	refs, err := r.listRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(refs[row.PublicID]))
	}

	return out, nil
}

func (r *FixtureRepository) listRefs(ctx context.Context, fixtureIDs []string) (map[string][]fixture.SupplierRef, error) {
	if len(fixtureIDs) == 0 {
		return map[string][]fixture.SupplierRef{}, nil
	}

	const query = `
SELECT fixture_public_id, supplier_public_id, external_event_id, event_url, metadata
FROM fixture_supplier_refs
WHERE fixture_public_id = ANY($1)
ORDER BY fixture_public_id, supplier_public_id`

	var rows []fixtureSupplierRefModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.StringArray(fixtureIDs)); err != nil {
		return nil, fmt.Errorf("select fixture supplier refs: %w", err)
	}

	out := make(map[string][]fixture.SupplierRef, len(fixtureIDs))
	for _, row := range rows {
		ref, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[row.FixtureID] = append(out[row.FixtureID], ref)
	}

	return out, nil
}

func (r *FixtureRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM fixtures
    WHERE slug = $1
      AND public_id <> $2
      AND deleted_at IS NULL
)`

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("check fixture slug: %w", err)
	}

	return taken, nil
}

func (r *FixtureRepository) Create(ctx context.Context, f fixture.Fixture) error {
	model := struct {
		PublicID   string    `db:"public_id"`
		LeagueID   string    `db:"league_public_id"`
		HomeTeamID string    `db:"home_team_public_id"`
		AwayTeamID string    `db:"away_team_public_id"`
		VenueID    any       `db:"venue_public_id"`
		KickoffAt  time.Time `db:"kickoff_at"`
		Status     string    `db:"status"`
		Round      any       `db:"round"`
		Slug       string    `db:"slug"`
		ExternalID any       `db:"external_id"`
		IsHot      bool      `db:"is_hot"`
	}{
		PublicID:   f.ID,
		LeagueID:   f.LeagueID,
		HomeTeamID: f.HomeTeamID,
		AwayTeamID: f.AwayTeamID,
		VenueID:    nullString(f.VenueID),
		KickoffAt:  f.KickoffAt.UTC(),
		Status:     f.Status,
		Round:      nullString(f.Round),
		Slug:       f.Slug,
		ExternalID: nullInt64(f.ExternalID),
		IsHot:      f.IsHot,
	}

	query, args, err := qb.InsertModel("fixtures", model, "")
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture %s: %w", f.ID, err)
	}

	return nil
}

// UpdateGuarded performs a compare-and-swap on the fixture's mutable
// columns. The WHERE clause pins every value the update was computed
// from, so a row changed by a concurrent writer matches nothing and the
// method reports false.
func (r *FixtureRepository) UpdateGuarded(ctx context.Context, prev, next fixture.Fixture) (bool, error) {
	const query = `
UPDATE fixtures
SET home_team_public_id = :next_home,
    away_team_public_id = :next_away,
    venue_public_id = :next_venue,
    kickoff_at = :next_kickoff,
    status = :next_status,
    slug = :next_slug,
    external_id = :next_external_id,
    min_price_amount = :next_min_amount,
    min_price_currency = :next_min_currency,
    min_price_updated_at = :next_min_updated_at,
    updated_at = NOW()
WHERE public_id = :public_id
  AND deleted_at IS NULL
  AND home_team_public_id = :prev_home
  AND away_team_public_id = :prev_away
  AND venue_public_id IS NOT DISTINCT FROM :prev_venue
  AND kickoff_at = :prev_kickoff
  AND slug = :prev_slug
  AND external_id IS NOT DISTINCT FROM :prev_external_id
  AND min_price_amount IS NOT DISTINCT FROM :prev_min_amount
  AND min_price_currency IS NOT DISTINCT FROM :prev_min_currency`

	args := map[string]any{
		"public_id":        prev.ID,
		"next_home":        next.HomeTeamID,
		"next_away":        next.AwayTeamID,
		"next_venue":       nullString(next.VenueID),
		"next_kickoff":     next.KickoffAt.UTC(),
		"next_status":      next.Status,
		"next_slug":        next.Slug,
		"next_external_id": nullInt64(next.ExternalID),
		"prev_home":        prev.HomeTeamID,
		"prev_away":        prev.AwayTeamID,
		"prev_venue":       nullString(prev.VenueID),
		"prev_kickoff":     prev.KickoffAt.UTC(),
		"prev_slug":        prev.Slug,
		"prev_external_id": nullInt64(prev.ExternalID),
	}
	args["next_min_amount"], args["next_min_currency"], args["next_min_updated_at"] = priceArgs(next.MinPrice)
	args["prev_min_amount"], args["prev_min_currency"], _ = priceArgs(prev.MinPrice)

	sqlText, sqlArgs, err := sqlx.Named(query, args)
	if err != nil {
		return false, fmt.Errorf("bind guarded fixture update query: %w", err)
	}
	sqlText = r.db.Rebind(sqlText)

	res, err := r.db.ExecContext(ctx, sqlText, sqlArgs...)
	if err != nil {
		return false, fmt.Errorf("guarded fixture update %s: %w", prev.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("guarded fixture update rows affected: %w", err)
	}

	return affected == 1, nil
}

func priceArgs(snapshot *fixture.PriceSnapshot) (any, any, any) {
	if snapshot == nil {
		return nil, nil, nil
	}
	return snapshot.Amount, snapshot.Currency, snapshot.UpdatedAt.UTC()
}

func (r *FixtureRepository) UpsertSupplierRef(ctx context.Context, fixtureID string, ref fixture.SupplierRef) error {
	metadata, err := encodeRefMetadata(ref.Metadata)
	if err != nil {
		return fmt.Errorf("encode fixture ref metadata: %w", err)
	}

	const query = `
INSERT INTO fixture_supplier_refs (fixture_public_id, supplier_public_id, external_event_id, event_url, metadata)
VALUES (:fixture_public_id, :supplier_public_id, :external_event_id, :event_url, :metadata)
ON CONFLICT (fixture_public_id, supplier_public_id)
DO UPDATE SET
    external_event_id = EXCLUDED.external_event_id,
    event_url = EXCLUDED.event_url,
    metadata = EXCLUDED.metadata`

	sqlText, args, err := sqlx.Named(query, map[string]any{
		"fixture_public_id":  fixtureID,
		"supplier_public_id": ref.SupplierID,
		"external_event_id":  ref.ExternalEventID,
		"event_url":          nullString(ref.EventURL),
		"metadata":           metadata,
	})
	if err != nil {
		return fmt.Errorf("bind upsert fixture ref query: %w", err)
	}
	sqlText = r.db.Rebind(sqlText)
	if _, err := r.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert fixture ref fixture=%s supplier=%s: %w", fixtureID, ref.SupplierID, err)
	}

	return nil
}

func (r *FixtureRepository) UpdateMinPrice(ctx context.Context, fixtureID string, snapshot *fixture.PriceSnapshot) error {
	amount, currency, updatedAt := priceArgs(snapshot)

	query, args, err := qb.Update("fixtures").
		Set("min_price_amount", amount).
		Set("min_price_currency", currency).
		Set("min_price_updated_at", updatedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", fixtureID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture min price query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update fixture min price %s: %w", fixtureID, err)
	}

	return nil
}
