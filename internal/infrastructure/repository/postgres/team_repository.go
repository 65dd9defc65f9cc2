package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ticketagent/marketplace/internal/domain/team"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *TeamRepository) getOne(ctx context.Context, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}

	refs, err := r.listRefs(ctx, []string{row.PublicID})
	if err != nil {
		return team.Team{}, false, err
	}

	return row.toDomain(refs[row.PublicID]), true, nil
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Expr("league_public_ids @> ?", pq.StringArray{leagueID}),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name_en", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by league query: %w", err)
	}

	return r.list(ctx, query, args)
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name_en", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	return r.list(ctx, query, args)
}

func (r *TeamRepository) list(ctx context.Context, query string, args []any) ([]team.Team, error) {
	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	refs, err := r.listRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(refs[row.PublicID]))
	}

	return out, nil
}

func (r *TeamRepository) listRefs(ctx context.Context, teamIDs []string) (map[string][]team.SupplierRef, error) {
	if len(teamIDs) == 0 {
		return map[string][]team.SupplierRef{}, nil
	}

	const query = `
SELECT team_public_id, supplier_public_id, external_team_id, external_team_name, metadata
FROM team_supplier_refs
WHERE team_public_id = ANY($1)
ORDER BY team_public_id, supplier_public_id`

	var rows []teamSupplierRefModel
	if err := r.db.SelectContext(ctx, &rows, query, pq.StringArray(teamIDs)); err != nil {
		return nil, fmt.Errorf("select team supplier refs: %w", err)
	}

	out := make(map[string][]team.SupplierRef, len(teamIDs))
	for _, row := range rows {
		ref, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out[row.TeamID] = append(out[row.TeamID], ref)
	}

	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsertModel(t), "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team %s: %w", t.ID, err)
	}

	return nil
}

func (r *TeamRepository) Update(ctx context.Context, t team.Team) error {
	query, args, err := qb.Update("teams").
		Set("name_en", t.NameEn).
		Set("name_local", nullString(t.NameLocal)).
		Set("code", nullString(t.Code)).
		Set("slug", t.Slug).
		Set("country_en", nullString(t.CountryEn)).
		Set("country_local", nullString(t.CountryLocal)).
		Set("logo_url", nullString(t.LogoURL)).
		Set("venue_public_id", nullString(t.VenueID)).
		Set("league_public_ids", pq.StringArray(t.LeagueIDs)).
		Set("is_popular", t.IsPopular).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", t.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team %s: %w", t.ID, err)
	}

	return nil
}

func (r *TeamRepository) UpsertSupplierRef(ctx context.Context, teamID string, ref team.SupplierRef) error {
	metadata, err := encodeRefMetadata(ref.Metadata)
	if err != nil {
		return fmt.Errorf("encode team ref metadata: %w", err)
	}

	const query = `
INSERT INTO team_supplier_refs (team_public_id, supplier_public_id, external_team_id, external_team_name, metadata)
VALUES (:team_public_id, :supplier_public_id, :external_team_id, :external_team_name, :metadata)
ON CONFLICT (team_public_id, supplier_public_id)
DO UPDATE SET
    external_team_id = EXCLUDED.external_team_id,
    external_team_name = EXCLUDED.external_team_name,
    metadata = EXCLUDED.metadata`

	sqlText, args, err := sqlx.Named(query, map[string]any{
		"team_public_id":     teamID,
		"supplier_public_id": ref.SupplierID,
		"external_team_id":   ref.ExternalTeamID,
		"external_team_name": nullString(ref.ExternalTeamName),
		"metadata":           metadata,
	})
	if err != nil {
		return fmt.Errorf("bind upsert team ref query: %w", err)
	}
	sqlText = r.db.Rebind(sqlText)
	if _, err := r.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert team ref team=%s supplier=%s: %w", teamID, ref.SupplierID, err)
	}

	return nil
}

func teamInsertModel(t team.Team) any {
	return struct {
		PublicID     string         `db:"public_id"`
		NameEn       string         `db:"name_en"`
		NameLocal    any            `db:"name_local"`
		Code         any            `db:"code"`
		Slug         string         `db:"slug"`
		CountryEn    any            `db:"country_en"`
		CountryLocal any            `db:"country_local"`
		LogoURL      any            `db:"logo_url"`
		VenueID      any            `db:"venue_public_id"`
		LeagueIDs    pq.StringArray `db:"league_public_ids"`
		IsPopular    bool           `db:"is_popular"`
	}{
		PublicID:     t.ID,
		NameEn:       t.NameEn,
		NameLocal:    nullString(t.NameLocal),
		Code:         nullString(t.Code),
		Slug:         t.Slug,
		CountryEn:    nullString(t.CountryEn),
		CountryLocal: nullString(t.CountryLocal),
		LogoURL:      nullString(t.LogoURL),
		VenueID:      nullString(t.VenueID),
		LeagueIDs:    pq.StringArray(t.LeagueIDs),
		IsPopular:    t.IsPopular,
	}
}
