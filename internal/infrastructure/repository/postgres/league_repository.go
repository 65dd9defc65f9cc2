package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ticketagent/marketplace/internal/domain/league"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID int64) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	return r.list(ctx, qb.IsNull("deleted_at"))
}

func (r *LeagueRepository) ListPopular(ctx context.Context) ([]league.League, error) {
	return r.list(ctx, qb.Eq("is_popular", true), qb.IsNull("deleted_at"))
}

func (r *LeagueRepository) list(ctx context.Context, conditions ...qb.Condition) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(conditions...).
		OrderBy("name_en", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	model := struct {
		PublicID     string         `db:"public_id"`
		NameEn       string         `db:"name_en"`
		NameLocal    any            `db:"name_local"`
		Slug         string         `db:"slug"`
		Type         string         `db:"type"`
		CountryEn    any            `db:"country_en"`
		CountryLocal any            `db:"country_local"`
		LogoURL      any            `db:"logo_url"`
		IsPopular    bool           `db:"is_popular"`
		ExternalID   any            `db:"external_id"`
		Months       pq.StringArray `db:"months"`
	}{
		PublicID:     l.ID,
		NameEn:       l.NameEn,
		NameLocal:    nullString(l.NameLocal),
		Slug:         l.Slug,
		Type:         l.Type,
		CountryEn:    nullString(l.CountryEn),
		CountryLocal: nullString(l.CountryLocal),
		LogoURL:      nullString(l.LogoURL),
		IsPopular:    l.IsPopular,
		ExternalID:   nullInt64(l.ExternalID),
		Months:       pq.StringArray(l.Months),
	}

	query, args, err := qb.InsertModel("leagues", model, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league %s: %w", l.ID, err)
	}

	return nil
}

func (r *LeagueRepository) UpdateMonths(ctx context.Context, leagueID string, months []string) error {
	query, args, err := qb.Update("leagues").
		Set("months", pq.StringArray(months)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", leagueID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league months query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league months %s: %w", leagueID, err)
	}

	return nil
}
