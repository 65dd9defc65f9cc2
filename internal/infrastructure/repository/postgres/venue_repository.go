package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/domain/venue"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type venueTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	NameEn       string         `db:"name_en"`
	NameLocal    sql.NullString `db:"name_local"`
	CityEn       sql.NullString `db:"city_en"`
	CityLocal    sql.NullString `db:"city_local"`
	CountryEn    sql.NullString `db:"country_en"`
	CountryLocal sql.NullString `db:"country_local"`
	Capacity     int            `db:"capacity"`
	ImageURL     sql.NullString `db:"image_url"`
	ExternalID   sql.NullInt64  `db:"external_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

func (m venueTableModel) toDomain() venue.Venue {
	return venue.Venue{
		ID:           m.PublicID,
		NameEn:       m.NameEn,
		NameLocal:    m.NameLocal.String,
		CityEn:       m.CityEn.String,
		CityLocal:    m.CityLocal.String,
		CountryEn:    m.CountryEn.String,
		CountryLocal: m.CountryLocal.String,
		Capacity:     m.Capacity,
		ImageURL:     m.ImageURL.String,
		ExternalID:   m.ExternalID.Int64,
	}
}

type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetByID(ctx context.Context, id string) (venue.Venue, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *VenueRepository) GetByExternalID(ctx context.Context, externalID int64) (venue.Venue, bool, error) {
	return r.getOne(ctx, qb.Eq("external_id", externalID))
}

func (r *VenueRepository) getOne(ctx context.Context, cond qb.Condition) (venue.Venue, bool, error) {
	query, args, err := qb.Select("*").From("venues").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return venue.Venue{}, false, fmt.Errorf("build select venue query: %w", err)
	}

	var row venueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return venue.Venue{}, false, nil
		}
		return venue.Venue{}, false, fmt.Errorf("select venue: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *VenueRepository) ListAll(ctx context.Context) ([]venue.Venue, error) {
	query, args, err := qb.Select("*").From("venues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name_en", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select venues query: %w", err)
	}

	var rows []venueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select venues: %w", err)
	}

	out := make([]venue.Venue, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *VenueRepository) Create(ctx context.Context, v venue.Venue) error {
	query, args, err := qb.InsertModel("venues", venueInsertModel(v), "")
	if err != nil {
		return fmt.Errorf("build insert venue query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert venue %s: %w", v.ID, err)
	}

	return nil
}

func (r *VenueRepository) Update(ctx context.Context, v venue.Venue) error {
	query, args, err := qb.Update("venues").
		Set("name_en", v.NameEn).
		Set("name_local", nullString(v.NameLocal)).
		Set("city_en", nullString(v.CityEn)).
		Set("city_local", nullString(v.CityLocal)).
		Set("country_en", nullString(v.CountryEn)).
		Set("country_local", nullString(v.CountryLocal)).
		Set("capacity", v.Capacity).
		Set("image_url", nullString(v.ImageURL)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", v.ID), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update venue query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update venue %s: %w", v.ID, err)
	}

	return nil
}

func venueInsertModel(v venue.Venue) any {
	return struct {
		PublicID     string `db:"public_id"`
		NameEn       string `db:"name_en"`
		NameLocal    any    `db:"name_local"`
		CityEn       any    `db:"city_en"`
		CityLocal    any    `db:"city_local"`
		CountryEn    any    `db:"country_en"`
		CountryLocal any    `db:"country_local"`
		Capacity     int    `db:"capacity"`
		ImageURL     any    `db:"image_url"`
		ExternalID   any    `db:"external_id"`
	}{
		PublicID:     v.ID,
		NameEn:       v.NameEn,
		NameLocal:    nullString(v.NameLocal),
		CityEn:       nullString(v.CityEn),
		CityLocal:    nullString(v.CityLocal),
		CountryEn:    nullString(v.CountryEn),
		CountryLocal: nullString(v.CountryLocal),
		Capacity:     v.Capacity,
		ImageURL:     nullString(v.ImageURL),
		ExternalID:   nullInt64(v.ExternalID),
	}
}
