package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/domain/offer"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type offerTableModel struct {
	ID          int64          `db:"id"`
	PublicID    string         `db:"public_id"`
	FixtureID   string         `db:"fixture_public_id"`
	OwnerType   string         `db:"owner_type"`
	OwnerID     string         `db:"owner_public_id"`
	TicketType  string         `db:"ticket_type"`
	Price       float64        `db:"price"`
	Currency    string         `db:"currency"`
	URL         sql.NullString `db:"url"`
	Notes       sql.NullString `db:"notes"`
	IsAvailable bool           `db:"is_available"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   *time.Time     `db:"deleted_at"`
}

func (m offerTableModel) toDomain() offer.Offer {
	return offer.Offer{
		ID:          m.PublicID,
		FixtureID:   m.FixtureID,
		OwnerType:   m.OwnerType,
		OwnerID:     m.OwnerID,
		TicketType:  m.TicketType,
		Price:       m.Price,
		Currency:    m.Currency,
		URL:         m.URL.String,
		Notes:       m.Notes.String,
		IsAvailable: m.IsAvailable,
		UpdatedAt:   m.UpdatedAt,
	}
}

type OfferRepository struct {
	db *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) ListByFixture(ctx context.Context, fixtureID string) ([]offer.Offer, error) {
	return r.list(ctx,
		qb.Eq("fixture_public_id", fixtureID),
		qb.IsNull("deleted_at"),
	)
}

func (r *OfferRepository) ListAvailableByFixture(ctx context.Context, fixtureID string) ([]offer.Offer, error) {
	return r.list(ctx,
		qb.Eq("fixture_public_id", fixtureID),
		qb.Eq("is_available", true),
		qb.IsNull("deleted_at"),
	)
}

func (r *OfferRepository) ListByOwner(ctx context.Context, ownerType, ownerID string) ([]offer.Offer, error) {
	return r.list(ctx,
		qb.Eq("owner_type", ownerType),
		qb.Eq("owner_public_id", ownerID),
		qb.IsNull("deleted_at"),
	)
}

func (r *OfferRepository) list(ctx context.Context, conditions ...qb.Condition) ([]offer.Offer, error) {
	query, args, err := qb.Select("*").From("offers").
		Where(conditions...).
		OrderBy("price", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select offers query: %w", err)
	}

	var rows []offerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select offers: %w", err)
	}

	out := make([]offer.Offer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *OfferRepository) Upsert(ctx context.Context, o offer.Offer) error {
	const query = `
INSERT INTO offers (public_id, fixture_public_id, owner_type, owner_public_id, ticket_type, price, currency, url, notes, is_available)
VALUES (:public_id, :fixture_public_id, :owner_type, :owner_public_id, :ticket_type, :price, :currency, :url, :notes, :is_available)
ON CONFLICT (fixture_public_id, owner_type, owner_public_id, ticket_type) WHERE deleted_at IS NULL
DO UPDATE SET
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    url = EXCLUDED.url,
    notes = EXCLUDED.notes,
    is_available = EXCLUDED.is_available,
    updated_at = NOW(),
    deleted_at = NULL`

	sqlText, args, err := sqlx.Named(query, map[string]any{
		"public_id":         o.ID,
		"fixture_public_id": o.FixtureID,
		"owner_type":        o.OwnerType,
		"owner_public_id":   o.OwnerID,
		"ticket_type":       o.TicketType,
		"price":             o.Price,
		"currency":          o.Currency,
		"url":               nullString(o.URL),
		"notes":             nullString(o.Notes),
		"is_available":      o.IsAvailable,
	})
	if err != nil {
		return fmt.Errorf("bind upsert offer query: %w", err)
	}
	sqlText = r.db.Rebind(sqlText)
	if _, err := r.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("upsert offer fixture=%s owner=%s: %w", o.FixtureID, o.OwnerID, err)
	}

	return nil
}

func (r *OfferRepository) MarkUnavailableByOwner(ctx context.Context, ownerType, ownerID string) error {
	query, args, err := qb.Update("offers").
		Set("is_available", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("owner_type", ownerType),
			qb.Eq("owner_public_id", ownerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark offers unavailable query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark offers unavailable owner=%s: %w", ownerID, err)
	}

	return nil
}
