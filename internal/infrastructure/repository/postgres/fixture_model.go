package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID                int64           `db:"id"`
	PublicID          string          `db:"public_id"`
	LeagueID          string          `db:"league_public_id"`
	HomeTeamID        string          `db:"home_team_public_id"`
	AwayTeamID        string          `db:"away_team_public_id"`
	VenueID           sql.NullString  `db:"venue_public_id"`
	KickoffAt         time.Time       `db:"kickoff_at"`
	Status            string          `db:"status"`
	Round             sql.NullString  `db:"round"`
	Slug              string          `db:"slug"`
	ExternalID        sql.NullInt64   `db:"external_id"`
	IsHot             bool            `db:"is_hot"`
	MinPriceAmount    sql.NullFloat64 `db:"min_price_amount"`
	MinPriceCurrency  sql.NullString  `db:"min_price_currency"`
	MinPriceUpdatedAt *time.Time      `db:"min_price_updated_at"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
	DeletedAt         *time.Time      `db:"deleted_at"`
}

type fixtureSupplierRefModel struct {
	FixtureID       string         `db:"fixture_public_id"`
	SupplierID      string         `db:"supplier_public_id"`
	ExternalEventID string         `db:"external_event_id"`
	EventURL        sql.NullString `db:"event_url"`
	Metadata        []byte         `db:"metadata"`
}

func (m fixtureTableModel) toDomain(refs []fixture.SupplierRef) fixture.Fixture {
	f := fixture.Fixture{
		ID:           m.PublicID,
		LeagueID:     m.LeagueID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		VenueID:      m.VenueID.String,
		KickoffAt:    m.KickoffAt,
		Status:       m.Status,
		Round:        m.Round.String,
		Slug:         m.Slug,
		ExternalID:   m.ExternalID.Int64,
		IsHot:        m.IsHot,
		SupplierRefs: refs,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.MinPriceAmount.Valid {
		snapshot := &fixture.PriceSnapshot{
			Amount:   m.MinPriceAmount.Float64,
			Currency: m.MinPriceCurrency.String,
		}
		if m.MinPriceUpdatedAt != nil {
			snapshot.UpdatedAt = *m.MinPriceUpdatedAt
		}
		f.MinPrice = snapshot
	}

	return f
}

func (m fixtureSupplierRefModel) toDomain() (fixture.SupplierRef, error) {
	ref := fixture.SupplierRef{
		SupplierID:      m.SupplierID,
		ExternalEventID: m.ExternalEventID,
		EventURL:        m.EventURL.String,
	}
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &ref.Metadata); err != nil {
			return fixture.SupplierRef{}, fmt.Errorf("decode fixture ref metadata: %w", err)
		}
	}
	return ref, nil
}
