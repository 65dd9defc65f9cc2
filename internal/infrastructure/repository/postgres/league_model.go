package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/ticketagent/marketplace/internal/domain/league"
)

type leagueTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	NameEn       string         `db:"name_en"`
	NameLocal    sql.NullString `db:"name_local"`
	Slug         string         `db:"slug"`
	Type         string         `db:"type"`
	CountryEn    sql.NullString `db:"country_en"`
	CountryLocal sql.NullString `db:"country_local"`
	LogoURL      sql.NullString `db:"logo_url"`
	IsPopular    bool           `db:"is_popular"`
	ExternalID   sql.NullInt64  `db:"external_id"`
	Months       pq.StringArray `db:"months"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:           m.PublicID,
		NameEn:       m.NameEn,
		NameLocal:    m.NameLocal.String,
		Slug:         m.Slug,
		Type:         m.Type,
		CountryEn:    m.CountryEn.String,
		CountryLocal: m.CountryLocal.String,
		LogoURL:      m.LogoURL.String,
		IsPopular:    m.IsPopular,
		ExternalID:   m.ExternalID.Int64,
		Months:       []string(m.Months),
	}
}
