package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/ticketagent/marketplace/internal/domain/team"
)

type teamTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	NameEn       string         `db:"name_en"`
	NameLocal    sql.NullString `db:"name_local"`
	Code         sql.NullString `db:"code"`
	Slug         string         `db:"slug"`
	CountryEn    sql.NullString `db:"country_en"`
	CountryLocal sql.NullString `db:"country_local"`
	LogoURL      sql.NullString `db:"logo_url"`
	VenueID      sql.NullString `db:"venue_public_id"`
	LeagueIDs    pq.StringArray `db:"league_public_ids"`
	IsPopular    bool           `db:"is_popular"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type teamSupplierRefModel struct {
	TeamID           string         `db:"team_public_id"`
	SupplierID       string         `db:"supplier_public_id"`
	ExternalTeamID   string         `db:"external_team_id"`
	ExternalTeamName sql.NullString `db:"external_team_name"`
	Metadata         []byte         `db:"metadata"`
}

func (m teamTableModel) toDomain(refs []team.SupplierRef) team.Team {
	return team.Team{
		ID:           m.PublicID,
		NameEn:       m.NameEn,
		NameLocal:    m.NameLocal.String,
		Code:         m.Code.String,
		Slug:         m.Slug,
		CountryEn:    m.CountryEn.String,
		CountryLocal: m.CountryLocal.String,
		LogoURL:      m.LogoURL.String,
		VenueID:      m.VenueID.String,
		LeagueIDs:    []string(m.LeagueIDs),
		IsPopular:    m.IsPopular,
		SupplierRefs: refs,
	}
}

func (m teamSupplierRefModel) toDomain() (team.SupplierRef, error) {
	ref := team.SupplierRef{
		SupplierID:       m.SupplierID,
		ExternalTeamID:   m.ExternalTeamID,
		ExternalTeamName: m.ExternalTeamName.String,
	}
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &ref.Metadata); err != nil {
			return team.SupplierRef{}, fmt.Errorf("decode team ref metadata: %w", err)
		}
	}
	return ref, nil
}

func encodeRefMetadata(metadata map[string]string) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	return sonic.Marshal(metadata)
}
