package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/domain/agent"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type agentTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	Name           string         `db:"name"`
	Slug           string         `db:"slug"`
	Email          sql.NullString `db:"email"`
	LogoURL        sql.NullString `db:"logo_url"`
	ExternalRating float64        `db:"external_rating"`
	IsActive       bool           `db:"is_active"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

func (m agentTableModel) toDomain() agent.Agent {
	return agent.Agent{
		ID:             m.PublicID,
		Name:           m.Name,
		Slug:           m.Slug,
		Email:          m.Email.String,
		LogoURL:        m.LogoURL.String,
		ExternalRating: m.ExternalRating,
		IsActive:       m.IsActive,
	}
}

type AgentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) GetByID(ctx context.Context, id string) (agent.Agent, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *AgentRepository) GetBySlug(ctx context.Context, slug string) (agent.Agent, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *AgentRepository) getOne(ctx context.Context, cond qb.Condition) (agent.Agent, bool, error) {
	query, args, err := qb.Select("*").From("agents").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return agent.Agent{}, false, fmt.Errorf("build select agent query: %w", err)
	}

	var row agentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return agent.Agent{}, false, nil
		}
		return agent.Agent{}, false, fmt.Errorf("select agent: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *AgentRepository) ListActive(ctx context.Context) ([]agent.Agent, error) {
	query, args, err := qb.Select("*").From("agents").
		Where(qb.Eq("is_active", true), qb.IsNull("deleted_at")).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select agents query: %w", err)
	}

	var rows []agentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select agents: %w", err)
	}

	out := make([]agent.Agent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *AgentRepository) Create(ctx context.Context, a agent.Agent) error {
	model := struct {
		PublicID       string  `db:"public_id"`
		Name           string  `db:"name"`
		Slug           string  `db:"slug"`
		Email          any     `db:"email"`
		LogoURL        any     `db:"logo_url"`
		ExternalRating float64 `db:"external_rating"`
		IsActive       bool    `db:"is_active"`
	}{
		PublicID:       a.ID,
		Name:           a.Name,
		Slug:           a.Slug,
		Email:          nullString(a.Email),
		LogoURL:        nullString(a.LogoURL),
		ExternalRating: a.ExternalRating,
		IsActive:       a.IsActive,
	}

	query, args, err := qb.InsertModel("agents", model, "")
	if err != nil {
		return fmt.Errorf("build insert agent query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert agent %s: %w", a.ID, err)
	}

	return nil
}
