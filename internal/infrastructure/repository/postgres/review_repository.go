package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/domain/review"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type reviewTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	AgentID   string         `db:"agent_public_id"`
	Author    string         `db:"author"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

func (m reviewTableModel) toDomain() review.Review {
	return review.Review{
		ID:        m.PublicID,
		AgentID:   m.AgentID,
		Author:    m.Author,
		Rating:    m.Rating,
		Comment:   m.Comment.String,
		CreatedAt: m.CreatedAt,
	}
}

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListByAgent(ctx context.Context, agentID string) ([]review.Review, error) {
	query, args, err := qb.Select("*").From("agent_reviews").
		Where(qb.Eq("agent_public_id", agentID), qb.IsNull("deleted_at")).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select reviews query: %w", err)
	}

	var rows []reviewTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}

	out := make([]review.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv review.Review) error {
	model := struct {
		PublicID string `db:"public_id"`
		AgentID  string `db:"agent_public_id"`
		Author   string `db:"author"`
		Rating   int    `db:"rating"`
		Comment  any    `db:"comment"`
	}{
		PublicID: rv.ID,
		AgentID:  rv.AgentID,
		Author:   rv.Author,
		Rating:   rv.Rating,
		Comment:  nullString(rv.Comment),
	}

	query, args, err := qb.InsertModel("agent_reviews", model, "")
	if err != nil {
		return fmt.Errorf("build insert review query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert review %s: %w", rv.ID, err)
	}

	return nil
}
