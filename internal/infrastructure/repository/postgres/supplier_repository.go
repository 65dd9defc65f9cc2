package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/domain/supplier"
	qb "github.com/ticketagent/marketplace/internal/platform/querybuilder"
)

type supplierTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	Name       string     `db:"name"`
	Slug       string     `db:"slug"`
	SyncMethod string     `db:"sync_method"`
	Priority   int        `db:"priority"`
	IsActive   bool       `db:"is_active"`
	LastSyncAt *time.Time `db:"last_sync_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

func (m supplierTableModel) toDomain() supplier.Supplier {
	return supplier.Supplier{
		ID:         m.PublicID,
		Name:       m.Name,
		Slug:       m.Slug,
		SyncMethod: m.SyncMethod,
		Priority:   m.Priority,
		IsActive:   m.IsActive,
		LastSyncAt: m.LastSyncAt,
	}
}

type SupplierRepository struct {
	db *sqlx.DB
}

func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) GetByID(ctx context.Context, id string) (supplier.Supplier, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", id))
}

func (r *SupplierRepository) GetBySlug(ctx context.Context, slug string) (supplier.Supplier, bool, error) {
	return r.getOne(ctx, qb.Eq("slug", slug))
}

func (r *SupplierRepository) getOne(ctx context.Context, cond qb.Condition) (supplier.Supplier, bool, error) {
	query, args, err := qb.Select("*").From("suppliers").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return supplier.Supplier{}, false, fmt.Errorf("build select supplier query: %w", err)
	}

	var row supplierTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return supplier.Supplier{}, false, nil
		}
		return supplier.Supplier{}, false, fmt.Errorf("select supplier: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SupplierRepository) ListActive(ctx context.Context) ([]supplier.Supplier, error) {
	query, args, err := qb.Select("*").From("suppliers").
		Where(qb.Eq("is_active", true), qb.IsNull("deleted_at")).
		OrderBy("priority", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select suppliers query: %w", err)
	}

	var rows []supplierTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}

	out := make([]supplier.Supplier, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SupplierRepository) Create(ctx context.Context, s supplier.Supplier) error {
	model := struct {
		PublicID   string `db:"public_id"`
		Name       string `db:"name"`
		Slug       string `db:"slug"`
		SyncMethod string `db:"sync_method"`
		Priority   int    `db:"priority"`
		IsActive   bool   `db:"is_active"`
	}{
		PublicID:   s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		SyncMethod: s.SyncMethod,
		Priority:   s.Priority,
		IsActive:   s.IsActive,
	}

	query, args, err := qb.InsertModel("suppliers", model, "")
	if err != nil {
		return fmt.Errorf("build insert supplier query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert supplier %s: %w", s.ID, err)
	}

	return nil
}

func (r *SupplierRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	query, args, err := qb.Update("suppliers").
		Set("last_sync_at", at.UTC()).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch supplier sync query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch supplier sync %s: %w", id, err)
	}

	return nil
}
