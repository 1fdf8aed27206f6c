package repository

import (
	"context"
	"database/sql"

	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// TemplatesRepository reads the whatsapp_templates table. Templates are
// read-only inputs to dispatch; authoring happens out of band (seed, admin
// tooling).
type TemplatesRepository interface {
	// GetByID returns (nil, nil) when no template has that id.
	GetByID(ctx context.Context, id string) (*model.Template, error)
	List(ctx context.Context, limit, offset int) ([]model.Template, error)
}

type TemplatesRepositoryImpl struct {
	db *sqlx.DB
}

func NewTemplatesRepository(db *sqlx.DB) *TemplatesRepositoryImpl {
	return &TemplatesRepositoryImpl{db: db}
}

var _ TemplatesRepository = (*TemplatesRepositoryImpl)(nil)

func (r *TemplatesRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Template, error) {
	var t model.Template
	err := r.db.GetContext(ctx, &t, `
		SELECT id, name, content, variables, created_at, updated_at
		  FROM whatsapp_templates
		 WHERE id = ? LIMIT 1
	`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplatesRepositoryImpl) List(ctx context.Context, limit, offset int) ([]model.Template, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var ts []model.Template
	err := r.db.SelectContext(ctx, &ts, `
		SELECT id, name, content, variables, created_at, updated_at
		  FROM whatsapp_templates
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return ts, nil
}
