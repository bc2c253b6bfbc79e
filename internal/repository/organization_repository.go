package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// OrganizationRepository manages tenant records.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
}

type organizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository builds repository.
func NewOrganizationRepository(pool *pgxpool.Pool) OrganizationRepository {
	return &organizationRepository{pool: pool}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const query = `
        INSERT INTO organizations (name, slug)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, org.Name, org.Slug).
		Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.fetchSingle(ctx, `SELECT id, name, slug, created_at, updated_at FROM organizations WHERE id=$1`, id)
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	return r.fetchSingle(ctx, `SELECT id, name, slug, created_at, updated_at FROM organizations WHERE slug=$1`, slug)
}

func (r *organizationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Organization, error) {
	var org domain.Organization
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &org, nil
}
