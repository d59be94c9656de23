package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/web-academy/academy-api/internal/models"
)

// CategoryRepository provides database access for course categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindByID returns a category by identifier.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	const query = `SELECT id, institute, name, description, sort_order, created_at, updated_at FROM categories WHERE id = $1 LIMIT 1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// List returns categories matching the filter with the total count.
func (r *CategoryRepository) List(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	baseQuery := `FROM categories WHERE 1=1`
	var conditions []string
	var args []interface{}

	// Global categories carry no institute and belong to every tenant.
	if filter.Tenant != "" {
		conditions = append(conditions, fmt.Sprintf("(institute = $%d OR institute IS NULL)", len(args)+1))
		args = append(args, filter.Tenant)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE LOWER($%d)", len(args)+1))
		args = append(args, likePattern(filter.Search))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT id, institute, name, description, sort_order, created_at, updated_at %s ORDER BY sort_order ASC, name ASC%s", baseQuery, pageClause(filter.Page))

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	return categories, total, nil
}

// Create inserts a new category. Returns the raw driver error on duplicate
// (institute, name) so the service can translate it.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	const query = `INSERT INTO categories (id, institute, name, description, sort_order, created_at, updated_at) VALUES (:id, :institute, :name, :description, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update persists the mutable category fields.
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categories SET name = :name, description = :description, sort_order = :sort_order, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// FiliereRepository provides database access for academic tracks.
type FiliereRepository struct {
	db *sqlx.DB
}

// NewFiliereRepository creates a new instance of FiliereRepository.
func NewFiliereRepository(db *sqlx.DB) *FiliereRepository {
	return &FiliereRepository{db: db}
}

// FindByID returns a filiere by identifier.
func (r *FiliereRepository) FindByID(ctx context.Context, id string) (*models.Filiere, error) {
	const query = `SELECT id, institute, name, sort_order, created_at, updated_at FROM filieres WHERE id = $1 LIMIT 1`
	var filiere models.Filiere
	if err := r.db.GetContext(ctx, &filiere, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find filiere by id: %w", err)
	}
	return &filiere, nil
}

// List returns filieres matching the filter with the total count.
func (r *FiliereRepository) List(ctx context.Context, filter models.FiliereFilter) ([]models.Filiere, int, error) {
	baseQuery := `FROM filieres WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Tenant != "" {
		conditions = append(conditions, fmt.Sprintf("institute = $%d", len(args)+1))
		args = append(args, filter.Tenant)
	}
	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE LOWER($%d)", len(args)+1))
		args = append(args, likePattern(filter.Search))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT id, institute, name, sort_order, created_at, updated_at %s ORDER BY institute ASC, sort_order ASC, name ASC%s", baseQuery, pageClause(filter.Page))

	filieres := []models.Filiere{}
	if err := r.db.SelectContext(ctx, &filieres, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list filieres: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count filieres: %w", err)
	}

	return filieres, total, nil
}

// Create inserts a new filiere.
func (r *FiliereRepository) Create(ctx context.Context, filiere *models.Filiere) error {
	if filiere.ID == "" {
		filiere.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	filiere.CreatedAt = now
	filiere.UpdatedAt = now

	const query = `INSERT INTO filieres (id, institute, name, sort_order, created_at, updated_at) VALUES (:id, :institute, :name, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create filiere: %w", err)
	}
	return nil
}

// Update persists the mutable filiere fields.
func (r *FiliereRepository) Update(ctx context.Context, filiere *models.Filiere) error {
	filiere.UpdatedAt = time.Now().UTC()
	const query = `UPDATE filieres SET name = :name, sort_order = :sort_order, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, filiere); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update filiere: %w", err)
	}
	return nil
}

// Delete removes a filiere.
func (r *FiliereRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM filieres WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete filiere: %w", err)
	}
	return nil
}
