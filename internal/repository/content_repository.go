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

const newsColumns = `n.id, n.institute, n.title, n.content, n.image, n.status, n.created_by, u.name AS created_by_name, u.email AS created_by_email, n.created_at, n.updated_at`

// NewsRepository provides database access for announcements.
type NewsRepository struct {
	db *sqlx.DB
}

// NewNewsRepository creates a new instance of NewsRepository.
func NewNewsRepository(db *sqlx.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// FindByID returns a news entry with its author joined in.
func (r *NewsRepository) FindByID(ctx context.Context, id string) (*models.News, error) {
	query := fmt.Sprintf(`SELECT %s FROM news n LEFT JOIN users u ON u.id = n.created_by WHERE n.id = $1 LIMIT 1`, newsColumns)
	var news models.News
	if err := r.db.GetContext(ctx, &news, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return &news, nil
}

// List returns news matching the filter with the total count.
func (r *NewsRepository) List(ctx context.Context, filter models.NewsFilter) ([]models.News, int, error) {
	baseQuery := `FROM news n LEFT JOIN users u ON u.id = n.created_by WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Institute != "" {
		conditions = append(conditions, fmt.Sprintf("n.institute = $%d", len(args)+1))
		args = append(args, filter.Institute)
	}
	if filter.TenantOrGlobal != "" {
		conditions = append(conditions, fmt.Sprintf("(n.institute = $%d OR n.institute IS NULL)", len(args)+1))
		args = append(args, filter.TenantOrGlobal)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("n.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY n.created_at DESC%s", newsColumns, baseQuery, pageClause(filter.Page))

	items := []models.News{}
	if err := r.db.SelectContext(ctx, &items, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}

	return items, total, nil
}

// Create inserts a news entry.
func (r *NewsRepository) Create(ctx context.Context, news *models.News) error {
	if news.ID == "" {
		news.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	news.CreatedAt = now
	news.UpdatedAt = now

	const query = `INSERT INTO news (id, institute, title, content, image, status, created_by, created_at, updated_at) VALUES (:id, :institute, :title, :content, :image, :status, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, news); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

// Update persists the mutable news fields.
func (r *NewsRepository) Update(ctx context.Context, news *models.News) error {
	news.UpdatedAt = time.Now().UTC()
	const query = `UPDATE news SET title = :title, content = :content, image = :image, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, news); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes a news entry.
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM news WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

// GuideRepository provides database access for help pages.
type GuideRepository struct {
	db *sqlx.DB
}

// NewGuideRepository creates a new instance of GuideRepository.
func NewGuideRepository(db *sqlx.DB) *GuideRepository {
	return &GuideRepository{db: db}
}

// FindByID returns a guide by identifier.
func (r *GuideRepository) FindByID(ctx context.Context, id string) (*models.Guide, error) {
	const query = `SELECT id, title, content, institute, sort_order, status, created_at, updated_at FROM guides WHERE id = $1 LIMIT 1`
	var guide models.Guide
	if err := r.db.GetContext(ctx, &guide, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find guide by id: %w", err)
	}
	return &guide, nil
}

// List returns guides matching the filter with the total count.
func (r *GuideRepository) List(ctx context.Context, filter models.GuideFilter) ([]models.Guide, int, error) {
	baseQuery := `FROM guides WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TenantOrGlobal != "" {
		conditions = append(conditions, fmt.Sprintf("(institute = $%d OR institute IS NULL)", len(args)+1))
		args = append(args, filter.TenantOrGlobal)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT id, title, content, institute, sort_order, status, created_at, updated_at %s ORDER BY sort_order ASC, created_at DESC%s", baseQuery, pageClause(filter.Page))

	guides := []models.Guide{}
	if err := r.db.SelectContext(ctx, &guides, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list guides: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count guides: %w", err)
	}

	return guides, total, nil
}

// Create inserts a guide.
func (r *GuideRepository) Create(ctx context.Context, guide *models.Guide) error {
	if guide.ID == "" {
		guide.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	guide.CreatedAt = now
	guide.UpdatedAt = now

	const query = `INSERT INTO guides (id, title, content, institute, sort_order, status, created_at, updated_at) VALUES (:id, :title, :content, :institute, :sort_order, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, guide); err != nil {
		return fmt.Errorf("create guide: %w", err)
	}
	return nil
}

// Update persists the mutable guide fields.
func (r *GuideRepository) Update(ctx context.Context, guide *models.Guide) error {
	guide.UpdatedAt = time.Now().UTC()
	const query = `UPDATE guides SET title = :title, content = :content, sort_order = :sort_order, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, guide); err != nil {
		return fmt.Errorf("update guide: %w", err)
	}
	return nil
}

// Delete removes a guide.
func (r *GuideRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM guides WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete guide: %w", err)
	}
	return nil
}

// OutilRepository provides database access for external tool links.
type OutilRepository struct {
	db *sqlx.DB
}

// NewOutilRepository creates a new instance of OutilRepository.
func NewOutilRepository(db *sqlx.DB) *OutilRepository {
	return &OutilRepository{db: db}
}

// FindByID returns an outil by identifier.
func (r *OutilRepository) FindByID(ctx context.Context, id string) (*models.Outil, error) {
	const query = `SELECT id, title, description, url, institute, sort_order, created_at, updated_at FROM outils WHERE id = $1 LIMIT 1`
	var outil models.Outil
	if err := r.db.GetContext(ctx, &outil, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find outil by id: %w", err)
	}
	return &outil, nil
}

// List returns outils matching the filter with the total count.
func (r *OutilRepository) List(ctx context.Context, filter models.OutilFilter) ([]models.Outil, int, error) {
	baseQuery := `FROM outils WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TenantOrGlobal != "" {
		conditions = append(conditions, fmt.Sprintf("(institute = $%d OR institute IS NULL)", len(args)+1))
		args = append(args, filter.TenantOrGlobal)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT id, title, description, url, institute, sort_order, created_at, updated_at %s ORDER BY sort_order ASC, title ASC%s", baseQuery, pageClause(filter.Page))

	outils := []models.Outil{}
	if err := r.db.SelectContext(ctx, &outils, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list outils: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count outils: %w", err)
	}

	return outils, total, nil
}

// Create inserts an outil.
func (r *OutilRepository) Create(ctx context.Context, outil *models.Outil) error {
	if outil.ID == "" {
		outil.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	outil.CreatedAt = now
	outil.UpdatedAt = now

	const query = `INSERT INTO outils (id, title, description, url, institute, sort_order, created_at, updated_at) VALUES (:id, :title, :description, :url, :institute, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, outil); err != nil {
		return fmt.Errorf("create outil: %w", err)
	}
	return nil
}

// Update persists the mutable outil fields.
func (r *OutilRepository) Update(ctx context.Context, outil *models.Outil) error {
	outil.UpdatedAt = time.Now().UTC()
	const query = `UPDATE outils SET title = :title, description = :description, url = :url, sort_order = :sort_order, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, outil); err != nil {
		return fmt.Errorf("update outil: %w", err)
	}
	return nil
}

// Delete removes an outil.
func (r *OutilRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM outils WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete outil: %w", err)
	}
	return nil
}
