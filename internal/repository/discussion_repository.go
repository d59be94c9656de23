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

const discussionColumns = `d.id, d.course_id, c.title AS course_title, d.user_id, u.name AS user_name, u.email AS user_email, d.title, d.content, d.is_pinned, d.created_at, d.updated_at`

const replyColumns = `r.id, r.discussion_id, r.user_id, u.name AS user_name, u.email AS user_email, u.role AS user_role, r.content, r.created_at, r.updated_at`

// DiscussionRepository provides database access for Q&A threads and replies.
type DiscussionRepository struct {
	db *sqlx.DB
}

// NewDiscussionRepository creates a new instance of DiscussionRepository.
func NewDiscussionRepository(db *sqlx.DB) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// FindByID returns a thread with author and course joined in.
func (r *DiscussionRepository) FindByID(ctx context.Context, id string) (*models.Discussion, error) {
	query := fmt.Sprintf(`SELECT %s FROM discussions d LEFT JOIN users u ON u.id = d.user_id LEFT JOIN courses c ON c.id = d.course_id WHERE d.id = $1 LIMIT 1`, discussionColumns)
	var discussion models.Discussion
	if err := r.db.GetContext(ctx, &discussion, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find discussion by id: %w", err)
	}
	return &discussion, nil
}

// List returns threads matching the filter, pinned first then newest.
func (r *DiscussionRepository) List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error) {
	baseQuery := `FROM discussions d LEFT JOIN users u ON u.id = d.user_id LEFT JOIN courses c ON c.id = d.course_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("d.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(d.title) LIKE LOWER($%d) OR LOWER(d.content) LIKE LOWER($%d))", len(args)+1, len(args)+1))
		args = append(args, likePattern(filter.Search))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY d.is_pinned DESC, d.created_at DESC%s", discussionColumns, baseQuery, pageClause(filter.Page))

	discussions := []models.Discussion{}
	if err := r.db.SelectContext(ctx, &discussions, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list discussions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count discussions: %w", err)
	}

	return discussions, total, nil
}

// Create inserts a thread.
func (r *DiscussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	if discussion.ID == "" {
		discussion.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	discussion.CreatedAt = now
	discussion.UpdatedAt = now

	const query = `INSERT INTO discussions (id, course_id, user_id, title, content, is_pinned, created_at, updated_at) VALUES (:id, :course_id, :user_id, :title, :content, :is_pinned, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, discussion); err != nil {
		return fmt.Errorf("create discussion: %w", err)
	}
	return nil
}

// Update persists the mutable thread fields.
func (r *DiscussionRepository) Update(ctx context.Context, discussion *models.Discussion) error {
	discussion.UpdatedAt = time.Now().UTC()
	const query = `UPDATE discussions SET title = :title, content = :content, is_pinned = :is_pinned, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, discussion); err != nil {
		return fmt.Errorf("update discussion: %w", err)
	}
	return nil
}

// Delete removes a thread and its replies.
func (r *DiscussionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete discussion: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM discussion_replies WHERE discussion_id = $1`, id); err != nil {
		return fmt.Errorf("delete discussion replies: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM discussions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete discussion: %w", err)
	}
	return tx.Commit()
}

// ListReplies returns a thread's replies, oldest first, with the author's
// role joined so callers can mark instructor answers.
func (r *DiscussionRepository) ListReplies(ctx context.Context, discussionID string) ([]models.DiscussionReply, error) {
	query := fmt.Sprintf(`SELECT %s FROM discussion_replies r LEFT JOIN users u ON u.id = r.user_id WHERE r.discussion_id = $1 ORDER BY r.created_at ASC`, replyColumns)
	replies := []models.DiscussionReply{}
	if err := r.db.SelectContext(ctx, &replies, query, discussionID); err != nil {
		return nil, fmt.Errorf("list discussion replies: %w", err)
	}
	return replies, nil
}

// FindReply returns a single reply of a thread.
func (r *DiscussionRepository) FindReply(ctx context.Context, discussionID, replyID string) (*models.DiscussionReply, error) {
	query := fmt.Sprintf(`SELECT %s FROM discussion_replies r LEFT JOIN users u ON u.id = r.user_id WHERE r.id = $1 AND r.discussion_id = $2 LIMIT 1`, replyColumns)
	var reply models.DiscussionReply
	if err := r.db.GetContext(ctx, &reply, query, replyID, discussionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find discussion reply: %w", err)
	}
	return &reply, nil
}

// CreateReply inserts a reply.
func (r *DiscussionRepository) CreateReply(ctx context.Context, reply *models.DiscussionReply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reply.CreatedAt = now
	reply.UpdatedAt = now

	const query = `INSERT INTO discussion_replies (id, discussion_id, user_id, content, created_at, updated_at) VALUES (:id, :discussion_id, :user_id, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, reply); err != nil {
		return fmt.Errorf("create discussion reply: %w", err)
	}
	return nil
}

// DeleteReply removes a reply from a thread.
func (r *DiscussionRepository) DeleteReply(ctx context.Context, discussionID, replyID string) error {
	const query = `DELETE FROM discussion_replies WHERE id = $1 AND discussion_id = $2`
	if _, err := r.db.ExecContext(ctx, query, replyID, discussionID); err != nil {
		return fmt.Errorf("delete discussion reply: %w", err)
	}
	return nil
}
