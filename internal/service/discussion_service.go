package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type discussionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Discussion, error)
	List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error)
	Create(ctx context.Context, discussion *models.Discussion) error
	Update(ctx context.Context, discussion *models.Discussion) error
	Delete(ctx context.Context, id string) error
	ListReplies(ctx context.Context, discussionID string) ([]models.DiscussionReply, error)
	FindReply(ctx context.Context, discussionID, replyID string) (*models.DiscussionReply, error)
	CreateReply(ctx context.Context, reply *models.DiscussionReply) error
	DeleteReply(ctx context.Context, discussionID, replyID string) error
}

// DiscussionService manages Q&A threads. Any signed-in user can open a
// thread or reply; moderation (pinning, removing other people's posts) is
// for admins.
type DiscussionService struct {
	repo      discussionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDiscussionService constructs a DiscussionService instance.
func NewDiscussionService(repo discussionRepository, validate *validator.Validate, logger *zap.Logger) *DiscussionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DiscussionService{repo: repo, validator: validate, logger: logger}
}

// List returns threads, pinned first, each with its replies embedded.
func (s *DiscussionService) List(ctx context.Context, filter models.DiscussionFilter) ([]models.Discussion, int, error) {
	discussions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	for i := range discussions {
		replies, err := s.repo.ListReplies(ctx, discussions[i].ID)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
		}
		discussions[i].Replies = flagStaffReplies(replies)
	}
	return discussions, total, nil
}

// Get returns one thread with its replies. Staff answers are flagged from
// the author's role.
func (s *DiscussionService) Get(ctx context.Context, id string) (*models.Discussion, error) {
	discussion, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	discussion.Replies = flagStaffReplies(replies)
	return discussion, nil
}

// flagStaffReplies marks answers authored by instructors or admins so the
// client can highlight them.
func flagStaffReplies(replies []models.DiscussionReply) []models.DiscussionReply {
	if replies == nil {
		return []models.DiscussionReply{}
	}
	for i := range replies {
		if replies[i].UserRole == nil {
			continue
		}
		role := models.Role(*replies[i].UserRole)
		replies[i].IsInstructor = role == models.RoleInstructor || role == models.RoleAdmin
	}
	return replies
}

// Create opens a thread. Only admins can create it pinned.
func (s *DiscussionService) Create(ctx context.Context, actor *models.User, req models.CreateDiscussionRequest) (*models.Discussion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de discussion invalides")
	}

	discussion := &models.Discussion{
		CourseID: req.CourseID,
		UserID:   actor.ID,
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned && actor.IsAdmin(),
	}

	if err := s.repo.Create(ctx, discussion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	discussion.Replies = []models.DiscussionReply{}
	return discussion, nil
}

// Update edits a thread. The author edits their own; pinning needs an admin.
func (s *DiscussionService) Update(ctx context.Context, actor *models.User, id string, req models.UpdateDiscussionRequest) (*models.Discussion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de discussion invalides")
	}

	discussion, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if discussion.UserID != actor.ID && !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Vous ne pouvez modifier que vos propres discussions")
	}

	if req.Title != nil {
		discussion.Title = *req.Title
	}
	if req.Content != nil {
		discussion.Content = *req.Content
	}
	if req.IsPinned != nil && actor.IsAdmin() {
		discussion.IsPinned = *req.IsPinned
	}

	if err := s.repo.Update(ctx, discussion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return discussion, nil
}

// Delete removes a thread and all its replies.
func (s *DiscussionService) Delete(ctx context.Context, actor *models.User, id string) error {
	discussion, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if discussion.UserID != actor.ID && !actor.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "Vous ne pouvez supprimer que vos propres discussions")
	}
	if err := s.repo.Delete(ctx, discussion.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

// Reply adds an answer to a thread.
func (s *DiscussionService) Reply(ctx context.Context, actor *models.User, discussionID string, req models.CreateReplyRequest) (*models.DiscussionReply, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Données de réponse invalides")
	}

	if _, err := s.load(ctx, discussionID); err != nil {
		return nil, err
	}

	reply := &models.DiscussionReply{
		DiscussionID: discussionID,
		UserID:       actor.ID,
		Content:      req.Content,
		IsInstructor: actor.IsInstructor() || actor.IsAdmin(),
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return reply, nil
}

// DeleteReply removes an answer, by its author or an admin.
func (s *DiscussionService) DeleteReply(ctx context.Context, actor *models.User, discussionID, replyID string) error {
	reply, err := s.repo.FindReply(ctx, discussionID, replyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Réponse non trouvée")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	if reply.UserID != actor.ID && !actor.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "Vous ne pouvez supprimer que vos propres réponses")
	}
	if err := s.repo.DeleteReply(ctx, discussionID, replyID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return nil
}

func (s *DiscussionService) load(ctx context.Context, id string) (*models.Discussion, error) {
	discussion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Discussion non trouvée")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "")
	}
	return discussion, nil
}
