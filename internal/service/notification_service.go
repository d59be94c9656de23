package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/pkg/jobs"
	"github.com/web-academy/academy-api/pkg/mailer"
)

// NotificationService sends transactional email through a background queue.
// Deliveries are fire and forget: a failed send is logged and retried by the
// queue but never fails the originating request.
type NotificationService struct {
	mailer mailer.Mailer
	queue  *jobs.Queue
	appURL string
	logger *zap.Logger
}

// NewNotificationService wires the mail queue. A nil mailer disables sending
// entirely, which is the default in development.
func NewNotificationService(m mailer.Mailer, appURL string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mailer: m, appURL: appURL, logger: logger}
	s.queue = jobs.NewQueue("mail", s.deliver, jobs.QueueConfig{
		Workers:    2,
		MaxRetries: 3,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("mail job carried unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mailer.Send(ctx, msg)
}

func (s *NotificationService) enqueue(msg mailer.Message) {
	if s.mailer == nil {
		s.logger.Debug("mail sending disabled, dropping message", zap.String("subject", msg.Subject))
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "mail", Payload: msg}); err != nil {
		s.logger.Warn("failed to enqueue mail", zap.String("subject", msg.Subject), zap.Error(err))
	}
}

// AccountCreated notifies a new user that their account was registered and,
// for students, that identity verification is pending.
func (s *NotificationService) AccountCreated(user *models.User) {
	text := fmt.Sprintf("Bonjour %s,\n\nVotre compte Web Academy a bien été créé.\n\nCordialement,\nL'équipe Web Academy", user.Name)
	if user.Role == models.RoleStudent && !user.IdentityVerified {
		text = fmt.Sprintf("Bonjour %s,\n\nVotre compte Web Academy a bien été créé. Il est en attente de vérification par l'administration de votre institut. Vous recevrez un email dès que votre identité sera confirmée.\n\nCordialement,\nL'équipe Web Academy", user.Name)
	}
	s.enqueue(mailer.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   "Bienvenue sur Web Academy",
		Text:      text,
	})
}

// IdentityConfirmed notifies a student that they can now sign in.
func (s *NotificationService) IdentityConfirmed(user *models.User) {
	s.enqueue(mailer.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   "Votre identité a été confirmée",
		Text:      fmt.Sprintf("Bonjour %s,\n\nVotre identité a été confirmée par l'administration. Vous pouvez maintenant vous connecter à votre compte Web Academy.\n\nCordialement,\nL'équipe Web Academy", user.Name),
	})
}

// PasswordReset sends the reset link carrying a one-time token.
func (s *NotificationService) PasswordReset(user *models.User, token string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	s.enqueue(mailer.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   "Réinitialisation de votre mot de passe",
		Text:      fmt.Sprintf("Bonjour %s,\n\nVous avez demandé la réinitialisation de votre mot de passe. Cliquez sur le lien suivant pour choisir un nouveau mot de passe (valable 1 heure) :\n\n%s\n\nSi vous n'êtes pas à l'origine de cette demande, ignorez cet email.\n\nCordialement,\nL'équipe Web Academy", user.Name, link),
	})
}
