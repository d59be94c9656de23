package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web-academy/academy-api/internal/models"
	"github.com/web-academy/academy-api/pkg/mailer"
)

type channelMailer struct {
	sent chan mailer.Message
}

func (m *channelMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent <- msg
	return nil
}

func awaitMessage(t *testing.T, ch chan mailer.Message) mailer.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no mail delivered")
		return mailer.Message{}
	}
}

func TestNotificationPasswordResetCarriesLink(t *testing.T) {
	outbound := &channelMailer{sent: make(chan mailer.Message, 1)}
	svc := NewNotificationService(outbound, "https://academy.example.com", nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.PasswordReset(&models.User{Name: "Afi", Email: "afi@example.com"}, "tok123")

	msg := awaitMessage(t, outbound.sent)
	assert.Equal(t, "afi@example.com", msg.ToAddress)
	assert.Equal(t, "Réinitialisation de votre mot de passe", msg.Subject)
	assert.Contains(t, msg.Text, "https://academy.example.com/reset-password?token=tok123")
}

func TestNotificationStudentWelcomeMentionsVerification(t *testing.T) {
	outbound := &channelMailer{sent: make(chan mailer.Message, 1)}
	svc := NewNotificationService(outbound, "https://academy.example.com", nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.AccountCreated(&models.User{Name: "Afi", Email: "afi@example.com", Role: models.RoleStudent})

	msg := awaitMessage(t, outbound.sent)
	assert.Equal(t, "Bienvenue sur Web Academy", msg.Subject)
	assert.Contains(t, msg.Text, "attente de vérification")
}

func TestNotificationNilMailerDropsSilently(t *testing.T) {
	svc := NewNotificationService(nil, "https://academy.example.com", nil)
	svc.Start(context.Background())
	defer svc.Stop()

	require.NotPanics(t, func() {
		svc.AccountCreated(&models.User{Name: "Afi", Email: "afi@example.com", Role: models.RoleInstructor})
		svc.IdentityConfirmed(&models.User{Name: "Afi", Email: "afi@example.com"})
	})
}
