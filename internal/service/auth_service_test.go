package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail     *models.User
	userByID        *models.User
	createErr       error
	created         *models.User
	updated         *models.User
	resetToken      string
	resetExpires    time.Time
	consumeErr      error
	consumedToken   string
	consumedHash    string
	setResetCalled  bool
	findByEmailErr  error
	findByIDErr     error
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID != nil {
		return m.userByID, nil
	}
	if m.userByEmail != nil {
		return m.userByEmail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "u-new"
	m.created = user
	return nil
}

func (m *mockAuthRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

func (m *mockAuthRepo) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	m.setResetCalled = true
	m.resetToken = token
	m.resetExpires = expires
	return nil
}

func (m *mockAuthRepo) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.User, error) {
	if m.consumeErr != nil {
		return nil, m.consumeErr
	}
	m.consumedToken = token
	m.consumedHash = passwordHash
	return m.userByEmail, nil
}

type mockNotifier struct {
	accountCreated []*models.User
	resetTokens    []string
}

func (m *mockNotifier) AccountCreated(user *models.User)              { m.accountCreated = append(m.accountCreated, user) }
func (m *mockNotifier) PasswordReset(user *models.User, token string) { m.resetTokens = append(m.resetTokens, token) }

func newAuthService(repo *mockAuthRepo, notifier *mockNotifier) *AuthService {
	// Avoid boxing a typed nil *mockNotifier into the authNotifier interface,
	// which would defeat the service's nil check.
	var n authNotifier
	if notifier != nil {
		n = notifier
	}
	return NewAuthService(repo, n, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "secret",
		TokenExpiry: time.Hour,
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID: "u1", Email: "user@example.com", PasswordHash: string(password),
		Role: models.RoleInstructor, IdentityVerified: true,
	}}
	svc := newAuthService(repo, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "u1", res.User.ID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "u1", Email: "user@example.com", PasswordHash: string(password)}}
	svc := newAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnverifiedStudent(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID: "u1", Email: "etudiant@example.com", PasswordHash: string(password),
		Role: models.RoleStudent, IdentityVerified: false,
	}}
	svc := newAuthService(repo, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "etudiant@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPendingVerification.Code, appErr.Code)
}

func TestAuthServiceRegisterStudentGetsNoToken(t *testing.T) {
	repo := &mockAuthRepo{}
	notifier := &mockNotifier{}
	svc := newAuthService(repo, notifier)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "etudiant", Institute: "DGI",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Equal(t, appErrors.ErrPendingVerification.Message, res.Message)
	require.NotNil(t, repo.created)
	assert.False(t, repo.created.IdentityVerified)
	assert.Len(t, notifier.accountCreated, 1)
}

func TestAuthServiceRegisterInstructorGetsToken(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, nil)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Marc", Email: "marc@example.com", Password: "secret1", Role: "formateur",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, repo.created.IdentityVerified)
}

func TestAuthServiceRegisterCanonicalizesEmail(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := newAuthService(repo, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Marc", Email: "Marc@Example.COM", Password: "secret1", Role: "formateur",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "marc@example.com", repo.created.Email)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockAuthRepo{createErr: &pq.Error{Code: "23505"}}
	svc := newAuthService(repo, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthServiceForgotPasswordUnknownEmailSilent(t *testing.T) {
	repo := &mockAuthRepo{}
	notifier := &mockNotifier{}
	svc := newAuthService(repo, notifier)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.False(t, repo.setResetCalled)
	assert.Empty(t, notifier.resetTokens)
}

func TestAuthServiceForgotPasswordIssuesToken(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "u1", Email: "user@example.com"}}
	notifier := &mockNotifier{}
	svc := newAuthService(repo, notifier)

	err := svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "user@example.com"})
	require.NoError(t, err)
	assert.Len(t, repo.resetToken, 64)
	assert.WithinDuration(t, time.Now().UTC().Add(resetTokenTTL), repo.resetExpires, time.Minute)
	require.Len(t, notifier.resetTokens, 1)
	assert.Equal(t, repo.resetToken, notifier.resetTokens[0])
}

func TestAuthServiceResetPasswordInvalidToken(t *testing.T) {
	repo := &mockAuthRepo{consumeErr: sql.ErrNoRows}
	svc := newAuthService(repo, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "stale", Password: "newpass"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErr.Code)
}

func TestAuthServiceResetPasswordStoresHash(t *testing.T) {
	repo := &mockAuthRepo{userByEmail: &models.User{ID: "u1"}}
	svc := newAuthService(repo, nil)

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{Token: "tok", Password: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "tok", repo.consumedToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.consumedHash), []byte("newpass")))
}

func TestValidateToken(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, nil)
	user := &models.User{ID: "u1", Email: "user@example.com", Role: models.RoleAdmin}
	token, err := svc.generateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&mockAuthRepo{}, nil)
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
