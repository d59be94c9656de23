package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/internal/models"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastFilter models.UserFilter
	verified   []string
	deleted    []string
	created    *models.User
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	m.lastFilter = filter
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "u-new"
	m.created = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) SetIdentityVerified(ctx context.Context, id string, verified bool) error {
	m.verified = append(m.verified, id)
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUserNotifier struct {
	created   []*models.User
	confirmed []*models.User
}

func (m *mockUserNotifier) AccountCreated(user *models.User)    { m.created = append(m.created, user) }
func (m *mockUserNotifier) IdentityConfirmed(user *models.User) { m.confirmed = append(m.confirmed, user) }

func newUserService(repo *mockUserRepo, notifier *mockUserNotifier) *UserService {
	// Avoid boxing a typed nil *mockUserNotifier into the userNotifier
	// interface, which would defeat the service's nil check.
	var n userNotifier
	if notifier != nil {
		n = notifier
	}
	return NewUserService(repo, n, validator.New(), zap.NewNop())
}

func TestUserListScopedToTenant(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo, nil)

	_, _, err := svc.List(context.Background(), instituteAdmin("DGI"), models.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, "DGI", repo.lastFilter.Tenant)
}

func TestUserListSuperAdminSeesAll(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo, nil)

	_, _, err := svc.List(context.Background(), superAdmin(), models.UserFilter{})
	require.NoError(t, err)
	assert.Empty(t, repo.lastFilter.Tenant)
}

func TestUserGetCrossTenantReadsAsMissing(t *testing.T) {
	inst := "ISSJ"
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleStudent, Institute: &inst})
	svc := newUserService(repo, nil)

	_, err := svc.Get(context.Background(), instituteAdmin("DGI"), "u1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestUserCreateStampsAdminInstitute(t *testing.T) {
	repo := newMockUserRepo()
	notifier := &mockUserNotifier{}
	svc := newUserService(repo, notifier)

	other := "ISEG"
	user, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: string(models.RoleStudent),
		Institute: &other,
	})
	require.NoError(t, err)
	require.NotNil(t, user.Institute)
	assert.Equal(t, "DGI", *user.Institute)
	assert.True(t, user.IdentityVerified)
	assert.Len(t, notifier.created, 1)
}

func TestUserCreateCanonicalizesEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo, nil)

	user, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateUserRequest{
		Name: "Ada", Email: "Ada@Example.COM", Password: "secret1", Role: string(models.RoleStudent),
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestUserCreateAdminRequiresSuperAdmin(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo, nil)

	_, err := svc.Create(context.Background(), instituteAdmin("DGI"), models.CreateUserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: string(models.RoleAdmin),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	inst := "ISSJ"
	user, err := svc.Create(context.Background(), superAdmin(), models.CreateUserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: string(models.RoleAdmin),
		Institute: &inst,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserCreateAdminWithoutInstituteRejected(t *testing.T) {
	repo := newMockUserRepo()
	svc := newUserService(repo, nil)

	_, err := svc.Create(context.Background(), superAdmin(), models.CreateUserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: string(models.RoleAdmin),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserPromoteToAdminWithoutInstituteRejected(t *testing.T) {
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleInstructor})
	svc := newUserService(repo, nil)

	role := string(models.RoleAdmin)
	_, err := svc.Update(context.Background(), superAdmin(), "u1", models.AdminUpdateUserRequest{Role: &role})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserUpdateInstituteChangeReservedToSuperAdmin(t *testing.T) {
	inst := "DGI"
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleStudent, Institute: &inst})
	svc := newUserService(repo, nil)

	target := "ISEG"
	_, err := svc.Update(context.Background(), instituteAdmin("DGI"), "u1", models.AdminUpdateUserRequest{Institute: &target})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	user, err := svc.Update(context.Background(), superAdmin(), "u1", models.AdminUpdateUserRequest{Institute: &target})
	require.NoError(t, err)
	assert.Equal(t, "ISEG", *user.Institute)
}

func TestUserVerifyIdentityConfirmsStudent(t *testing.T) {
	inst := "DGI"
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleStudent, Institute: &inst})
	notifier := &mockUserNotifier{}
	svc := newUserService(repo, notifier)

	user, err := svc.VerifyIdentity(context.Background(), instituteAdmin("DGI"), "u1")
	require.NoError(t, err)
	assert.True(t, user.IdentityVerified)
	assert.Equal(t, []string{"u1"}, repo.verified)
	assert.Len(t, notifier.confirmed, 1)
}

func TestUserVerifyIdentityRejectsNonStudent(t *testing.T) {
	inst := "DGI"
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleInstructor, Institute: &inst})
	svc := newUserService(repo, nil)

	_, err := svc.VerifyIdentity(context.Background(), instituteAdmin("DGI"), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.verified)
}

func TestUserVerifyIdentityRejectsAlreadyVerified(t *testing.T) {
	inst := "DGI"
	repo := newMockUserRepo(&models.User{ID: "u1", Role: models.RoleStudent, Institute: &inst, IdentityVerified: true})
	svc := newUserService(repo, nil)

	_, err := svc.VerifyIdentity(context.Background(), instituteAdmin("DGI"), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.verified)
}

func TestUserDeleteGuards(t *testing.T) {
	inst := "DGI"
	repo := newMockUserRepo(
		&models.User{ID: "admin-1", Role: models.RoleAdmin, Institute: &inst},
		&models.User{ID: "u1", Role: models.RoleStudent, Institute: &inst},
	)
	svc := newUserService(repo, nil)
	actor := instituteAdmin("DGI")

	err := svc.Delete(context.Background(), actor, actor.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), actor, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, repo.deleted)
}
