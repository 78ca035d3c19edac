package auth

import (
	"testing"

	"elanis/config"
	"elanis/database/repository/memory"
	"elanis/models"
	"elanis/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*DefaultAuthService, *memory.UserRepo, *memory.ProviderRepo) {
	t.Helper()
	config.AppConfig.JWTSecret = "test-signing-secret"
	users := memory.NewUserRepo()
	providers := memory.NewProviderRepo()
	svc := &DefaultAuthService{
		UserRepo:     users,
		ProviderRepo: providers,
		Logger:       zap.NewNop(),
	}
	return svc, users, providers
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.Register(models.RegisterInput{
		Email:     "Nour@Example.com",
		Password:  "correct-horse",
		FirstName: "Nour",
		LastName:  "Adel",
	})
	require.NoError(t, err)
	assert.Equal(t, "nour@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	claims, err := utils.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	login, err := svc.Login(models.LoginInput{Email: "nour@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	in := models.RegisterInput{
		Email:     "dup@example.com",
		Password:  "password123",
		FirstName: "A",
		LastName:  "B",
	}
	_, err := svc.Register(in)
	require.NoError(t, err)

	_, err = svc.Register(in)
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindBadRequest, svcErr.Kind)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Register(models.RegisterInput{
		Email:     "user@example.com",
		Password:  "password123",
		FirstName: "A",
		LastName:  "B",
	})
	require.NoError(t, err)

	_, err = svc.Login(models.LoginInput{Email: "user@example.com", Password: "wrong"})
	var svcErr *utils.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindUnauthorized, svcErr.Kind)

	_, err = svc.Login(models.LoginInput{Email: "nobody@example.com", Password: "password123"})
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, utils.KindUnauthorized, svcErr.Kind)
}

func TestProviderStatusClaimStampedAtLogin(t *testing.T) {
	svc, users, providers := newService(t)

	userID := uuid.New().String()
	_, err := svc.Register(models.RegisterInput{
		Email:     "pro@example.com",
		Password:  "password123",
		FirstName: "P",
		LastName:  "Q",
	})
	require.NoError(t, err)

	stored, err := users.GetByEmail("pro@example.com")
	require.NoError(t, err)
	userID = stored.ID

	// Approval happens after registration; the claim appears on re-login.
	require.NoError(t, users.SetRole(userID, models.RoleProvider))
	require.NoError(t, providers.Create(&models.ServiceProviderProfile{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: models.ProviderApproved,
	}))

	login, err := svc.Login(models.LoginInput{Email: "pro@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ProviderApproved), login.ProviderStatus)

	claims, err := utils.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, claims.Role)
	assert.Equal(t, string(models.ProviderApproved), claims.ProviderStatus)
}
