package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/pkg/jwt"
)

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sales := createTestProfile(t, env.repo, "sam", "Sales@123", false)
	role, err := env.svc.Role.Create(ctx, &dto.CreateRoleRequest{Name: model.RoleSales}, env.admin.ProfileID)
	require.NoError(t, err)
	_, err = env.svc.Profile.AssignRoles(ctx, sales.ProfileID, &dto.AssignRolesRequest{RoleIDs: []string{role.ID}}, env.admin.ProfileID)
	require.NoError(t, err)

	t.Run("成功登录", func(t *testing.T) {
		resp, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "sam", Password: "Sales@123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, 900, resp.ExpiresIn)
		assert.Equal(t, sales.ProfileID, resp.Profile.ID)
		assert.NotEmpty(t, resp.Profile.LastLoginAt)

		claims, err := newTestJWT().ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasRole(model.RoleSales))
		assert.False(t, claims.IsSuperuser)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "sam", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "x"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("账号停用", func(t *testing.T) {
		_, err := env.svc.Profile.Update(ctx, sales.ProfileID, &dto.UpdateProfileRequest{IsActive: boolPtr(false)}, env.admin.ProfileID)
		require.NoError(t, err)

		_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "sam", Password: "Sales@123"})
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	login, err := env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "Admin@123"})
	require.NoError(t, err)

	resp, err := env.svc.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.Profile.IsSuperuser)

	// Access Token 不能用于刷新
	_, err = env.svc.Auth.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = env.svc.Auth.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogoutWithoutRedis(t *testing.T) {
	env := newTestEnv(t)

	login, err := env.svc.Auth.Login(context.Background(), &dto.LoginRequest{Username: "admin", Password: "Admin@123"})
	require.NoError(t, err)
	claims, err := newTestJWT().ParseToken(login.AccessToken)
	require.NoError(t, err)

	assert.NoError(t, env.svc.Auth.Logout(context.Background(), claims))
}

func TestAuthService_Menus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customers, err := env.svc.Menu.Create(ctx, &dto.CreateMenuRequest{Name: "客户库", URLName: "customer_list"}, env.admin.ProfileID)
	require.NoError(t, err)
	_, err = env.svc.Menu.Create(ctx, &dto.CreateMenuRequest{Name: "账号管理", URLName: "profile_list"}, env.admin.ProfileID)
	require.NoError(t, err)

	role, err := env.svc.Role.Create(ctx, &dto.CreateRoleRequest{Name: model.RoleSales}, env.admin.ProfileID)
	require.NoError(t, err)
	_, err = env.svc.Role.SetMenus(ctx, role.ID, &dto.SetMenusRequest{MenuIDs: []string{customers.ID}})
	require.NoError(t, err)

	sales := createTestProfile(t, env.repo, "sam", "Sales@123", false)
	_, err = env.svc.Profile.AssignRoles(ctx, sales.ProfileID, &dto.AssignRolesRequest{RoleIDs: []string{role.ID}}, env.admin.ProfileID)
	require.NoError(t, err)

	menus, err := env.svc.Auth.Menus(ctx, sales.ProfileID, false)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "customer_list", menus[0].URLName)

	all, err := env.svc.Auth.Menus(ctx, env.admin.ProfileID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAuthService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Auth.ChangePassword(ctx, env.admin.AccountID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "NewPass@456",
	})
	assert.ErrorIs(t, err, ErrWrongOldPassword)

	err = env.svc.Auth.ChangePassword(ctx, env.admin.AccountID, &dto.ChangePasswordRequest{
		OldPassword: "Admin@123", NewPassword: "NewPass@456",
	})
	require.NoError(t, err)

	_, err = env.svc.Auth.Login(ctx, &dto.LoginRequest{Username: "admin", Password: "NewPass@456"})
	assert.NoError(t, err)
}
