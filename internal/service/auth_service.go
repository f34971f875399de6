package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	"prefect-crm/pkg/jwt"
	"prefect-crm/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials  = errors.New("用户名或密码错误")
	ErrAccountDisabled     = errors.New("账号已停用")
	ErrProfileMissing      = errors.New("账号未绑定员工档案")
	ErrInvalidRefreshToken = errors.New("刷新令牌无效或已过期")
	ErrWrongOldPassword    = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将当前 Access Token 加入黑名单
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, profileID string) (*dto.ProfileResponse, error)
	// Menus 当前账号可见菜单（超级管理员可见全部）
	Menus(ctx context.Context, profileID string, isSuperuser bool) ([]dto.MenuResponse, error)
	ChangePassword(ctx context.Context, accountID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	cache  *redis.Client // 可为 nil：不启用黑名单
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		jwtMgr: jwtMgr,
		cache:  cache,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询账号
	account, err := s.repo.Account.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	// 3. 加载档案与角色
	profile, err := s.repo.Profile.GetByAccountID(ctx, account.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileMissing
		}
		s.logger.Error("查询员工档案失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(profile)
	if err != nil {
		return nil, err
	}

	// 4. 记录最近登录时间（失败不影响登录）
	now := time.Now()
	if err := s.repo.Account.TouchLastLogin(ctx, account.AccountID, now); err != nil {
		s.logger.Warn("更新最近登录时间失败", zap.String("account_id", account.AccountID), zap.Error(err))
	} else {
		resp.Profile.LastLoginAt = formatTime(now)
	}

	s.logger.Info("登录成功", zap.String("username", account.Username))
	return resp, nil
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.cache != nil {
		blacklisted, err := s.cache.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("查询 Token 黑名单失败", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefreshToken
		}
	}

	// 重新加载档案，角色变更与停用即时生效
	profile, err := s.repo.Profile.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("查询员工档案失败", zap.Error(err))
		return nil, err
	}
	if profile.Account == nil || !profile.Account.IsActive {
		return nil, ErrAccountDisabled
	}

	// 旧刷新令牌作废
	if s.cache != nil && claims.ExpiresAt != nil {
		if err := s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("刷新令牌加入黑名单失败", zap.Error(err))
		}
	}

	return s.issueTokens(profile)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.cache == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.cache.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me / Menus ──────────────────────

func (s *authService) Me(ctx context.Context, profileID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询员工档案失败", zap.String("id", profileID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *authService) Menus(ctx context.Context, profileID string, isSuperuser bool) ([]dto.MenuResponse, error) {
	var (
		menus []model.Menu
		err   error
	)
	if isSuperuser {
		menus, err = s.repo.Menu.List(ctx)
	} else {
		menus, err = s.repo.Menu.ListByProfile(ctx, profileID)
	}
	if err != nil {
		s.logger.Error("查询菜单失败", zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	return toMenuResponses(menus), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, accountID string, req *dto.ChangePasswordRequest) error {
	account, err := s.repo.Account.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		s.logger.Error("查询账号失败", zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	if err := s.repo.Account.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		s.logger.Error("更新密码失败", zap.String("account_id", accountID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *authService) issueTokens(profile *model.UserProfile) (*dto.TokenResponse, error) {
	id := jwt.Identity{
		AccountID: profile.AccountID,
		ProfileID: profile.ProfileID,
		Roles:     profile.RoleNames(),
	}
	if profile.Account != nil {
		id.IsSuperuser = profile.Account.IsSuperuser
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(id)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(id)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Profile:      *toProfileResponse(profile),
	}, nil
}
