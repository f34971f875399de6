package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 账号模块业务错误 ──

var (
	ErrProfileNotFound       = errors.New("账号不存在")
	ErrAccountUsernameExists = errors.New("用户名已存在")
	ErrProfileSelfDelete     = errors.New("不能删除自己")
)

// ProfileService 账号（登录账户 + 员工档案）业务接口
type ProfileService interface {
	Create(ctx context.Context, req *dto.CreateProfileRequest, callerID string) (*dto.ProfileResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error)
	List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateProfileRequest, callerID string) (*dto.ProfileResponse, error)
	AssignRoles(ctx context.Context, id string, req *dto.AssignRolesRequest, callerID string) (*dto.ProfileResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	EnsureBootstrapAdmin(ctx context.Context, cfg *config.BootstrapAdminConfig) (bool, error)
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *profileService) Create(ctx context.Context, req *dto.CreateProfileRequest, callerID string) (*dto.ProfileResponse, error) {
	exists, err := s.repo.Account.ExistsByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Error("检查用户名失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAccountUsernameExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	var profileID string
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		account := &model.Account{
			Username:     req.Username,
			PasswordHash: string(hash),
			IsActive:     true,
			IsSuperuser:  req.IsSuperuser,
		}
		account.Stamp(callerID)
		if err := txRepo.Account.Create(ctx, account); err != nil {
			return err
		}

		profile := &model.UserProfile{AccountID: account.AccountID, Name: req.Name}
		profile.Stamp(callerID)
		if err := txRepo.Profile.Create(ctx, profile); err != nil {
			return err
		}
		profileID = profile.ProfileID

		if len(req.RoleIDs) == 0 {
			return nil
		}
		roles, err := loadRoles(ctx, txRepo, req.RoleIDs)
		if err != nil {
			return err
		}
		return txRepo.Profile.ReplaceRoles(ctx, profile, roles)
	})
	if err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrAccountUsernameExists
		}
		if errors.Is(err, ErrRoleNotFound) {
			return nil, err
		}
		s.logger.Error("创建账号失败", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建账号成功", zap.String("username", req.Username), zap.String("profile_id", profileID))
	return s.GetByID(ctx, profileID)
}

// ────────────────────── EnsureBootstrapAdmin ──────────────────────

// EnsureBootstrapAdmin 系统中尚无任何账号时按配置创建超级管理员，返回是否创建
func (s *profileService) EnsureBootstrapAdmin(ctx context.Context, cfg *config.BootstrapAdminConfig) (bool, error) {
	if cfg == nil || cfg.Username == "" {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := cfg.Name
	if name == "" {
		name = cfg.Username
	}

	created := false
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		count, err := txRepo.Account.Count(ctx)
		if err != nil || count > 0 {
			return err
		}

		account := &model.Account{Username: cfg.Username, PasswordHash: string(hash), IsActive: true, IsSuperuser: true}
		if err := txRepo.Account.Create(ctx, account); err != nil {
			return err
		}
		if err := txRepo.Profile.Create(ctx, &model.UserProfile{AccountID: account.AccountID, Name: name}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		// 多实例同时启动时由唯一索引兜底
		if pkgerrors.IsDuplicateKey(err) {
			return false, nil
		}
		s.logger.Error("创建初始管理员失败", zap.Error(err))
		return false, err
	}

	if created {
		s.logger.Info("已创建初始超级管理员", zap.String("username", cfg.Username))
	}
	return created, nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *profileService) GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error) {
	profiles, total, err := s.repo.Profile.List(ctx, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出账号失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toProfileResponse(&profiles[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *profileService) Update(ctx context.Context, id string, req *dto.UpdateProfileRequest, callerID string) (*dto.ProfileResponse, error) {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
		profile.Stamp(callerID)
		if err := s.repo.Profile.Update(ctx, profile); err != nil {
			s.logger.Error("更新账号失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	if req.IsActive != nil && profile.Account != nil && profile.Account.IsActive != *req.IsActive {
		profile.Account.IsActive = *req.IsActive
		profile.Account.Stamp(callerID)
		if err := s.repo.Account.Update(ctx, profile.Account); err != nil {
			s.logger.Error("更新账号状态失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	return toProfileResponse(profile), nil
}

// ────────────────────── AssignRoles ──────────────────────

func (s *profileService) AssignRoles(ctx context.Context, id string, req *dto.AssignRolesRequest, callerID string) (*dto.ProfileResponse, error) {
	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		roles, err := loadRoles(ctx, txRepo, req.RoleIDs)
		if err != nil {
			return err
		}
		return txRepo.Profile.ReplaceRoles(ctx, profile, roles)
	})
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil, err
		}
		s.logger.Error("分配角色失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("分配角色", zap.String("profile_id", id), zap.Strings("role_ids", req.RoleIDs), zap.String("operator", callerID))
	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *profileService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrProfileSelfDelete
	}

	profile, err := s.getProfile(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Profile.Delete(ctx, profile); err != nil {
		s.logger.Error("删除账号失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("删除账号", zap.String("profile_id", id), zap.String("operator", callerID))
	return nil
}

// ── 内部辅助方法 ──

func (s *profileService) getProfile(ctx context.Context, id string) (*model.UserProfile, error) {
	profile, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// loadRoles 按 ID 加载角色，任一不存在返回 ErrRoleNotFound
func loadRoles(ctx context.Context, repo *repository.Repository, ids []string) ([]model.Role, error) {
	ids = uniqueIDs(ids)
	roles, err := repo.Role.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, ErrRoleNotFound
	}
	return roles, nil
}

func toProfileResponse(p *model.UserProfile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        p.ProfileID,
		AccountID: p.AccountID,
		Name:      p.Name,
		Roles:     make([]dto.RoleBrief, 0, len(p.Roles)),
		CreatedAt: formatTime(p.CreatedAt),
	}
	if p.Account != nil {
		resp.Username = p.Account.Username
		resp.IsActive = p.Account.IsActive
		resp.IsSuperuser = p.Account.IsSuperuser
		if p.Account.LastLoginAt != nil {
			resp.LastLoginAt = formatTime(*p.Account.LastLoginAt)
		}
	}
	for _, r := range p.Roles {
		resp.Roles = append(resp.Roles, dto.RoleBrief{ID: r.RoleID, Name: r.Name})
	}
	return resp
}
