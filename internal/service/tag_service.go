package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 标签模块业务错误 ──

var (
	ErrTagNotFound   = errors.New("标签不存在")
	ErrTagNameExists = errors.New("标签名称已存在")
)

// TagService 客户标签业务接口
type TagService interface {
	Create(ctx context.Context, req *dto.CreateTagRequest, callerID string) (*dto.TagResponse, error)
	List(ctx context.Context) ([]dto.TagResponse, error)
	Delete(ctx context.Context, id string) error
}

type tagService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTagService 创建 TagService 实例
func NewTagService(repo *repository.Repository, logger *zap.Logger) TagService {
	return &tagService{repo: repo, logger: logger}
}

func (s *tagService) Create(ctx context.Context, req *dto.CreateTagRequest, callerID string) (*dto.TagResponse, error) {
	exists, err := s.repo.Tag.ExistsByName(ctx, req.Name)
	if err != nil {
		s.logger.Error("检查标签名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrTagNameExists
	}

	tag := &model.Tag{Name: req.Name}
	tag.Stamp(callerID)
	if err := s.repo.Tag.Create(ctx, tag); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrTagNameExists
		}
		s.logger.Error("创建标签失败", zap.Error(err))
		return nil, err
	}
	return &dto.TagResponse{ID: tag.TagID, Name: tag.Name}, nil
}

func (s *tagService) List(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.repo.Tag.List(ctx)
	if err != nil {
		s.logger.Error("列出标签失败", zap.Error(err))
		return nil, err
	}
	return toTagResponses(tags), nil
}

func (s *tagService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Tag.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		s.logger.Error("查询标签失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Tag.Delete(ctx, id); err != nil {
		s.logger.Error("删除标签失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toTagResponses(tags []model.Tag) []dto.TagResponse {
	result := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, dto.TagResponse{ID: t.TagID, Name: t.Name})
	}
	return result
}
