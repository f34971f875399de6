package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
	"prefect-crm/pkg/redis"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCourseNameExists = errors.New("课程名称已存在")
)

// courseListCacheKey 课程目录缓存键，任何写操作后失效
const courseListCacheKey = "cache:courses:list"

// CourseService 课程目录业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil，此时直接读库
	cfg    *config.CRMConfig
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, cache *redis.Client, cfg *config.CRMConfig, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, cache: cache, cfg: cfg, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	exists, err := s.repo.Course.ExistsByName(ctx, req.Name, "")
	if err != nil {
		s.logger.Error("检查课程名称失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrCourseNameExists
	}

	course := &model.Course{
		Name:         req.Name,
		Price:        req.Price,
		PeriodMonths: req.PeriodMonths,
		Outline:      req.Outline,
	}
	course.Stamp(callerID)
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrCourseNameExists
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return toCourseResponse(course), nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// List 优先读缓存；缓存异常只记录日志，不影响读库
func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	if s.cache != nil {
		var cached []dto.CourseResponse
		err := s.cache.GetJSON(ctx, courseListCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取课程缓存失败", zap.Error(err))
		}
	}

	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, courseListCacheKey, result, s.cfg.CourseCacheTTL); err != nil {
			s.logger.Warn("写入课程缓存失败", zap.Error(err))
		}
	}
	return result, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != course.Name {
		exists, err := s.repo.Course.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			s.logger.Error("检查课程名称失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrCourseNameExists
		}
		course.Name = *req.Name
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.PeriodMonths != nil {
		course.PeriodMonths = *req.PeriodMonths
	}
	if req.Outline != nil {
		course.Outline = *req.Outline
	}
	course.Stamp(callerID)

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrCourseNameExists
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx)
	return toCourseResponse(course), nil
}

// Delete 级联删除该课程的班级、缴费记录；客户的咨询课程置空
func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.getCourse(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("删除课程", zap.String("course_id", id))
	return nil
}

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, courseListCacheKey); err != nil {
		s.logger.Warn("清除课程缓存失败", zap.Error(err))
	}
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:           c.CourseID,
		Name:         c.Name,
		Price:        c.Price,
		PeriodMonths: c.PeriodMonths,
		Outline:      c.Outline,
		CreatedAt:    formatTime(c.CreatedAt),
	}
}
