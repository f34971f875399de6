package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound      = errors.New("班级不存在")
	ErrClassListExists    = errors.New("该校区该课程的学期已存在")
	ErrClassDateRange     = errors.New("结业日期不能早于开班日期")
	ErrClassInvalidDate   = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrTeacherNotFound    = errors.New("讲师不存在")
	ErrCalendarNoSessions = errors.New("班级暂无上课记录")
)

// ClassService 班级业务接口
type ClassService interface {
	Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassResponse, error)
	List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error)
	SetTeachers(ctx context.Context, id string, req *dto.SetTeachersRequest) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id string) error
	// ExportCalendar 将班级上课记录导出为 iCalendar 文件
	ExportCalendar(ctx context.Context, id string) ([]byte, string, error)
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error) {
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Branch.GetByID(ctx, req.BranchID); err != nil {
		return nil, s.mapLookupError(err, ErrBranchNotFound)
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		return nil, s.mapLookupError(err, ErrCourseNotFound)
	}

	exists, err := s.repo.Class.Exists(ctx, req.BranchID, req.CourseID, req.Semester, "")
	if err != nil {
		s.logger.Error("检查班级唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrClassListExists
	}

	class := &model.ClassList{
		BranchID:  req.BranchID,
		CourseID:  req.CourseID,
		ClassType: model.ClassType(*req.ClassType),
		Semester:  req.Semester,
		StartDate: start,
		EndDate:   end,
	}
	class.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Class.Create(ctx, class); err != nil {
			return err
		}
		if len(req.TeacherIDs) == 0 {
			return nil
		}
		teachers, err := loadTeachers(ctx, txRepo, req.TeacherIDs)
		if err != nil {
			return err
		}
		return txRepo.Class.ReplaceTeachers(ctx, class, teachers)
	})
	if err != nil {
		return nil, s.mapWriteError("创建班级失败", err)
	}

	s.logger.Info("创建班级", zap.String("class_id", class.ClassID), zap.Int("semester", class.Semester))
	return s.GetByID(ctx, class.ClassID)
}

// ────────────────────── GetByID / List ──────────────────────

func (s *classService) GetByID(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, error) {
	classes, err := s.repo.Class.List(ctx, req.BranchID, req.CourseID)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, *toClassResponse(&classes[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClassType != nil {
		class.ClassType = model.ClassType(*req.ClassType)
	}
	if req.Semester != nil && *req.Semester != class.Semester {
		exists, err := s.repo.Class.Exists(ctx, class.BranchID, class.CourseID, *req.Semester, id)
		if err != nil {
			s.logger.Error("检查班级唯一性失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrClassListExists
		}
		class.Semester = *req.Semester
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrClassInvalidDate
		}
		class.StartDate = start
	}
	switch {
	case req.ClearEndDate:
		class.EndDate = nil
	case req.EndDate != nil:
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrClassInvalidDate
		}
		class.EndDate = &end
	}
	if class.EndDate != nil && class.EndDate.Before(class.StartDate) {
		return nil, ErrClassDateRange
	}
	class.Stamp(callerID)

	if err := s.repo.Class.Update(ctx, class); err != nil {
		return nil, s.mapWriteError("更新班级失败", err)
	}
	return s.GetByID(ctx, id)
}

// ────────────────────── SetTeachers / Delete ──────────────────────

func (s *classService) SetTeachers(ctx context.Context, id string, req *dto.SetTeachersRequest) (*dto.ClassResponse, error) {
	class, err := s.getClass(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		teachers, err := loadTeachers(ctx, txRepo, req.TeacherIDs)
		if err != nil {
			return err
		}
		return txRepo.Class.ReplaceTeachers(ctx, class, teachers)
	})
	if err != nil {
		return nil, s.mapWriteError("设置班级讲师失败", err)
	}
	return s.GetByID(ctx, id)
}

// Delete 级联删除班级下的报名、上课记录与学习记录
func (s *classService) Delete(ctx context.Context, id string) error {
	if _, err := s.getClass(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Class.Delete(ctx, id); err != nil {
		s.logger.Error("删除班级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("删除班级", zap.String("class_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *classService) getClass(ctx context.Context, id string) (*model.ClassList, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, ErrClassNotFound)
	}
	return class, nil
}

func (s *classService) mapLookupError(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询班级关联数据失败", zap.Error(err))
	return err
}

func (s *classService) mapWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, ErrTeacherNotFound):
		return err
	case pkgerrors.IsDuplicateKey(err):
		return ErrClassListExists
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// parseDateRange 解析开班 / 结业日期并校验先后
func parseDateRange(startStr string, endStr *string) (time.Time, *time.Time, error) {
	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, nil, ErrClassInvalidDate
	}
	if endStr == nil || *endStr == "" {
		return start, nil, nil
	}
	end, err := parseDate(*endStr)
	if err != nil {
		return time.Time{}, nil, ErrClassInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, nil, ErrClassDateRange
	}
	return start, &end, nil
}

// loadTeachers 按 ID 加载讲师档案，任一不存在返回 ErrTeacherNotFound
func loadTeachers(ctx context.Context, repo *repository.Repository, ids []string) ([]model.UserProfile, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	profiles, err := repo.Profile.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(profiles) != len(ids) {
		return nil, ErrTeacherNotFound
	}
	return profiles, nil
}

func toClassResponse(c *model.ClassList) *dto.ClassResponse {
	resp := &dto.ClassResponse{
		ID:             c.ClassID,
		DisplayName:    c.String(),
		Course:         toCourseBrief(c.Course),
		ClassType:      int(c.ClassType),
		ClassTypeLabel: c.ClassType.Label(),
		Semester:       c.Semester,
		StartDate:      formatDate(c.StartDate),
		Teachers:       make([]dto.ProfileBrief, 0, len(c.Teachers)),
	}
	if c.Branch != nil {
		resp.Branch = dto.BranchBrief{ID: c.Branch.BranchID, Name: c.Branch.Name}
	}
	if c.EndDate != nil {
		resp.EndDate = formatDate(*c.EndDate)
	}
	for i := range c.Teachers {
		resp.Teachers = append(resp.Teachers, *toProfileBrief(&c.Teachers[i]))
	}
	return resp
}
