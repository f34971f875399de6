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

// ── 上课记录模块业务错误 ──

var (
	ErrCourseRecordNotFound = errors.New("上课记录不存在")
	ErrCourseRecordExists   = errors.New("该班级该节次的上课记录已存在")
	ErrCourseRecordDate     = errors.New("上课日期格式错误，应为 YYYY-MM-DD")
)

// CourseRecordService 上课记录业务接口
type CourseRecordService interface {
	Create(ctx context.Context, req *dto.CreateCourseRecordRequest, callerID string) (*dto.CourseRecordResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseRecordResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.CourseRecordResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRecordRequest, callerID string) (*dto.CourseRecordResponse, error)
	Delete(ctx context.Context, id string) error
	// InitStudyRecords 为班级每个报名生成本节学习记录（签到 / N/A），已存在的跳过
	InitStudyRecords(ctx context.Context, id string, callerID string) (int, error)
}

type courseRecordService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseRecordService 创建 CourseRecordService 实例
func NewCourseRecordService(repo *repository.Repository, logger *zap.Logger) CourseRecordService {
	return &courseRecordService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseRecordService) Create(ctx context.Context, req *dto.CreateCourseRecordRequest, callerID string) (*dto.CourseRecordResponse, error) {
	if _, err := s.repo.Class.GetByID(ctx, req.ClassID); err != nil {
		return nil, s.mapLookupError(err, ErrClassNotFound)
	}

	teacherID := req.TeacherID
	if teacherID == "" {
		teacherID = callerID
	}
	if _, err := s.repo.Profile.GetByID(ctx, teacherID); err != nil {
		return nil, s.mapLookupError(err, ErrTeacherNotFound)
	}

	exists, err := s.repo.CourseRecord.ExistsByClassDay(ctx, req.ClassID, req.DayNum, "")
	if err != nil {
		s.logger.Error("检查上课记录唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrCourseRecordExists
	}

	record := &model.CourseRecord{
		ClassID:         req.ClassID,
		DayNum:          req.DayNum,
		TeacherID:       teacherID,
		HasHomework:     true,
		HomeworkTitle:   optionalString(req.HomeworkTitle),
		HomeworkContent: optionalString(req.HomeworkContent),
		Outline:         req.Outline,
	}
	if req.HasHomework != nil {
		record.HasHomework = *req.HasHomework
	}
	if req.Date != nil && *req.Date != "" {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrCourseRecordDate
		}
		record.Date = d
	}
	record.Stamp(callerID)

	created := 0
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.CourseRecord.Create(ctx, record); err != nil {
			return err
		}
		if !req.InitStudyRecords {
			return nil
		}
		n, err := initStudyRecords(ctx, txRepo, record, callerID)
		created = n
		return err
	})
	if err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrCourseRecordExists
		}
		s.logger.Error("创建上课记录失败", zap.String("class_id", req.ClassID), zap.Error(err))
		return nil, err
	}

	resp, err := s.GetByID(ctx, record.RecordID)
	if err != nil {
		return nil, err
	}
	resp.StudyRecordsCreated = created
	s.logger.Info("创建上课记录", zap.String("record", resp.Class.Name), zap.Int("day_num", record.DayNum), zap.Int("study_records", created))
	return resp, nil
}

// ────────────────────── GetByID / ListByClass ──────────────────────

func (s *courseRecordService) GetByID(ctx context.Context, id string) (*dto.CourseRecordResponse, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseRecordResponse(record), nil
}

func (s *courseRecordService) ListByClass(ctx context.Context, classID string) ([]dto.CourseRecordResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, classID)
	if err != nil {
		return nil, s.mapLookupError(err, ErrClassNotFound)
	}

	records, err := s.repo.CourseRecord.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("列出上课记录失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseRecordResponse, 0, len(records))
	for i := range records {
		records[i].Class = class
		result = append(result, *toCourseRecordResponse(&records[i]))
	}
	return result, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *courseRecordService) Update(ctx context.Context, id string, req *dto.UpdateCourseRecordRequest, callerID string) (*dto.CourseRecordResponse, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeacherID != nil && *req.TeacherID != record.TeacherID {
		teacher, err := s.repo.Profile.GetByID(ctx, *req.TeacherID)
		if err != nil {
			return nil, s.mapLookupError(err, ErrTeacherNotFound)
		}
		record.TeacherID = teacher.ProfileID
		record.Teacher = teacher
	}
	if req.HasHomework != nil {
		record.HasHomework = *req.HasHomework
	}
	if req.HomeworkTitle != nil {
		record.HomeworkTitle = optionalString(req.HomeworkTitle)
	}
	if req.HomeworkContent != nil {
		record.HomeworkContent = optionalString(req.HomeworkContent)
	}
	if req.Outline != nil {
		record.Outline = *req.Outline
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrCourseRecordDate
		}
		record.Date = d
	}
	record.Stamp(callerID)

	if err := s.repo.CourseRecord.Update(ctx, record); err != nil {
		s.logger.Error("更新上课记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseRecordResponse(record), nil
}

// Delete 级联删除本节学习记录
func (s *courseRecordService) Delete(ctx context.Context, id string) error {
	if _, err := s.getRecord(ctx, id); err != nil {
		return err
	}
	if err := s.repo.CourseRecord.Delete(ctx, id); err != nil {
		s.logger.Error("删除上课记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── InitStudyRecords ──────────────────────

func (s *courseRecordService) InitStudyRecords(ctx context.Context, id string, callerID string) (int, error) {
	record, err := s.getRecord(ctx, id)
	if err != nil {
		return 0, err
	}

	created := 0
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		n, err := initStudyRecords(ctx, txRepo, record, callerID)
		created = n
		return err
	})
	if err != nil {
		s.logger.Error("初始化学习记录失败", zap.String("record_id", id), zap.Error(err))
		return 0, err
	}

	s.logger.Info("初始化学习记录", zap.String("record_id", id), zap.Int("created", created))
	return created, nil
}

// initStudyRecords 依赖 (报名, 上课记录) 唯一约束跳过已有记录，重复调用返回 0
func initStudyRecords(ctx context.Context, repo *repository.Repository, record *model.CourseRecord, callerID string) (int, error) {
	enrollments, err := repo.Enrollment.ListByClass(ctx, record.ClassID)
	if err != nil {
		return 0, err
	}
	if len(enrollments) == 0 {
		return 0, nil
	}

	records := make([]model.StudyRecord, 0, len(enrollments))
	for _, e := range enrollments {
		sr := model.StudyRecord{
			EnrollmentID:   e.EnrollmentID,
			CourseRecordID: record.RecordID,
			Attendance:     model.AttendanceCheckedIn,
			Score:          model.ScoreNA,
		}
		sr.Stamp(callerID)
		records = append(records, sr)
	}

	n, err := repo.StudyRecord.BatchCreate(ctx, records)
	return int(n), err
}

// ── 内部辅助方法 ──

func (s *courseRecordService) getRecord(ctx context.Context, id string) (*model.CourseRecord, error) {
	record, err := s.repo.CourseRecord.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, ErrCourseRecordNotFound)
	}
	return record, nil
}

func (s *courseRecordService) mapLookupError(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询上课记录关联数据失败", zap.Error(err))
	return err
}

func toCourseRecordResponse(r *model.CourseRecord) *dto.CourseRecordResponse {
	return &dto.CourseRecordResponse{
		ID:              r.RecordID,
		Class:           toClassBrief(r.Class),
		DayNum:          r.DayNum,
		Teacher:         toProfileBrief(r.Teacher),
		HasHomework:     r.HasHomework,
		HomeworkTitle:   strValue(r.HomeworkTitle),
		HomeworkContent: strValue(r.HomeworkContent),
		Outline:         r.Outline,
		Date:            formatDate(r.Date),
	}
}
