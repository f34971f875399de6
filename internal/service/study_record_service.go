package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 学习记录模块业务错误 ──

var (
	ErrStudyRecordNotFound      = errors.New("学习记录不存在")
	ErrStudyRecordExists        = errors.New("该学员本节课的学习记录已存在")
	ErrStudyRecordClassMismatch = errors.New("报名班级与上课记录班级不一致")
	ErrStudyRecordListFilter    = errors.New("需指定上课记录或报名记录")
)

// StudyRecordService 学习记录业务接口
type StudyRecordService interface {
	Create(ctx context.Context, req *dto.CreateStudyRecordRequest, callerID string) (*dto.StudyRecordResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudyRecordRequest, callerID string) (*dto.StudyRecordResponse, error)
	List(ctx context.Context, req *dto.StudyRecordListRequest) ([]dto.StudyRecordResponse, error)
	Delete(ctx context.Context, id string) error
	// Summary 学员出勤与成绩汇总，平均分不含 N/A
	Summary(ctx context.Context, enrollmentID string) (*dto.EnrollmentSummaryResponse, error)
	// ExportScoreSheet 班级成绩表：每个报名一行，每节课一列
	ExportScoreSheet(ctx context.Context, classID string) (*bytes.Buffer, string, error)
}

type studyRecordService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudyRecordService 创建 StudyRecordService 实例
func NewStudyRecordService(repo *repository.Repository, logger *zap.Logger) StudyRecordService {
	return &studyRecordService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *studyRecordService) Create(ctx context.Context, req *dto.CreateStudyRecordRequest, callerID string) (*dto.StudyRecordResponse, error) {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, s.mapLookupError(err, ErrEnrollmentNotFound)
	}
	courseRecord, err := s.repo.CourseRecord.GetByID(ctx, req.CourseRecordID)
	if err != nil {
		return nil, s.mapLookupError(err, ErrCourseRecordNotFound)
	}
	if enrollment.ClassID != courseRecord.ClassID {
		return nil, ErrStudyRecordClassMismatch
	}

	exists, err := s.repo.StudyRecord.Exists(ctx, req.EnrollmentID, req.CourseRecordID)
	if err != nil {
		s.logger.Error("检查学习记录唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrStudyRecordExists
	}

	record := &model.StudyRecord{
		EnrollmentID:   req.EnrollmentID,
		CourseRecordID: req.CourseRecordID,
		Attendance:     model.AttendanceCheckedIn,
		Score:          model.Score(*req.Score),
		Memo:           optionalString(req.Memo),
	}
	if req.Attendance != nil {
		record.Attendance = model.Attendance(*req.Attendance)
	}
	record.Stamp(callerID)

	if err := s.repo.StudyRecord.Create(ctx, record); err != nil {
		return nil, s.mapWriteError("创建学习记录失败", err)
	}

	record.CourseRecord = courseRecord
	return toStudyRecordResponse(record), nil
}

// ────────────────────── Update / List / Delete ──────────────────────

func (s *studyRecordService) Update(ctx context.Context, id string, req *dto.UpdateStudyRecordRequest, callerID string) (*dto.StudyRecordResponse, error) {
	record, err := s.repo.StudyRecord.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, ErrStudyRecordNotFound)
	}

	if req.Attendance != nil {
		record.Attendance = model.Attendance(*req.Attendance)
	}
	if req.Score != nil {
		record.Score = model.Score(*req.Score)
	}
	if req.Memo != nil {
		record.Memo = optionalString(req.Memo)
	}
	record.Stamp(callerID)

	if err := s.repo.StudyRecord.Update(ctx, record); err != nil {
		return nil, s.mapWriteError("更新学习记录失败", err)
	}
	return toStudyRecordResponse(record), nil
}

func (s *studyRecordService) List(ctx context.Context, req *dto.StudyRecordListRequest) ([]dto.StudyRecordResponse, error) {
	var (
		records []model.StudyRecord
		err     error
	)
	switch {
	case req.CourseRecordID != "":
		records, err = s.repo.StudyRecord.ListByCourseRecord(ctx, req.CourseRecordID)
	case req.EnrollmentID != "":
		records, err = s.repo.StudyRecord.ListByEnrollment(ctx, req.EnrollmentID)
	default:
		return nil, ErrStudyRecordListFilter
	}
	if err != nil {
		s.logger.Error("列出学习记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudyRecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *toStudyRecordResponse(&records[i]))
	}
	return result, nil
}

func (s *studyRecordService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.StudyRecord.GetByID(ctx, id); err != nil {
		return s.mapLookupError(err, ErrStudyRecordNotFound)
	}
	if err := s.repo.StudyRecord.Delete(ctx, id); err != nil {
		s.logger.Error("删除学习记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Summary ──────────────────────

func (s *studyRecordService) Summary(ctx context.Context, enrollmentID string) (*dto.EnrollmentSummaryResponse, error) {
	if _, err := s.repo.Enrollment.GetByID(ctx, enrollmentID); err != nil {
		return nil, s.mapLookupError(err, ErrEnrollmentNotFound)
	}

	records, err := s.repo.StudyRecord.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Error("查询学习记录失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return nil, err
	}
	return summarize(enrollmentID, records), nil
}

func summarize(enrollmentID string, records []model.StudyRecord) *dto.EnrollmentSummaryResponse {
	counts := make(map[model.Attendance]int, len(model.AttendanceChoices))
	resp := &dto.EnrollmentSummaryResponse{EnrollmentID: enrollmentID, Sessions: len(records)}

	for _, r := range records {
		counts[r.Attendance]++
		if r.Score == model.ScoreNA {
			continue
		}
		resp.ScoredSessions++
		resp.TotalScore += int(r.Score)
	}

	resp.Attendance = make([]dto.AttendanceCount, 0, len(model.AttendanceChoices))
	for _, c := range model.AttendanceChoices {
		resp.Attendance = append(resp.Attendance, dto.AttendanceCount{
			Value: c.Value,
			Label: c.Label,
			Count: counts[model.Attendance(c.Value)],
		})
	}
	if resp.ScoredSessions > 0 {
		resp.AverageScore = float64(resp.TotalScore) / float64(resp.ScoredSessions)
	}
	return resp
}

// ────────────────────── ExportScoreSheet ──────────────────────

func (s *studyRecordService) ExportScoreSheet(ctx context.Context, classID string) (*bytes.Buffer, string, error) {
	class, err := s.repo.Class.GetByID(ctx, classID)
	if err != nil {
		return nil, "", s.mapLookupError(err, ErrClassNotFound)
	}

	sessions, err := s.repo.CourseRecord.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询上课记录失败", zap.Error(err))
		return nil, "", err
	}
	enrollments, err := s.repo.Enrollment.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询报名失败", zap.Error(err))
		return nil, "", err
	}
	records, err := s.repo.StudyRecord.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("查询学习记录失败", zap.Error(err))
		return nil, "", err
	}

	// "enrollmentID:courseRecordID" → 学习记录
	index := make(map[string]*model.StudyRecord, len(records))
	for i := range records {
		r := &records[i]
		index[r.EnrollmentID+":"+r.CourseRecordID] = r
	}

	name := class.String()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "成绩表"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	center, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	// 固定列：QQ、姓名；之后每节课一列；最后平均分
	fixed := 2
	lastCol := colName(fixed + len(sessions))

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s 成绩表", name))
	f.MergeCell(sheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	f.SetCellValue(sheet, cell("A", 2), "QQ")
	f.SetCellValue(sheet, cell("B", 2), "姓名")
	f.SetColWidth(sheet, "A", "B", 16)
	for i, cr := range sessions {
		f.SetCellValue(sheet, cell(colName(fixed+i), 2), fmt.Sprintf("第%d天", cr.DayNum))
	}
	f.SetCellValue(sheet, cell(lastCol, 2), "平均分")
	f.SetCellStyle(sheet, "A2", cell(lastCol, 2), headerStyle)

	for i, e := range enrollments {
		row := i + 3
		if e.Customer != nil {
			f.SetCellValue(sheet, cell("A", row), e.Customer.ContactID)
			f.SetCellValue(sheet, cell("B", row), strValue(e.Customer.Name))
		}

		var mine []model.StudyRecord
		for j, cr := range sessions {
			text := "-"
			if r, ok := index[e.EnrollmentID+":"+cr.RecordID]; ok {
				text = scoreCellText(r)
				mine = append(mine, *r)
			}
			f.SetCellValue(sheet, cell(colName(fixed+j), row), text)
		}

		sum := summarize(e.EnrollmentID, mine)
		if sum.ScoredSessions > 0 {
			f.SetCellValue(sheet, cell(lastCol, row), fmt.Sprintf("%.1f", sum.AverageScore))
		} else {
			f.SetCellValue(sheet, cell(lastCol, row), "N/A")
		}
	}
	if len(enrollments) > 0 {
		f.SetCellStyle(sheet, cell(colName(fixed), 3), cell(lastCol, len(enrollments)+2), center)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerate
	}

	filename := fmt.Sprintf("成绩表_%s.xlsx", strings.ReplaceAll(name, " ", "_"))
	return buf, filename, nil
}

// scoreCellText 非签到时附带出勤状态，如 "B+(迟到)"
func scoreCellText(r *model.StudyRecord) string {
	text := r.Score.Label()
	if r.Attendance != model.AttendanceCheckedIn {
		text += "(" + r.Attendance.Label() + ")"
	}
	return text
}

// ── 内部辅助方法 ──

func (s *studyRecordService) mapLookupError(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询学习记录关联数据失败", zap.Error(err))
	return err
}

func (s *studyRecordService) mapWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidScore), errors.Is(err, model.ErrInvalidAttendance):
		return err
	case pkgerrors.IsDuplicateKey(err):
		return ErrStudyRecordExists
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func toStudyRecordResponse(r *model.StudyRecord) *dto.StudyRecordResponse {
	resp := &dto.StudyRecordResponse{
		ID:              r.StudyRecordID,
		EnrollmentID:    r.EnrollmentID,
		CourseRecordID:  r.CourseRecordID,
		Attendance:      int(r.Attendance),
		AttendanceLabel: r.Attendance.Label(),
		Score:           int(r.Score),
		ScoreLabel:      r.Score.Label(),
		Memo:            strValue(r.Memo),
		Date:            formatDate(r.Date),
	}
	if r.CourseRecord != nil {
		resp.DayNum = r.CourseRecord.DayNum
	}
	return resp
}
