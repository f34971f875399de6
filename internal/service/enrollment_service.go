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

// ── 报名模块业务错误 ──

var (
	ErrEnrollmentNotFound = errors.New("报名记录不存在")
	ErrEnrollmentExists   = errors.New("该客户已报名此班级")
	ErrContractNotAgreed  = errors.New("学员尚未同意合同条款，不能审核")
)

// EnrollmentService 报名业务接口
type EnrollmentService interface {
	Create(ctx context.Context, req *dto.CreateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EnrollmentResponse, error)
	List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, error)
	// AgreeContract 学员同意合同条款，重复调用无副作用
	AgreeContract(ctx context.Context, id string, callerID string) (*dto.EnrollmentResponse, error)
	// ApproveContract 审核合同，要求学员已同意
	ApproveContract(ctx context.Context, id string, callerID string) (*dto.EnrollmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) Create(ctx context.Context, req *dto.CreateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error) {
	if _, err := s.repo.Customer.GetByID(ctx, req.CustomerID); err != nil {
		return nil, s.mapLookupError(err, ErrCustomerNotFound)
	}
	if _, err := s.repo.Class.GetByID(ctx, req.ClassID); err != nil {
		return nil, s.mapLookupError(err, ErrClassNotFound)
	}

	consultantID := req.ConsultantID
	if consultantID == "" {
		consultantID = callerID
	}
	if _, err := s.repo.Profile.GetByID(ctx, consultantID); err != nil {
		return nil, s.mapLookupError(err, ErrConsultantNotFound)
	}

	exists, err := s.repo.Enrollment.Exists(ctx, req.CustomerID, req.ClassID)
	if err != nil {
		s.logger.Error("检查报名唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEnrollmentExists
	}

	enrollment := &model.Enrollment{
		CustomerID:   req.CustomerID,
		ClassID:      req.ClassID,
		ConsultantID: consultantID,
	}
	enrollment.Stamp(callerID)

	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrEnrollmentExists
		}
		s.logger.Error("创建报名失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.GetByID(ctx, enrollment.EnrollmentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("创建报名", zap.String("customer", resp.Customer.ContactID), zap.String("class", resp.Class.Name))
	return resp, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.getEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.repo.Enrollment.List(ctx, req.ClassID, req.CustomerID)
	if err != nil {
		s.logger.Error("列出报名失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		result = append(result, *toEnrollmentResponse(&enrollments[i]))
	}
	return result, nil
}

// ────────────────────── 合同流程 ──────────────────────

func (s *enrollmentService) AgreeContract(ctx context.Context, id string, callerID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.getEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.ContractAgreed {
		return toEnrollmentResponse(enrollment), nil
	}

	enrollment.ContractAgreed = true
	enrollment.Stamp(callerID)
	if err := s.repo.Enrollment.Update(ctx, enrollment); err != nil {
		s.logger.Error("更新合同状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ApproveContract(ctx context.Context, id string, callerID string) (*dto.EnrollmentResponse, error) {
	enrollment, err := s.getEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !enrollment.ContractAgreed {
		return nil, ErrContractNotAgreed
	}
	if enrollment.ContractApproved {
		return toEnrollmentResponse(enrollment), nil
	}

	enrollment.ContractApproved = true
	enrollment.Stamp(callerID)
	if err := s.repo.Enrollment.Update(ctx, enrollment); err != nil {
		s.logger.Error("审核合同失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("合同审核通过", zap.Stringer("enrollment", enrollment), zap.String("operator", callerID))
	return toEnrollmentResponse(enrollment), nil
}

// Delete 级联删除该报名的学习记录
func (s *enrollmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.getEnrollment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Enrollment.Delete(ctx, id); err != nil {
		s.logger.Error("删除报名失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *enrollmentService) getEnrollment(ctx context.Context, id string) (*model.Enrollment, error) {
	enrollment, err := s.repo.Enrollment.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, ErrEnrollmentNotFound)
	}
	return enrollment, nil
}

func (s *enrollmentService) mapLookupError(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询报名关联数据失败", zap.Error(err))
	return err
}

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	return &dto.EnrollmentResponse{
		ID:               e.EnrollmentID,
		Customer:         toCustomerBrief(e.Customer),
		Class:            toClassBrief(e.Class),
		Consultant:       toProfileBrief(e.Consultant),
		ContractAgreed:   e.ContractAgreed,
		ContractApproved: e.ContractApproved,
		Date:             formatDate(e.Date),
	}
}
