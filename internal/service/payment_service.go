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
)

// ── 缴费模块业务错误 ──

var ErrPaymentNotFound = errors.New("缴费记录不存在")

// PaymentService 缴费业务接口
type PaymentService interface {
	Create(ctx context.Context, req *dto.CreatePaymentRequest, callerID string) (*dto.PaymentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error)
	List(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error)
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	repo   *repository.Repository
	cfg    *config.CRMConfig
	logger *zap.Logger
}

// NewPaymentService 创建 PaymentService 实例
func NewPaymentService(repo *repository.Repository, cfg *config.CRMConfig, logger *zap.Logger) PaymentService {
	return &paymentService{repo: repo, cfg: cfg, logger: logger}
}

func (s *paymentService) Create(ctx context.Context, req *dto.CreatePaymentRequest, callerID string) (*dto.PaymentResponse, error) {
	if _, err := s.repo.Customer.GetByID(ctx, req.CustomerID); err != nil {
		return nil, s.mapLookupError(err, ErrCustomerNotFound)
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		return nil, s.mapLookupError(err, ErrCourseNotFound)
	}

	consultantID := req.ConsultantID
	if consultantID == "" {
		consultantID = callerID
	}
	if _, err := s.repo.Profile.GetByID(ctx, consultantID); err != nil {
		return nil, s.mapLookupError(err, ErrConsultantNotFound)
	}

	amount := s.cfg.DefaultPaymentAmount
	if amount <= 0 {
		amount = model.DefaultPaymentAmount
	}
	if req.Amount != nil {
		amount = *req.Amount
	}

	payment := &model.Payment{
		CustomerID:   req.CustomerID,
		CourseID:     req.CourseID,
		Amount:       amount,
		ConsultantID: consultantID,
	}
	payment.Stamp(callerID)

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.logger.Error("创建缴费记录失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.GetByID(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("登记缴费", zap.String("customer", resp.Customer.ContactID), zap.Int("amount", amount))
	return resp, nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, ErrPaymentNotFound)
	}
	return toPaymentResponse(payment), nil
}

func (s *paymentService) List(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error) {
	payments, total, err := s.repo.Payment.List(ctx, req.CustomerID, req.CourseID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出缴费记录失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		result = append(result, *toPaymentResponse(&payments[i]))
	}
	return result, total, nil
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Payment.GetByID(ctx, id); err != nil {
		return s.mapLookupError(err, ErrPaymentNotFound)
	}
	if err := s.repo.Payment.Delete(ctx, id); err != nil {
		s.logger.Error("删除缴费记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *paymentService) mapLookupError(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	s.logger.Error("查询缴费关联数据失败", zap.Error(err))
	return err
}

func toPaymentResponse(p *model.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:         p.PaymentID,
		Customer:   toCustomerBrief(p.Customer),
		Course:     toCourseBrief(p.Course),
		Amount:     p.Amount,
		Consultant: toProfileBrief(p.Consultant),
		CreatedAt:  formatTime(p.CreatedAt),
	}
}
