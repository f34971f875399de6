package service

import (
	"bytes"
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	pkgerrors "prefect-crm/pkg/errors"
)

// ── 客户模块业务错误 ──

var (
	ErrCustomerNotFound      = errors.New("客户不存在")
	ErrCustomerContactExists = errors.New("该QQ号已登记")
	ErrConsultantNotFound    = errors.New("课程顾问不存在")
)

// CustomerService 客户业务接口
type CustomerService interface {
	Create(ctx context.Context, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCustomerRequest, callerID string) (*dto.CustomerResponse, error)
	SetTags(ctx context.Context, id string, req *dto.SetCustomerTagsRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id string) error

	AddFollowUp(ctx context.Context, customerID string, req *dto.CreateFollowUpRequest, callerID string) (*dto.FollowUpResponse, error)
	ListFollowUps(ctx context.Context, customerID string) ([]dto.FollowUpResponse, error)

	// Excel 导入导出见 customer_excel.go
	ParseImportFile(reader io.Reader) ([]ImportCustomerRow, error)
	Import(ctx context.Context, rows []ImportCustomerRow, callerID string) (*dto.ImportCustomerResponse, error)
	Export(ctx context.Context, req *dto.CustomerListRequest) (*bytes.Buffer, string, error)
}

type customerService struct {
	repo   *repository.Repository
	cfg    *config.CRMConfig
	logger *zap.Logger
}

// NewCustomerService 创建 CustomerService 实例
func NewCustomerService(repo *repository.Repository, cfg *config.CRMConfig, logger *zap.Logger) CustomerService {
	return &customerService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *customerService) Create(ctx context.Context, req *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	exists, err := s.repo.Customer.ExistsByContactID(ctx, req.ContactID, "")
	if err != nil {
		s.logger.Error("检查客户QQ失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrCustomerContactExists
	}

	consultantID := req.ConsultantID
	if consultantID == "" {
		consultantID = callerID
	}
	if err := s.checkRefs(ctx, &consultantID, optionalString(req.ConsultCourseID)); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		Name:            optionalString(req.Name),
		ContactID:       req.ContactID,
		ContactName:     optionalString(req.ContactName),
		Phone:           optionalString(req.Phone),
		Source:          model.CustomerSource(*req.Source),
		ReferralFrom:    req.ReferralFrom,
		ConsultCourseID: optionalString(req.ConsultCourseID),
		Content:         req.Content,
		ConsultantID:    consultantID,
		Memo:            req.Memo,
	}
	customer.Stamp(callerID)

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Customer.Create(ctx, customer); err != nil {
			return err
		}
		if len(req.TagIDs) == 0 {
			return nil
		}
		tags, err := loadTags(ctx, txRepo, req.TagIDs)
		if err != nil {
			return err
		}
		return txRepo.Customer.ReplaceTags(ctx, customer, tags)
	})
	if err != nil {
		return nil, s.mapWriteError("创建客户失败", err)
	}

	s.logger.Info("创建客户", zap.String("contact_id", customer.ContactID), zap.String("consultant_id", consultantID))
	return s.GetByID(ctx, customer.CustomerID)
}

// ────────────────────── GetByID / List ──────────────────────

func (s *customerService) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error) {
	customers, total, err := s.repo.Customer.List(ctx, toCustomerFilter(req), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出客户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		result = append(result, *toCustomerResponse(&customers[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *customerService) Update(ctx context.Context, id string, req *dto.UpdateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	customer, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Version != customer.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.ContactID != nil && *req.ContactID != customer.ContactID {
		exists, err := s.repo.Customer.ExistsByContactID(ctx, *req.ContactID, id)
		if err != nil {
			s.logger.Error("检查客户QQ失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrCustomerContactExists
		}
		customer.ContactID = *req.ContactID
	}

	if req.ConsultantID != nil {
		customer.ConsultantID = *req.ConsultantID
	}
	switch {
	case req.ClearConsultCourse:
		customer.ConsultCourseID = nil
	case req.ConsultCourseID != nil:
		customer.ConsultCourseID = req.ConsultCourseID
	}
	if err := s.checkRefs(ctx, &customer.ConsultantID, customer.ConsultCourseID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = optionalString(req.Name)
	}
	if req.ContactName != nil {
		customer.ContactName = optionalString(req.ContactName)
	}
	if req.Phone != nil {
		customer.Phone = optionalString(req.Phone)
	}
	if req.Source != nil {
		customer.Source = model.CustomerSource(*req.Source)
	}
	if req.ReferralFrom != nil {
		customer.ReferralFrom = *req.ReferralFrom
	}
	if req.Content != nil {
		customer.Content = *req.Content
	}
	if req.Memo != nil {
		customer.Memo = optionalString(req.Memo)
	}
	customer.Stamp(callerID)

	if err := s.repo.Customer.Update(ctx, customer); err != nil {
		return nil, s.mapWriteError("更新客户失败", err)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── SetTags / Delete ──────────────────────

func (s *customerService) SetTags(ctx context.Context, id string, req *dto.SetCustomerTagsRequest) (*dto.CustomerResponse, error) {
	customer, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		tags, err := loadTags(ctx, txRepo, req.TagIDs)
		if err != nil {
			return err
		}
		return txRepo.Customer.ReplaceTags(ctx, customer, tags)
	})
	if err != nil {
		if errors.Is(err, ErrTagNotFound) {
			return nil, err
		}
		s.logger.Error("设置客户标签失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if _, err := s.getCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Customer.Delete(ctx, id); err != nil {
		s.logger.Error("删除客户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("删除客户", zap.String("customer_id", id))
	return nil
}

// ────────────────────── 跟进记录 ──────────────────────

func (s *customerService) AddFollowUp(ctx context.Context, customerID string, req *dto.CreateFollowUpRequest, callerID string) (*dto.FollowUpResponse, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	followUp := &model.CustomerFollowUp{
		CustomerID:   customerID,
		Content:      req.Content,
		ConsultantID: callerID,
		Intention:    model.Intention(*req.Intention),
	}
	followUp.Stamp(callerID)

	if err := s.repo.FollowUp.Create(ctx, followUp); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, ErrConsultantNotFound
		}
		s.logger.Error("新增跟进记录失败", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}

	followUp.Customer = customer
	s.logger.Info("新增跟进记录", zap.Stringer("follow_up", followUp))
	return toFollowUpResponse(followUp), nil
}

func (s *customerService) ListFollowUps(ctx context.Context, customerID string) ([]dto.FollowUpResponse, error) {
	if _, err := s.getCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	followUps, err := s.repo.FollowUp.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("列出跟进记录失败", zap.String("customer_id", customerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.FollowUpResponse, 0, len(followUps))
	for i := range followUps {
		result = append(result, *toFollowUpResponse(&followUps[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *customerService) getCustomer(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.repo.Customer.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		s.logger.Error("查询客户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return customer, nil
}

// checkRefs 校验课程顾问与咨询课程存在
func (s *customerService) checkRefs(ctx context.Context, consultantID *string, courseID *string) error {
	if _, err := s.repo.Profile.GetByID(ctx, *consultantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConsultantNotFound
		}
		return err
	}
	if courseID == nil {
		return nil
	}
	if _, err := s.repo.Course.GetByID(ctx, *courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

func (s *customerService) mapWriteError(msg string, err error) error {
	switch {
	case errors.Is(err, pkgerrors.ErrOptimisticLock), errors.Is(err, ErrTagNotFound):
		return err
	case pkgerrors.IsDuplicateKey(err):
		return ErrCustomerContactExists
	case pkgerrors.IsForeignKeyViolation(err):
		return ErrConsultantNotFound
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// loadTags 按 ID 加载标签，任一不存在返回 ErrTagNotFound
func loadTags(ctx context.Context, repo *repository.Repository, ids []string) ([]model.Tag, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := repo.Tag.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return tags, nil
}

func toCustomerFilter(req *dto.CustomerListRequest) repository.CustomerFilter {
	filter := repository.CustomerFilter{
		ConsultantID: req.ConsultantID,
		TagID:        req.TagID,
		Keyword:      req.Keyword,
	}
	if req.Source != nil {
		src := model.CustomerSource(*req.Source)
		filter.Source = &src
	}
	return filter
}

func toCustomerResponse(c *model.Customer) *dto.CustomerResponse {
	resp := &dto.CustomerResponse{
		ID:           c.CustomerID,
		Name:         strValue(c.Name),
		ContactID:    c.ContactID,
		ContactName:  strValue(c.ContactName),
		Phone:        strValue(c.Phone),
		Source:       int(c.Source),
		SourceLabel:  c.Source.Label(),
		ReferralFrom: c.ReferralFrom,
		Content:      c.Content,
		Consultant:   toProfileBrief(c.Consultant),
		Memo:         strValue(c.Memo),
		Tags:         toTagResponses(c.Tags),
		Version:      c.Version,
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
	if c.ConsultCourse != nil {
		brief := toCourseBrief(c.ConsultCourse)
		resp.ConsultCourse = &brief
	}
	return resp
}

func toFollowUpResponse(f *model.CustomerFollowUp) *dto.FollowUpResponse {
	return &dto.FollowUpResponse{
		ID:             f.FollowUpID,
		CustomerID:     f.CustomerID,
		Content:        f.Content,
		Consultant:     toProfileBrief(f.Consultant),
		Intention:      int(f.Intention),
		IntentionLabel: f.Intention.Label(),
		CreatedAt:      formatTime(f.CreatedAt),
	}
}
