package handler

import (
	"bytes"
	"context"
	"io"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/service"
	"prefect-crm/pkg/jwt"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.ProfileResponse
	meErr         error
	menusResult   []dto.MenuResponse
	menusErr      error
	changePassErr error

	gotRefresh   string
	gotClaims    *jwt.Claims
	gotSuperuser bool
	gotAccountID string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.gotRefresh = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.gotClaims = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.ProfileResponse, error) {
	return m.meResult, m.meErr
}
func (m *mockAuthService) Menus(_ context.Context, _ string, isSuperuser bool) ([]dto.MenuResponse, error) {
	m.gotSuperuser = isSuperuser
	return m.menusResult, m.menusErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, accountID string, _ *dto.ChangePasswordRequest) error {
	m.gotAccountID = accountID
	return m.changePassErr
}

// ── Mock ProfileService ──

type mockProfileService struct {
	result    *dto.ProfileResponse
	list      []dto.ProfileResponse
	total     int64
	err       error
	gotCaller string
}

func (m *mockProfileService) Create(_ context.Context, _ *dto.CreateProfileRequest, callerID string) (*dto.ProfileResponse, error) {
	m.gotCaller = callerID
	return m.result, m.err
}
func (m *mockProfileService) GetByID(_ context.Context, _ string) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) List(_ context.Context, _ *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockProfileService) Update(_ context.Context, _ string, _ *dto.UpdateProfileRequest, _ string) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) AssignRoles(_ context.Context, _ string, _ *dto.AssignRolesRequest, _ string) (*dto.ProfileResponse, error) {
	return m.result, m.err
}
func (m *mockProfileService) Delete(_ context.Context, _ string, callerID string) error {
	m.gotCaller = callerID
	return m.err
}
func (m *mockProfileService) EnsureBootstrapAdmin(_ context.Context, _ *config.BootstrapAdminConfig) (bool, error) {
	return false, m.err
}

// ── Mock CustomerService ──

type mockCustomerService struct {
	result     *dto.CustomerResponse
	list       []dto.CustomerResponse
	total      int64
	err        error
	followUp   *dto.FollowUpResponse
	followUps  []dto.FollowUpResponse
	parseRows  []service.ImportCustomerRow
	parseErr   error
	importResp *dto.ImportCustomerResponse
	importErr  error
	exportBuf  *bytes.Buffer
	exportName string
	exportErr  error

	gotCaller  string
	gotListReq *dto.CustomerListRequest
	gotRows    []service.ImportCustomerRow
}

func (m *mockCustomerService) Create(_ context.Context, _ *dto.CreateCustomerRequest, callerID string) (*dto.CustomerResponse, error) {
	m.gotCaller = callerID
	return m.result, m.err
}
func (m *mockCustomerService) GetByID(_ context.Context, _ string) (*dto.CustomerResponse, error) {
	return m.result, m.err
}
func (m *mockCustomerService) List(_ context.Context, req *dto.CustomerListRequest) ([]dto.CustomerResponse, int64, error) {
	m.gotListReq = req
	return m.list, m.total, m.err
}
func (m *mockCustomerService) Update(_ context.Context, _ string, _ *dto.UpdateCustomerRequest, _ string) (*dto.CustomerResponse, error) {
	return m.result, m.err
}
func (m *mockCustomerService) SetTags(_ context.Context, _ string, _ *dto.SetCustomerTagsRequest) (*dto.CustomerResponse, error) {
	return m.result, m.err
}
func (m *mockCustomerService) Delete(_ context.Context, _ string) error {
	return m.err
}
func (m *mockCustomerService) AddFollowUp(_ context.Context, _ string, _ *dto.CreateFollowUpRequest, _ string) (*dto.FollowUpResponse, error) {
	return m.followUp, m.err
}
func (m *mockCustomerService) ListFollowUps(_ context.Context, _ string) ([]dto.FollowUpResponse, error) {
	return m.followUps, m.err
}
func (m *mockCustomerService) ParseImportFile(_ io.Reader) ([]service.ImportCustomerRow, error) {
	return m.parseRows, m.parseErr
}
func (m *mockCustomerService) Import(_ context.Context, rows []service.ImportCustomerRow, callerID string) (*dto.ImportCustomerResponse, error) {
	m.gotRows = rows
	m.gotCaller = callerID
	return m.importResp, m.importErr
}
func (m *mockCustomerService) Export(_ context.Context, req *dto.CustomerListRequest) (*bytes.Buffer, string, error) {
	m.gotListReq = req
	return m.exportBuf, m.exportName, m.exportErr
}

// ── Mock ClassService ──

type mockClassService struct {
	result  *dto.ClassResponse
	list    []dto.ClassResponse
	err     error
	icsData []byte
	icsName string
	icsErr  error
}

func (m *mockClassService) Create(_ context.Context, _ *dto.CreateClassRequest, _ string) (*dto.ClassResponse, error) {
	return m.result, m.err
}
func (m *mockClassService) GetByID(_ context.Context, _ string) (*dto.ClassResponse, error) {
	return m.result, m.err
}
func (m *mockClassService) List(_ context.Context, _ *dto.ClassListRequest) ([]dto.ClassResponse, error) {
	return m.list, m.err
}
func (m *mockClassService) Update(_ context.Context, _ string, _ *dto.UpdateClassRequest, _ string) (*dto.ClassResponse, error) {
	return m.result, m.err
}
func (m *mockClassService) SetTeachers(_ context.Context, _ string, _ *dto.SetTeachersRequest) (*dto.ClassResponse, error) {
	return m.result, m.err
}
func (m *mockClassService) Delete(_ context.Context, _ string) error {
	return m.err
}
func (m *mockClassService) ExportCalendar(_ context.Context, _ string) ([]byte, string, error) {
	return m.icsData, m.icsName, m.icsErr
}

// ── Mock CourseRecordService ──

type mockCourseRecordService struct {
	result  *dto.CourseRecordResponse
	list    []dto.CourseRecordResponse
	err     error
	created int
}

func (m *mockCourseRecordService) Create(_ context.Context, _ *dto.CreateCourseRecordRequest, _ string) (*dto.CourseRecordResponse, error) {
	return m.result, m.err
}
func (m *mockCourseRecordService) GetByID(_ context.Context, _ string) (*dto.CourseRecordResponse, error) {
	return m.result, m.err
}
func (m *mockCourseRecordService) ListByClass(_ context.Context, _ string) ([]dto.CourseRecordResponse, error) {
	return m.list, m.err
}
func (m *mockCourseRecordService) Update(_ context.Context, _ string, _ *dto.UpdateCourseRecordRequest, _ string) (*dto.CourseRecordResponse, error) {
	return m.result, m.err
}
func (m *mockCourseRecordService) Delete(_ context.Context, _ string) error {
	return m.err
}
func (m *mockCourseRecordService) InitStudyRecords(_ context.Context, _ string, _ string) (int, error) {
	return m.created, m.err
}

// ── Mock EnrollmentService ──

type mockEnrollmentService struct {
	result *dto.EnrollmentResponse
	list   []dto.EnrollmentResponse
	err    error
}

func (m *mockEnrollmentService) Create(_ context.Context, _ *dto.CreateEnrollmentRequest, _ string) (*dto.EnrollmentResponse, error) {
	return m.result, m.err
}
func (m *mockEnrollmentService) GetByID(_ context.Context, _ string) (*dto.EnrollmentResponse, error) {
	return m.result, m.err
}
func (m *mockEnrollmentService) List(_ context.Context, _ *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, error) {
	return m.list, m.err
}
func (m *mockEnrollmentService) AgreeContract(_ context.Context, _ string, _ string) (*dto.EnrollmentResponse, error) {
	return m.result, m.err
}
func (m *mockEnrollmentService) ApproveContract(_ context.Context, _ string, _ string) (*dto.EnrollmentResponse, error) {
	return m.result, m.err
}
func (m *mockEnrollmentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ── Mock StudyRecordService ──

type mockStudyRecordService struct {
	result    *dto.StudyRecordResponse
	list      []dto.StudyRecordResponse
	summary   *dto.EnrollmentSummaryResponse
	err       error
	sheetBuf  *bytes.Buffer
	sheetName string
}

func (m *mockStudyRecordService) Create(_ context.Context, _ *dto.CreateStudyRecordRequest, _ string) (*dto.StudyRecordResponse, error) {
	return m.result, m.err
}
func (m *mockStudyRecordService) Update(_ context.Context, _ string, _ *dto.UpdateStudyRecordRequest, _ string) (*dto.StudyRecordResponse, error) {
	return m.result, m.err
}
func (m *mockStudyRecordService) List(_ context.Context, _ *dto.StudyRecordListRequest) ([]dto.StudyRecordResponse, error) {
	return m.list, m.err
}
func (m *mockStudyRecordService) Delete(_ context.Context, _ string) error {
	return m.err
}
func (m *mockStudyRecordService) Summary(_ context.Context, _ string) (*dto.EnrollmentSummaryResponse, error) {
	return m.summary, m.err
}
func (m *mockStudyRecordService) ExportScoreSheet(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.sheetBuf, m.sheetName, m.err
}

// ── Mock PaymentService ──

type mockPaymentService struct {
	result *dto.PaymentResponse
	list   []dto.PaymentResponse
	total  int64
	err    error
}

func (m *mockPaymentService) Create(_ context.Context, _ *dto.CreatePaymentRequest, _ string) (*dto.PaymentResponse, error) {
	return m.result, m.err
}
func (m *mockPaymentService) GetByID(_ context.Context, _ string) (*dto.PaymentResponse, error) {
	return m.result, m.err
}
func (m *mockPaymentService) List(_ context.Context, _ *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error) {
	return m.list, m.total, m.err
}
func (m *mockPaymentService) Delete(_ context.Context, _ string) error {
	return m.err
}
