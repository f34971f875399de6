package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prefect-crm/config"
	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
	"prefect-crm/internal/repository"
	"prefect-crm/pkg/database"
)

// newTestRepo 内存 SQLite 上的完整 Repository
func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return repository.NewRepository(db)
}

func testCRMConfig() *config.CRMConfig {
	return &config.CRMConfig{DefaultPaymentAmount: 500, ImportMaxRows: 100}
}

// testEnv 一套共享同一数据库的 Service
type testEnv struct {
	repo *repository.Repository
	svc  *Service

	admin  *model.UserProfile
	course *model.Course
	branch *model.Branch
	class  *model.ClassList
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepo(t)

	cfg := &config.Config{CRM: *testCRMConfig()}
	env := &testEnv{
		repo: repo,
		svc:  NewService(cfg, repo, newTestJWT(), nil, zap.NewNop()),
	}

	env.admin = createTestProfile(t, repo, "admin", "Admin@123", true)

	course, err := env.svc.Course.Create(ctx, &dto.CreateCourseRequest{
		Name: "Python自动化", Price: 9800, PeriodMonths: 5, Outline: "基础 / 进阶 / 项目",
	}, env.admin.ProfileID)
	require.NoError(t, err)
	env.course, err = repo.Course.GetByID(ctx, course.ID)
	require.NoError(t, err)

	branch, err := env.svc.Branch.Create(ctx, &dto.CreateBranchRequest{Name: "北京校区", Address: "海淀区中关村"}, env.admin.ProfileID)
	require.NoError(t, err)
	env.branch, err = repo.Branch.GetByID(ctx, branch.ID)
	require.NoError(t, err)

	class, err := env.svc.Class.Create(ctx, &dto.CreateClassRequest{
		BranchID:  branch.ID,
		CourseID:  course.ID,
		ClassType: intPtr(int(model.ClassTypeWeekend)),
		Semester:  1,
		StartDate: "2026-03-01",
	}, env.admin.ProfileID)
	require.NoError(t, err)
	env.class, err = repo.Class.GetByID(ctx, class.ID)
	require.NoError(t, err)

	return env
}

// createTestProfile 直接落库创建账号，绕过 Service 以便控制超级管理员标志
func createTestProfile(t *testing.T, repo *repository.Repository, username, password string, superuser bool) *model.UserProfile {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	account := &model.Account{Username: username, PasswordHash: string(hash), IsActive: true, IsSuperuser: superuser}
	require.NoError(t, repo.Account.Create(ctx, account))

	profile := &model.UserProfile{AccountID: account.AccountID, Name: username}
	require.NoError(t, repo.Profile.Create(ctx, profile))
	return profile
}

func (e *testEnv) createCustomer(t *testing.T, contactID string) *dto.CustomerResponse {
	t.Helper()
	resp, err := e.svc.Customer.Create(context.Background(), &dto.CreateCustomerRequest{
		ContactID: contactID,
		Source:    intPtr(int(model.SourceQQGroup)),
		Content:   "咨询周末班",
	}, e.admin.ProfileID)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) enroll(t *testing.T, customerID string) *dto.EnrollmentResponse {
	t.Helper()
	resp, err := e.svc.Enrollment.Create(context.Background(), &dto.CreateEnrollmentRequest{
		CustomerID: customerID,
		ClassID:    e.class.ClassID,
	}, e.admin.ProfileID)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) createSession(t *testing.T, dayNum int) *dto.CourseRecordResponse {
	t.Helper()
	resp, err := e.svc.CourseRecord.Create(context.Background(), &dto.CreateCourseRecordRequest{
		ClassID: e.class.ClassID,
		DayNum:  dayNum,
		Outline: fmt.Sprintf("第%d天", dayNum),
	}, e.admin.ProfileID)
	require.NoError(t, err)
	return resp
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
