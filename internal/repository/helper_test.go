package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prefect-crm/internal/model"
	"prefect-crm/pkg/database"
)

// newTestDB 内存 SQLite，开启外键约束；单连接保证同一个内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), database.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// fixture 一组相互关联的基础数据
type fixture struct {
	profile *model.UserProfile
	course  *model.Course
	branch  *model.Branch
	class   *model.ClassList
}

func seedFixture(t *testing.T, repo *Repository) *fixture {
	t.Helper()
	ctx := context.Background()

	account := &model.Account{Username: "alex", PasswordHash: "x", IsActive: true}
	require.NoError(t, repo.Account.Create(ctx, account))

	profile := &model.UserProfile{AccountID: account.AccountID, Name: "Alex"}
	require.NoError(t, repo.Profile.Create(ctx, profile))

	course := &model.Course{Name: "Python自动化", Price: 9800, PeriodMonths: 5, Outline: "..."}
	require.NoError(t, repo.Course.Create(ctx, course))

	branch := &model.Branch{Name: "北京校区", Address: "海淀区"}
	require.NoError(t, repo.Branch.Create(ctx, branch))

	class := &model.ClassList{
		BranchID:  branch.BranchID,
		CourseID:  course.CourseID,
		ClassType: model.ClassTypeWeekend,
		Semester:  1,
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local),
	}
	require.NoError(t, repo.Class.Create(ctx, class))

	return &fixture{profile: profile, course: course, branch: branch, class: class}
}

func newCustomer(f *fixture, contactID string) *model.Customer {
	return &model.Customer{
		ContactID:       contactID,
		Source:          model.SourceQQGroup,
		ConsultCourseID: &f.course.CourseID,
		Content:         "咨询 Python 周末班",
		ConsultantID:    f.profile.ProfileID,
	}
}

func createCustomer(t *testing.T, repo *Repository, f *fixture, contactID string) *model.Customer {
	t.Helper()
	c := newCustomer(f, contactID)
	require.NoError(t, repo.Customer.Create(context.Background(), c))
	return c
}

func createEnrollment(t *testing.T, repo *Repository, f *fixture, customer *model.Customer) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{
		CustomerID:   customer.CustomerID,
		ClassID:      f.class.ClassID,
		ConsultantID: f.profile.ProfileID,
	}
	require.NoError(t, repo.Enrollment.Create(context.Background(), e))
	return e
}

func createCourseRecord(t *testing.T, repo *Repository, f *fixture, dayNum int) *model.CourseRecord {
	t.Helper()
	r := &model.CourseRecord{
		ClassID:     f.class.ClassID,
		DayNum:      dayNum,
		TeacherID:   f.profile.ProfileID,
		HasHomework: true,
		Outline:     "变量与函数",
	}
	require.NoError(t, repo.CourseRecord.Create(context.Background(), r))
	return r
}
