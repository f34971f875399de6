//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prefect-crm/internal/model"
	"prefect-crm/pkg/database"
	pkgerrors "prefect-crm/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup：PostgreSQL 容器 + 正式迁移脚本
// ═══════════════════════════════════════════════════════════

var pgDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("prefect_crm_test"),
		tcpostgres.WithUsername("crm"),
		tcpostgres.WithPassword("crm_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动 PostgreSQL 容器失败: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer ctr.Terminate(ctx)

		dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取连接串失败: %v\n", err)
			return 1
		}

		pgDB, err = gorm.Open(postgres.Open(dsn), database.GormConfig("silent"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
			return 1
		}
		sqlDB, err := pgDB.DB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
			return 1
		}
		defer sqlDB.Close()

		if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
			return 1
		}
		return m.Run()
	}()

	os.Exit(code)
}

// newPGRepo 清空业务表后返回仓储
func newPGRepo(t *testing.T) *Repository {
	t.Helper()
	require.NoError(t, pgDB.Exec(`TRUNCATE accounts, menus, roles, courses, branches, tags RESTART IDENTITY CASCADE`).Error)
	return NewRepository(pgDB)
}

// ═══════════════════════════════════════════════════════════
// 唯一约束
// ═══════════════════════════════════════════════════════════

func TestPostgres_ContactIDUniqueUnderConcurrency(t *testing.T) {
	repo := newPGRepo(t)
	f := seedFixture(t, repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Customer.Create(ctx, newCustomer(f, "12345"))
		}(i)
	}
	wg.Wait()

	success, duplicate := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case pkgerrors.IsDuplicateKey(err):
			duplicate++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, success)
	assert.Equal(t, 1, duplicate)
}

func TestPostgres_CompositeUniqueConstraints(t *testing.T) {
	repo := newPGRepo(t)
	f := seedFixture(t, repo)
	ctx := context.Background()

	dupClass := &model.ClassList{
		BranchID:  f.branch.BranchID,
		CourseID:  f.course.CourseID,
		ClassType: model.ClassTypeOnline,
		Semester:  f.class.Semester,
		StartDate: f.class.StartDate,
	}
	assert.True(t, pkgerrors.IsDuplicateKey(repo.Class.Create(ctx, dupClass)))

	createCourseRecord(t, repo, f, 1)
	dupRecord := &model.CourseRecord{ClassID: f.class.ClassID, DayNum: 1, TeacherID: f.profile.ProfileID, Outline: "重复"}
	assert.True(t, pkgerrors.IsDuplicateKey(repo.CourseRecord.Create(ctx, dupRecord)))

	customer := createCustomer(t, repo, f, "10001")
	createEnrollment(t, repo, f, customer)
	dupEnrollment := &model.Enrollment{CustomerID: customer.CustomerID, ClassID: f.class.ClassID, ConsultantID: f.profile.ProfileID}
	assert.True(t, pkgerrors.IsDuplicateKey(repo.Enrollment.Create(ctx, dupEnrollment)))
}

// ═══════════════════════════════════════════════════════════
// CHECK / 外键策略
// ═══════════════════════════════════════════════════════════

func TestPostgres_ScoreCheckConstraint(t *testing.T) {
	repo := newPGRepo(t)
	f := seedFixture(t, repo)
	customer := createCustomer(t, repo, f, "20001")
	enrollment := createEnrollment(t, repo, f, customer)
	record := createCourseRecord(t, repo, f, 1)

	// 绕过模型钩子直接写库，由 CHECK 约束拦截
	err := pgDB.Exec(
		`INSERT INTO study_records (enrollment_id, course_record_id, attendance, score) VALUES (?, ?, 0, 50)`,
		enrollment.EnrollmentID, record.RecordID,
	).Error
	assert.Error(t, err)

	err = pgDB.Exec(
		`INSERT INTO study_records (enrollment_id, course_record_id, attendance, score) VALUES (?, ?, 0, -50)`,
		enrollment.EnrollmentID, record.RecordID,
	).Error
	assert.NoError(t, err)
}

func TestPostgres_CourseDeleteNullsConsultCourse(t *testing.T) {
	repo := newPGRepo(t)
	ctx := context.Background()
	f := seedFixture(t, repo)

	other := &model.Course{Name: "Go 高级", Price: 12800, PeriodMonths: 4, Outline: "..."}
	require.NoError(t, repo.Course.Create(ctx, other))

	c := newCustomer(f, "30001")
	c.ConsultCourseID = &other.CourseID
	require.NoError(t, repo.Customer.Create(ctx, c))

	require.NoError(t, repo.Course.Delete(ctx, other.CourseID))

	found, err := repo.Customer.GetByID(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Nil(t, found.ConsultCourseID)
}

func TestPostgres_BranchDeleteCascadesClasses(t *testing.T) {
	repo := newPGRepo(t)
	ctx := context.Background()
	f := seedFixture(t, repo)

	require.NoError(t, repo.Branch.Delete(ctx, f.branch.BranchID))

	_, err := repo.Class.GetByID(ctx, f.class.ClassID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// ═══════════════════════════════════════════════════════════
// 事务
// ═══════════════════════════════════════════════════════════

func TestPostgres_TransactionRollback(t *testing.T) {
	repo := newPGRepo(t)
	ctx := context.Background()
	f := seedFixture(t, repo)

	var created *model.Customer
	err := repo.Transaction(ctx, func(txRepo *Repository) error {
		created = newCustomer(f, "40001")
		if err := txRepo.Customer.Create(ctx, created); err != nil {
			return err
		}
		return fmt.Errorf("中止")
	})
	require.Error(t, err)

	_, err = repo.Customer.GetByID(ctx, created.CustomerID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostgres_TransactionCommit(t *testing.T) {
	repo := newPGRepo(t)
	ctx := context.Background()
	f := seedFixture(t, repo)

	c := newCustomer(f, "40002")
	require.NoError(t, repo.Transaction(ctx, func(txRepo *Repository) error {
		return txRepo.Customer.Create(ctx, c)
	}))

	found, err := repo.Customer.GetByID(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "40002", found.ContactID)
	require.NoError(t, repo.Ping(ctx))
}

func TestPostgres_MigrationsRollback(t *testing.T) {
	sqlDB, err := pgDB.DB()
	require.NoError(t, err)

	require.NoError(t, database.RollbackMigrations(sqlDB))
	var n int64
	require.NoError(t, pgDB.Raw(`SELECT count(*) FROM information_schema.tables WHERE table_name = 'customers'`).Scan(&n).Error)
	assert.Zero(t, n)

	require.NoError(t, database.RunMigrations(sqlDB, zap.NewNop()))
	require.NoError(t, pgDB.Raw(`SELECT count(*) FROM information_schema.tables WHERE table_name = 'customers'`).Scan(&n).Error)
	assert.Equal(t, int64(1), n)

	// 内置角色随迁移写入
	require.NoError(t, pgDB.Raw(`SELECT count(*) FROM roles WHERE name IN ('admin', 'sales', 'teacher')`).Scan(&n).Error)
	assert.Equal(t, int64(3), n)
}
