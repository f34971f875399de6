package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prefect-crm/internal/model"
	pkgerrors "prefect-crm/pkg/errors"
)

func TestCustomerRepo_ContactIDUnique(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()

	first := newCustomer(f, "12345")
	second := newCustomer(f, "12345")

	require.NoError(t, repo.Customer.Create(ctx, first))
	err := repo.Customer.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateKey(err), "期望唯一约束冲突，实际: %v", err)

	exists, err := repo.Customer.ExistsByContactID(ctx, "12345", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Customer.ExistsByContactID(ctx, "12345", first.CustomerID)
	require.NoError(t, err)
	assert.False(t, exists, "排除自身后不应再命中")
}

func TestCustomerRepo_InvalidSourceRejected(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)

	c := newCustomer(f, "10001")
	c.Source = model.CustomerSource(9)

	err := repo.Customer.Create(context.Background(), c)
	assert.True(t, errors.Is(err, model.ErrInvalidSource))
}

func TestCustomerRepo_OptimisticLock(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()
	created := createCustomer(t, repo, f, "20001")

	a, err := repo.Customer.GetByID(ctx, created.CustomerID)
	require.NoError(t, err)
	b, err := repo.Customer.GetByID(ctx, created.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Version)

	a.Content = "第一次修改"
	require.NoError(t, repo.Customer.Update(ctx, a))
	assert.Equal(t, 2, a.Version)

	b.Content = "并发修改"
	err = repo.Customer.Update(ctx, b)
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)

	got, err := repo.Customer.GetByID(ctx, created.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "第一次修改", got.Content)
	assert.Equal(t, 2, got.Version)
}

func TestCustomerRepo_TagsAndFilters(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()

	vip := &model.Tag{Name: "VIP"}
	hot := &model.Tag{Name: "高意向"}
	require.NoError(t, repo.Tag.Create(ctx, vip))
	require.NoError(t, repo.Tag.Create(ctx, hot))

	c1 := createCustomer(t, repo, f, "30001")
	createCustomer(t, repo, f, "30002")

	require.NoError(t, repo.Customer.ReplaceTags(ctx, c1, []model.Tag{*vip, *hot}))

	got, err := repo.Customer.GetByID(ctx, c1.CustomerID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)

	list, total, err := repo.Customer.List(ctx, CustomerFilter{TagID: vip.TagID}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "30001", list[0].ContactID)

	_, total, err = repo.Customer.List(ctx, CustomerFilter{Keyword: "3000"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 空集合是合法状态
	require.NoError(t, repo.Customer.ReplaceTags(ctx, got, []model.Tag{}))
	got, err = repo.Customer.GetByID(ctx, c1.CustomerID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	// 删除标签同时移除关联
	require.NoError(t, repo.Customer.ReplaceTags(ctx, got, []model.Tag{*vip}))
	require.NoError(t, repo.Tag.Delete(ctx, vip.TagID))
	got, err = repo.Customer.GetByID(ctx, c1.CustomerID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestCourseDelete_NullsConsultCourse(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()

	other := &model.Course{Name: "Go 高级", Price: 12000, PeriodMonths: 4, Outline: "..."}
	require.NoError(t, repo.Course.Create(ctx, other))

	c := newCustomer(f, "40001")
	c.ConsultCourseID = &other.CourseID
	require.NoError(t, repo.Customer.Create(ctx, c))

	require.NoError(t, repo.Course.Delete(ctx, other.CourseID))

	got, err := repo.Customer.GetByID(ctx, c.CustomerID)
	require.NoError(t, err, "删除课程不应删除客户")
	assert.Nil(t, got.ConsultCourseID)
	assert.Nil(t, got.ConsultCourse)
}

func TestCustomerRepo_DeleteCascadesFollowUps(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()
	c := createCustomer(t, repo, f, "50001")

	require.NoError(t, repo.FollowUp.Create(ctx, &model.CustomerFollowUp{
		CustomerID:   c.CustomerID,
		Content:      "电话沟通",
		ConsultantID: f.profile.ProfileID,
		Intention:    model.IntentionTwoWeeks,
	}))

	require.NoError(t, repo.Customer.Delete(ctx, c.CustomerID))

	list, err := repo.FollowUp.ListByCustomer(ctx, c.CustomerID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ── sqlmock：数据库错误路径 ──

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewRepository(gormDB), mock, mockDB
}

func TestCustomerRepo_Update_StaleVersion(t *testing.T) {
	repo, mock, mockDB := newMockRepo(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c := &model.Customer{CustomerID: "c-1", ContactID: "1", Content: "x", ConsultantID: "p-1"}
	c.Version = 3

	err := repo.Customer.Update(context.Background(), c)
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)
	assert.Equal(t, 3, c.Version, "失败时版本号不变")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepo_GetByID_DBError(t *testing.T) {
	repo, mock, mockDB := newMockRepo(t)
	defer mockDB.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE customer_id = \$1`).
		WillReturnError(dbErr)

	_, err := repo.Customer.GetByID(context.Background(), "c-1")
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
