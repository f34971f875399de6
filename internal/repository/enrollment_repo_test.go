package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefect-crm/internal/model"
	pkgerrors "prefect-crm/pkg/errors"
)

func TestEnrollmentRepo_UniqueCustomerClass(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()
	c := createCustomer(t, repo, f, "60001")

	e := createEnrollment(t, repo, f, c)
	assert.False(t, e.ContractAgreed)
	assert.False(t, e.ContractApproved)
	assert.False(t, e.Date.IsZero())

	err := repo.Enrollment.Create(ctx, &model.Enrollment{
		CustomerID:   c.CustomerID,
		ClassID:      f.class.ClassID,
		ConsultantID: f.profile.ProfileID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateKey(err))

	exists, err := repo.Enrollment.Exists(ctx, c.CustomerID, f.class.ClassID)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.Enrollment.GetByID(ctx, e.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, "60001 北京校区 Python自动化 1", got.String())
}

func TestStudyRecordRepo_UniquePairAndBatch(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()

	e1 := createEnrollment(t, repo, f, createCustomer(t, repo, f, "70001"))
	e2 := createEnrollment(t, repo, f, createCustomer(t, repo, f, "70002"))
	cr := createCourseRecord(t, repo, f, 1)

	single := &model.StudyRecord{EnrollmentID: e1.EnrollmentID, CourseRecordID: cr.RecordID, Score: model.ScoreA}
	require.NoError(t, repo.StudyRecord.Create(ctx, single))

	err := repo.StudyRecord.Create(ctx, &model.StudyRecord{
		EnrollmentID: e1.EnrollmentID, CourseRecordID: cr.RecordID, Score: model.ScoreB,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateKey(err))

	batch := func() []model.StudyRecord {
		return []model.StudyRecord{
			{EnrollmentID: e1.EnrollmentID, CourseRecordID: cr.RecordID, Score: model.ScoreNA},
			{EnrollmentID: e2.EnrollmentID, CourseRecordID: cr.RecordID, Score: model.ScoreNA},
		}
	}

	n, err := repo.StudyRecord.BatchCreate(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "已存在的组合应被跳过")

	n, err = repo.StudyRecord.BatchCreate(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	records, err := repo.StudyRecord.ListByCourseRecord(ctx, cr.RecordID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// 原有成绩未被覆盖
	got, err := repo.StudyRecord.GetByID(ctx, single.StudyRecordID)
	require.NoError(t, err)
	assert.Equal(t, model.ScoreA, got.Score)
}

func TestStudyRecordRepo_InvalidScore(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	e := createEnrollment(t, repo, f, createCustomer(t, repo, f, "80001"))
	cr := createCourseRecord(t, repo, f, 1)

	err := repo.StudyRecord.Create(context.Background(), &model.StudyRecord{
		EnrollmentID:   e.EnrollmentID,
		CourseRecordID: cr.RecordID,
		Score:          model.Score(55),
	})
	assert.ErrorIs(t, err, model.ErrInvalidScore)
}

func TestStudyRecordRepo_ListByEnrollmentOrdered(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()
	e := createEnrollment(t, repo, f, createCustomer(t, repo, f, "90001"))

	for _, day := range []int{3, 1, 2} {
		cr := createCourseRecord(t, repo, f, day)
		require.NoError(t, repo.StudyRecord.Create(ctx, &model.StudyRecord{
			EnrollmentID: e.EnrollmentID, CourseRecordID: cr.RecordID, Score: model.ScoreC,
		}))
	}

	records, err := repo.StudyRecord.ListByEnrollment(ctx, e.EnrollmentID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, r := range records {
		require.NotNil(t, r.CourseRecord)
		assert.Equal(t, i+1, r.CourseRecord.DayNum)
	}

	byClass, err := repo.StudyRecord.ListByClass(ctx, f.class.ClassID)
	require.NoError(t, err)
	assert.Len(t, byClass, 3)
}

func TestPaymentRepo_DefaultAmount(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	f := seedFixture(t, repo)
	ctx := context.Background()
	c := createCustomer(t, repo, f, "95001")

	p := &model.Payment{CustomerID: c.CustomerID, CourseID: f.course.CourseID, ConsultantID: f.profile.ProfileID}
	require.NoError(t, repo.Payment.Create(ctx, p))

	got, err := repo.Payment.GetByID(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Amount)
	assert.Equal(t, "95001 500", got.String())

	list, total, err := repo.Payment.List(ctx, c.CustomerID, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
