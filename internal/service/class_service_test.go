package service

import (
	"bytes"
	"context"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prefect-crm/internal/dto"
	"prefect-crm/internal/model"
)

func TestClassService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := func() *dto.CreateClassRequest {
		return &dto.CreateClassRequest{
			BranchID:  env.branch.BranchID,
			CourseID:  env.course.CourseID,
			ClassType: intPtr(int(model.ClassTypeOnline)),
			Semester:  2,
			StartDate: "2026-05-01",
		}
	}

	t.Run("结业日期早于开班日期", func(t *testing.T) {
		req := base()
		req.EndDate = strPtr("2026-04-01")
		_, err := env.svc.Class.Create(ctx, req, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrClassDateRange)
	})

	t.Run("同校区同课程同学期重复", func(t *testing.T) {
		req := base()
		req.Semester = 1
		_, err := env.svc.Class.Create(ctx, req, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrClassListExists)
	})

	t.Run("讲师不存在", func(t *testing.T) {
		req := base()
		req.TeacherIDs = []string{"00000000-0000-0000-0000-000000000000"}
		_, err := env.svc.Class.Create(ctx, req, env.admin.ProfileID)
		assert.ErrorIs(t, err, ErrTeacherNotFound)
	})

	t.Run("成功", func(t *testing.T) {
		req := base()
		req.EndDate = strPtr("2026-10-01")
		req.TeacherIDs = []string{env.admin.ProfileID}
		resp, err := env.svc.Class.Create(ctx, req, env.admin.ProfileID)
		require.NoError(t, err)
		assert.Equal(t, "北京校区 Python自动化 2", resp.DisplayName)
		assert.Equal(t, "网络班", resp.ClassTypeLabel)
		assert.Equal(t, "2026-10-01", resp.EndDate)
		require.Len(t, resp.Teachers, 1)
	})
}

func TestClassService_UpdateAndTeachers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Class.Update(ctx, env.class.ClassID, &dto.UpdateClassRequest{
		EndDate: strPtr("2026-02-01"),
	}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrClassDateRange)
	assert.Nil(t, resp)

	resp, err = env.svc.Class.Update(ctx, env.class.ClassID, &dto.UpdateClassRequest{
		Semester: intPtr(3),
		EndDate:  strPtr("2026-08-01"),
	}, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Semester)

	resp, err = env.svc.Class.Update(ctx, env.class.ClassID, &dto.UpdateClassRequest{ClearEndDate: true}, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Empty(t, resp.EndDate)

	teacher := createTestProfile(t, env.repo, "tina", "Teach@123", false)
	resp, err = env.svc.Class.SetTeachers(ctx, env.class.ClassID, &dto.SetTeachersRequest{TeacherIDs: []string{teacher.ProfileID}})
	require.NoError(t, err)
	require.Len(t, resp.Teachers, 1)
	assert.Equal(t, "tina", resp.Teachers[0].Name)

	resp, err = env.svc.Class.SetTeachers(ctx, env.class.ClassID, &dto.SetTeachersRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Teachers)
}

func TestClassService_ExportCalendar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.svc.Class.ExportCalendar(ctx, env.class.ClassID)
	assert.ErrorIs(t, err, ErrCalendarNoSessions)

	day1 := env.createSession(t, 1)
	_, err = env.svc.CourseRecord.Create(ctx, &dto.CreateCourseRecordRequest{
		ClassID:       env.class.ClassID,
		DayNum:        2,
		Outline:       "函数",
		HomeworkTitle: strPtr("计算器"),
		Date:          strPtr("2026-03-08"),
	}, env.admin.ProfileID)
	require.NoError(t, err)

	data, filename, err := env.svc.Class.ExportCalendar(ctx, env.class.ClassID)
	require.NoError(t, err)
	assert.Equal(t, "北京校区_Python自动化_1.ics", filename)

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, day1.ID+"@prefect-crm", events[0].Id())
	assert.Equal(t, "北京校区 Python自动化 1 第1天", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "海淀区中关村", events[0].GetProperty(ics.ComponentPropertyLocation).Value)

	start := events[1].GetProperty(ics.ComponentPropertyDtStart)
	require.NotNil(t, start)
	assert.Equal(t, "20260308", start.Value)

	_, _, err = env.svc.Class.ExportCalendar(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestCourseService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Course.Create(ctx, &dto.CreateCourseRequest{
		Name: "Python自动化", Price: 1, PeriodMonths: 1, Outline: "x",
	}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrCourseNameExists)

	linux, err := env.svc.Course.Create(ctx, &dto.CreateCourseRequest{
		Name: "Linux运维", Price: 6800, PeriodMonths: 4, Outline: "shell",
	}, env.admin.ProfileID)
	require.NoError(t, err)

	list, err := env.svc.Course.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	updated, err := env.svc.Course.Update(ctx, linux.ID, &dto.UpdateCourseRequest{Price: intPtr(7200)}, env.admin.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, 7200, updated.Price)

	_, err = env.svc.Course.Update(ctx, linux.ID, &dto.UpdateCourseRequest{Name: strPtr("Python自动化")}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrCourseNameExists)

	require.NoError(t, env.svc.Course.Delete(ctx, linux.ID))
	_, err = env.svc.Course.GetByID(ctx, linux.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseService_DeleteNullsConsultCourse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	linux, err := env.svc.Course.Create(ctx, &dto.CreateCourseRequest{
		Name: "Linux运维", Price: 6800, PeriodMonths: 4, Outline: "shell",
	}, env.admin.ProfileID)
	require.NoError(t, err)

	c, err := env.svc.Customer.Create(ctx, &dto.CreateCustomerRequest{
		ContactID:       "60001",
		Source:          intPtr(int(model.SourceWebsite)),
		ConsultCourseID: &linux.ID,
		Content:         "咨询 Linux",
	}, env.admin.ProfileID)
	require.NoError(t, err)
	require.NotNil(t, c.ConsultCourse)

	require.NoError(t, env.svc.Course.Delete(ctx, linux.ID))

	got, err := env.svc.Customer.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ConsultCourse)
}

func TestBranchService_NameUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Branch.Create(ctx, &dto.CreateBranchRequest{Name: "北京校区", Address: "x"}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrBranchNameExists)

	sh, err := env.svc.Branch.Create(ctx, &dto.CreateBranchRequest{Name: "上海校区", Address: "浦东"}, env.admin.ProfileID)
	require.NoError(t, err)

	_, err = env.svc.Branch.Update(ctx, sh.ID, &dto.UpdateBranchRequest{Name: strPtr("北京校区")}, env.admin.ProfileID)
	assert.ErrorIs(t, err, ErrBranchNameExists)

	// 删除校区级联删除班级
	require.NoError(t, env.svc.Branch.Delete(ctx, env.branch.BranchID))
	_, err = env.svc.Class.GetByID(ctx, env.class.ClassID)
	assert.ErrorIs(t, err, ErrClassNotFound)
}
