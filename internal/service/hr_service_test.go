package service

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
)

func newHRFixture() (*HRService, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	svc := NewHRService(HRDependencies{
		DepartmentRepo: newFakeDepartments(),
		EmployeeRepo:   newFakeEmployees(),
		OnboardingRepo: newFakeOnboarding(),
		Dispatcher:     dispatcher,
		Clock:          clockwork.NewFakeClockAt(time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)),
	})
	return svc, dispatcher
}

func TestEmployeeLifecycle(t *testing.T) {
	svc, dispatcher := newHRFixture()
	ctx := context.Background()
	hr := Actor{UserID: "u-hr", Role: domain.RoleHR}

	dept, err := svc.CreateDepartment(ctx, DepartmentInput{Name: "Finance"})
	require.NoError(t, err)
	assert.True(t, dept.IsActive)

	emp, err := svc.CreateEmployee(ctx, hr, EmployeeInput{
		EmployeeCode: " e-001 ",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ADA@Example.com",
		DepartmentID: strPtr(dept.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "E-001", emp.EmployeeCode)
	assert.Equal(t, "ada@example.com", emp.Email)
	assert.Equal(t, domain.EmployeeStatusActive, emp.Status)
	assert.Equal(t, date(2024, time.February, 1), emp.HireDate)

	_, err = svc.UpdateDepartment(ctx, dept.ID, DepartmentInput{HeadEmployeeID: strPtr(emp.ID)})
	require.NoError(t, err)

	_, err = svc.UpdateEmployee(ctx, emp.ID, EmployeeInput{ManagerID: strPtr(emp.ID)})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	terminated, err := svc.TerminateEmployee(ctx, hr, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusTerminated, terminated.Status)

	stored, err := svc.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeeStatusTerminated, stored.Status)

	assert.Equal(t, []events.EventType{events.EventEmployeeHired, events.EventEmployeeTerminated}, dispatcher.types())
}

func TestEmployeeReferencesMustExist(t *testing.T) {
	svc, _ := newHRFixture()
	ctx := context.Background()

	_, err := svc.CreateEmployee(ctx, Actor{}, EmployeeInput{
		EmployeeCode: "E-1", FirstName: "A", Email: "a@x.io", DepartmentID: strPtr("missing"),
	})
	assert.Equal(t, "NOT_FOUND", code(t, err))

	_, err = svc.CreateDepartment(ctx, DepartmentInput{Name: "Ops", HeadEmployeeID: strPtr("missing")})
	assert.Equal(t, "NOT_FOUND", code(t, err))

	_, err = svc.CreateEmployee(ctx, Actor{}, EmployeeInput{FirstName: "A"})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))
}

func TestOnboardingDefaultChecklistAndProgress(t *testing.T) {
	svc, dispatcher := newHRFixture()
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, Actor{}, EmployeeInput{EmployeeCode: "E-2", FirstName: "Linus", Email: "l@x.io"})
	require.NoError(t, err)

	process, err := svc.StartOnboarding(ctx, OnboardingInput{EmployeeID: emp.ID})
	require.NoError(t, err)
	require.Len(t, process.Tasks, len(DefaultOnboardingChecklist))
	assert.Equal(t, domain.OnboardingNotStarted, process.Status)
	assert.Equal(t, emp.HireDate, process.StartDate)

	process, err = svc.CompleteOnboardingTask(ctx, Actor{}, process.ID, process.Tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OnboardingInProgress, process.Status)
	assert.InDelta(t, 0.2, process.Progress(), 0.0001)

	for _, task := range process.Tasks[1:] {
		process, err = svc.CompleteOnboardingTask(ctx, Actor{}, process.ID, task.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, domain.OnboardingCompleted, process.Status)
	assert.Contains(t, dispatcher.types(), events.EventOnboardingCompleted)

	_, err = svc.CompleteOnboardingTask(ctx, Actor{}, process.ID, "nope")
	assert.Equal(t, "NOT_FOUND", code(t, err))
}

func TestOnboardingCustomTasks(t *testing.T) {
	svc, _ := newHRFixture()
	ctx := context.Background()
	emp, err := svc.CreateEmployee(ctx, Actor{}, EmployeeInput{EmployeeCode: "E-3", FirstName: "Ken", Email: "k@x.io"})
	require.NoError(t, err)

	_, err = svc.StartOnboarding(ctx, OnboardingInput{EmployeeID: emp.ID, Tasks: []OnboardingTaskInput{{Title: ""}}})
	assert.Equal(t, "VALIDATION_FAILED", code(t, err))

	process, err := svc.StartOnboarding(ctx, OnboardingInput{
		EmployeeID: emp.ID,
		StartDate:  date(2024, 3, 1),
		Tasks:      []OnboardingTaskInput{{Title: "Laptop", Assignee: "IT"}},
	})
	require.NoError(t, err)
	require.Len(t, process.Tasks, 1)
	assert.Equal(t, "IT", process.Tasks[0].Assignee)
	assert.Equal(t, date(2024, 3, 1), process.StartDate)
}
