package domain

import "time"

// OnboardingStatus derives from task completion.
type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "NOT_STARTED"
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingCompleted  OnboardingStatus = "COMPLETED"
)

// OnboardingTask is one checklist item.
type OnboardingTask struct {
	ID          string
	ProcessID   string
	Title       string
	Assignee    string
	DueDate     *time.Time
	Completed   bool
	CompletedAt *time.Time
	Position    int
}

// OnboardingProcess groups the checklist for a new hire.
type OnboardingProcess struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	Status     OnboardingStatus
	Tasks      []OnboardingTask
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Progress returns the completed fraction in [0,1].
func (p OnboardingProcess) Progress() float64 {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, task := range p.Tasks {
		if task.Completed {
			done++
		}
	}
	return float64(done) / float64(len(p.Tasks))
}

// DeriveStatus computes the status from the task list.
func (p OnboardingProcess) DeriveStatus() OnboardingStatus {
	progress := p.Progress()
	switch {
	case len(p.Tasks) > 0 && progress == 1:
		return OnboardingCompleted
	case progress > 0:
		return OnboardingInProgress
	default:
		return OnboardingNotStarted
	}
}
