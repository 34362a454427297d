package domain

import (
	"io"
	"time"

	"github.com/focitech/focitech-backend/internal/store"
)

const (
	JobsTable         = "jobs"
	ApplicationsTable = "job_applications"
)

type Job struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title"`
	Department          string     `json:"department"`
	Location            string     `json:"location"`
	JobType             string     `json:"job_type"`
	SalaryRange         *string    `json:"salary_range"`
	ExperienceRequired  *string    `json:"experience_required"`
	EducationRequired   *string    `json:"education_required"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Benefits            *string    `json:"benefits"`
	IsActive            bool       `json:"is_active"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	PostedDate          time.Time  `json:"posted_date"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

type CreateJobRequest struct {
	Title               string     `json:"title" validate:"required,min=3,max=200"`
	Department          string     `json:"department" validate:"required,min=2,max=100"`
	Location            string     `json:"location" validate:"required,min=2,max=100"`
	JobType             string     `json:"job_type" validate:"required,oneof=full-time part-time contract internship remote hybrid"`
	SalaryRange         *string    `json:"salary_range" validate:"omitempty,max=100"`
	ExperienceRequired  *string    `json:"experience_required" validate:"omitempty,min=1,max=100"`
	EducationRequired   *string    `json:"education_required" validate:"omitempty,max=200"`
	Description         string     `json:"description" validate:"required,min=20,max=10000"`
	Requirements        string     `json:"requirements" validate:"required,notblank"`
	Benefits            *string    `json:"benefits" validate:"omitempty,max=5000"`
	IsActive            *bool      `json:"is_active"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

func (r CreateJobRequest) Record() store.Record {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return store.Record{
		"title":                r.Title,
		"department":           r.Department,
		"location":             r.Location,
		"job_type":             r.JobType,
		"salary_range":         r.SalaryRange,
		"experience_required":  r.ExperienceRequired,
		"education_required":   r.EducationRequired,
		"description":          r.Description,
		"requirements":         r.Requirements,
		"benefits":             r.Benefits,
		"is_active":            active,
		"application_deadline": r.ApplicationDeadline,
	}
}

type UpdateJobRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Department          *string    `json:"department" validate:"omitempty,min=2,max=100"`
	Location            *string    `json:"location" validate:"omitempty,min=2,max=100"`
	JobType             *string    `json:"job_type" validate:"omitempty,oneof=full-time part-time contract internship remote hybrid"`
	SalaryRange         *string    `json:"salary_range" validate:"omitempty,max=100"`
	ExperienceRequired  *string    `json:"experience_required" validate:"omitempty,min=1,max=100"`
	EducationRequired   *string    `json:"education_required" validate:"omitempty,max=200"`
	Description         *string    `json:"description" validate:"omitempty,min=20,max=10000"`
	Requirements        *string    `json:"requirements" validate:"omitempty,notblank"`
	Benefits            *string    `json:"benefits" validate:"omitempty,max=5000"`
	IsActive            *bool      `json:"is_active"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

func (r UpdateJobRequest) Patch() store.Record {
	p := store.Record{}
	for key, v := range map[string]*string{
		"title":               r.Title,
		"department":          r.Department,
		"location":            r.Location,
		"job_type":            r.JobType,
		"salary_range":        r.SalaryRange,
		"experience_required": r.ExperienceRequired,
		"education_required":  r.EducationRequired,
		"description":         r.Description,
		"requirements":        r.Requirements,
		"benefits":            r.Benefits,
	} {
		if v != nil {
			p[key] = *v
		}
	}
	if r.IsActive != nil {
		p["is_active"] = *r.IsActive
	}
	if r.ApplicationDeadline != nil {
		p["application_deadline"] = *r.ApplicationDeadline
	}
	return p
}

// JobFilter narrows opening lists. Active nil means both states (admin only).
type JobFilter struct {
	Department string
	Location   string
	JobType    string
	Active     *bool
}

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewing   ApplicationStatus = "reviewing"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewing, StatusShortlisted, StatusRejected, StatusHired,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Application struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           *string           `json:"phone"`
	CoverLetter     *string           `json:"cover_letter"`
	PortfolioURL    *string           `json:"portfolio_url"`
	ResumeURL       string            `json:"resume_url"`
	ResumeFilename  string            `json:"resume_filename"`
	JobID           int64             `json:"job_id"`
	JobTitle        string            `json:"job_title"`
	JobDepartment   *string           `json:"job_department"`
	JobType         *string           `json:"job_type"`
	Status          ApplicationStatus `json:"status"`
	InternalNotes   *string           `json:"internal_notes"`
	Source          *string           `json:"source"`
	AppliedAt       time.Time         `json:"applied_at"`
	StatusUpdatedAt *time.Time        `json:"status_updated_at"`
}

// ApplyRequest is the multipart application form without the file.
type ApplyRequest struct {
	Name         string  `form:"name" validate:"required,min=2,max=255"`
	Email        string  `form:"email" validate:"required,email"`
	Phone        *string `form:"phone" validate:"omitempty,phone"`
	CoverLetter  *string `form:"cover_letter" validate:"omitempty,max=5000"`
	PortfolioURL *string `form:"portfolio_url" validate:"omitempty,urlprefix"`
	JobID        int64   `form:"job_id" validate:"required,min=1"`
	JobTitle     string  `form:"job_title" validate:"required,min=2,max=200"`
}

// Resume is the uploaded file as received from the client.
type Resume struct {
	Filename    string
	Size        int64
	ContentType string
	Body        io.Reader
}

type UpdateApplicationRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending reviewing shortlisted rejected hired"`
	InternalNotes *string `json:"internal_notes" validate:"omitempty,max=5000"`
}

type ApplicationFilter struct {
	Status ApplicationStatus
	JobID  *int64
	Search string
}

type Stats struct {
	TotalApplications   int            `json:"total_applications"`
	PendingApplications int            `json:"pending_applications"`
	ActiveOpenings      int            `json:"active_openings"`
	Departments         []string       `json:"departments"`
	StatusDistribution  map[string]int `json:"status_distribution"`
}
