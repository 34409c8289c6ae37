package http

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
)

// Auth DTOs
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type DeleteAccountRequest struct {
	Confirm string `json:"confirm"`
}

// Resume DTOs
type ResumeDTO struct {
	ID            uuid.UUID           `json:"id"`
	UserEmail     string              `json:"userEmail"`
	Title         string              `json:"title"`
	Status        string              `json:"status"`
	DownloadCount int                 `json:"downloadCount"`
	Basic         *resume.BasicInfo   `json:"basic,omitempty"`
	Education     []resume.Education  `json:"education,omitempty"`
	Experience    []resume.Experience `json:"experience,omitempty"`
	Projects      []resume.Project    `json:"projects,omitempty"`
	Skills        []resume.Skill      `json:"skills,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func ToResumeDTO(r *resume.Resume) ResumeDTO {
	return ResumeDTO{
		ID:            r.ID,
		UserEmail:     r.UserEmail,
		Title:         r.Title,
		Status:        string(r.Status),
		DownloadCount: r.DownloadCount,
		Basic:         r.Basic,
		Education:     r.Education,
		Experience:    r.Experience,
		Projects:      r.Projects,
		Skills:        r.Skills,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// SaveResumeRequest is a partial update: only the sections present in the
// body are written, everything else is left untouched server-side.
type SaveResumeRequest struct {
	ResumeID   *uuid.UUID      `json:"resumeId"`
	Basic      json.RawMessage `json:"basic,omitempty"`
	Education  json.RawMessage `json:"education,omitempty"`
	Experience json.RawMessage `json:"experience,omitempty"`
	Projects   json.RawMessage `json:"projects,omitempty"`
	Skills     json.RawMessage `json:"skills,omitempty"`
}

// Sections returns the payloads actually present in the request, keyed by
// section name.
func (req *SaveResumeRequest) Sections() map[resume.SectionName]json.RawMessage {
	out := make(map[resume.SectionName]json.RawMessage)
	if len(req.Basic) > 0 {
		out[resume.SectionBasic] = req.Basic
	}
	if len(req.Education) > 0 {
		out[resume.SectionEducation] = req.Education
	}
	if len(req.Experience) > 0 {
		out[resume.SectionExperience] = req.Experience
	}
	if len(req.Projects) > 0 {
		out[resume.SectionProjects] = req.Projects
	}
	if len(req.Skills) > 0 {
		out[resume.SectionSkills] = req.Skills
	}
	return out
}

type SaveResumeResponse struct {
	ResumeID uuid.UUID `json:"resumeId"`
}

type NewResumeResponse struct {
	ResumeID uuid.UUID `json:"resumeId"`
	Resume   ResumeDTO `json:"resume"`
}

type PurgeTemporaryRequest struct {
	UserEmail string `json:"userEmail" binding:"required"`
}

type DraftRequest struct {
	Data json.RawMessage `json:"data" binding:"required"`
}

// Stats DTOs
type StatsDTO struct {
	NoOfResumes      int `json:"no_of_resumes"`
	ResumeDownloaded int `json:"resume_downloaded"`
}

type IncrementDownloadRequest struct {
	Email      string     `json:"email" binding:"required"`
	ResumeID   *uuid.UUID `json:"resumeId"`
	TemplateID string     `json:"templateId"`
	Completed  *bool      `json:"completed"`
}

// Export DTOs
type ExportRequest struct {
	Email      string     `json:"email"`
	ResumeID   *uuid.UUID `json:"resumeId"`
	TemplateID string     `json:"template" binding:"required"`
}

func parseUUIDParam(raw string) (*uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewInvalidInput("resumeId is not a valid id", err)
	}
	return &id, nil
}
