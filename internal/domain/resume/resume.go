package resume

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// SectionName identifies one independently saved part of a resume.
type SectionName string

const (
	SectionBasic      SectionName = "basic"
	SectionEducation  SectionName = "education"
	SectionExperience SectionName = "experience"
	SectionProjects   SectionName = "projects"
	SectionSkills     SectionName = "skills"
)

var AllSections = []SectionName{
	SectionBasic,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
}

func ParseSectionName(s string) (SectionName, error) {
	for _, name := range AllSections {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown resume section %q", s)
}

type BasicInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

// EndDate is nil while the entry is ongoing.
type Education struct {
	Institution string  `json:"institution"`
	Degree      string  `json:"degree"`
	Grade       string  `json:"grade"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
}

type Experience struct {
	Company       string   `json:"company"`
	Position      string   `json:"position"`
	Description   string   `json:"description"`
	StartDate     string   `json:"start_date"`
	EndDate       *string  `json:"end_date,omitempty"`
	SkillsLearned []string `json:"skills_learned"`
}

type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        *string  `json:"link,omitempty"`
	TechStack   []string `json:"tech_stack"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Resume is the durable document. ID is immutable once assigned and
// DownloadCount moves only through the download event path, never through
// preview or save.
type Resume struct {
	ID            uuid.UUID    `json:"id"`
	UserEmail     string       `json:"user_email"`
	Title         string       `json:"title"`
	Status        Status       `json:"status"`
	DownloadCount int          `json:"download_count"`
	Basic         *BasicInfo   `json:"basic,omitempty"`
	Education     []Education  `json:"education,omitempty"`
	Experience    []Experience `json:"experience,omitempty"`
	Projects      []Project    `json:"projects,omitempty"`
	Skills        []Skill      `json:"skills,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ApplySection overlays one section payload onto the document in place.
// Used by the save coordinator for optimistic patching of the cached view;
// the database merge is authoritative.
func (r *Resume) ApplySection(name SectionName, data json.RawMessage) error {
	switch name {
	case SectionBasic:
		var b BasicInfo
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode basic section: %w", err)
		}
		r.Basic = &b
	case SectionEducation:
		var e []Education
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decode education section: %w", err)
		}
		r.Education = e
	case SectionExperience:
		var e []Experience
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decode experience section: %w", err)
		}
		r.Experience = e
	case SectionProjects:
		var p []Project
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decode projects section: %w", err)
		}
		r.Projects = p
	case SectionSkills:
		var s []Skill
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode skills section: %w", err)
		}
		r.Skills = s
	default:
		return fmt.Errorf("unknown resume section %q", name)
	}
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Stats is the per-user aggregate surfaced by the user-stats endpoint.
type Stats struct {
	NoOfResumes      int `json:"no_of_resumes"`
	ResumeDownloaded int `json:"resume_downloaded"`
}

type Repository interface {
	// Create allocates a fresh draft document for the user.
	Create(ctx context.Context, userEmail, title string) (*Resume, error)
	FindByID(ctx context.Context, id uuid.UUID, userEmail string) (*Resume, error)
	// FindCurrentDraft returns the most recently updated draft for the user.
	FindCurrentDraft(ctx context.Context, userEmail string) (*Resume, error)
	SaveSection(ctx context.Context, id uuid.UUID, userEmail string, name SectionName, data json.RawMessage) error
	ListByUser(ctx context.Context, userEmail string) ([]*Resume, error)
	Delete(ctx context.Context, id uuid.UUID, userEmail string) error
	DeleteAllByUser(ctx context.Context, userEmail string) error
	IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error
	StatsByUser(ctx context.Context, userEmail string) (*Stats, error)
}
