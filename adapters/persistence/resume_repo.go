package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
	"github.com/niyatisanja0206/resume-builder/pkg/apperror"
	"github.com/niyatisanja0206/resume-builder/pkg/logger"
)

type postgresResumeRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresResumeRepo(db *pgxpool.Pool, logger logger.Logger) resume.Repository {
	return &postgresResumeRepo{db: db, logger: logger}
}

var psqlResume = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const resumeColumns = `id, user_email, title, status, download_count,
	basic, education, experience, projects, skills, created_at, updated_at`

func scanResume(row pgx.Row, l logger.Logger) (*resume.Resume, error) {
	r := &resume.Resume{}
	var basicBytes, educationBytes, experienceBytes, projectsBytes, skillsBytes []byte

	err := row.Scan(
		&r.ID,
		&r.UserEmail,
		&r.Title,
		&r.Status,
		&r.DownloadCount,
		&basicBytes,
		&educationBytes,
		&experienceBytes,
		&projectsBytes,
		&skillsBytes,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("resume", "")
		}
		return nil, apperror.NewInternal("failed to scan resume row", err)
	}

	unmarshalSection := func(raw []byte, dst any, name string) {
		if raw == nil {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			l.Warn("Failed to unmarshal resume section",
				zap.String("resume_id", r.ID.String()),
				zap.String("section", name),
				zap.Error(err))
		}
	}
	unmarshalSection(basicBytes, &r.Basic, "basic")
	unmarshalSection(educationBytes, &r.Education, "education")
	unmarshalSection(experienceBytes, &r.Experience, "experience")
	unmarshalSection(projectsBytes, &r.Projects, "projects")
	unmarshalSection(skillsBytes, &r.Skills, "skills")

	return r, nil
}

func (repo *postgresResumeRepo) Create(ctx context.Context, userEmail, title string) (*resume.Resume, error) {
	now := time.Now().UTC()
	r := &resume.Resume{
		ID:        uuid.New(),
		UserEmail: userEmail,
		Title:     title,
		Status:    resume.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO resumes (id, user_email, title, status, download_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
	`
	_, err := repo.db.Exec(ctx, query, r.ID, r.UserEmail, r.Title, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return nil, apperror.NewInternal("failed to create resume", err)
	}
	return r, nil
}

func (repo *postgresResumeRepo) FindByID(ctx context.Context, id uuid.UUID, userEmail string) (*resume.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_email = $2`
	r, err := scanResume(repo.db.QueryRow(ctx, query, id, userEmail), repo.logger)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("resume", id.String())
		}
		return nil, err
	}
	return r, nil
}

func (repo *postgresResumeRepo) FindCurrentDraft(ctx context.Context, userEmail string) (*resume.Resume, error) {
	query := `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE user_email = $1 AND status = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`
	r, err := scanResume(repo.db.QueryRow(ctx, query, userEmail, resume.StatusDraft), repo.logger)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("resume", "current draft for "+userEmail)
		}
		return nil, err
	}
	return r, nil
}

// SaveSection writes only the named section column plus updated_at; fields
// omitted from the call are left untouched server-side.
func (repo *postgresResumeRepo) SaveSection(ctx context.Context, id uuid.UUID, userEmail string, name resume.SectionName, data json.RawMessage) error {
	if _, err := resume.ParseSectionName(string(name)); err != nil {
		return apperror.NewInvalidInput("unknown resume section", err)
	}

	query, args, err := psqlResume.Update("resumes").
		Set(string(name), []byte(data)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "user_email": userEmail}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build section update", err)
	}

	cmdTag, err := repo.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal("failed to save resume section", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("resume", id.String())
	}
	return nil
}

func (repo *postgresResumeRepo) ListByUser(ctx context.Context, userEmail string) ([]*resume.Resume, error) {
	query, args, err := psqlResume.
		Select("id", "user_email", "title", "status", "download_count",
			"basic", "education", "experience", "projects", "skills", "created_at", "updated_at").
		From("resumes").
		Where(sq.Eq{"user_email": userEmail}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build resume list query", err)
	}

	rows, err := repo.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to list resumes", err)
	}
	defer rows.Close()

	resumes := make([]*resume.Resume, 0)
	for rows.Next() {
		r, err := scanResume(rows, repo.logger)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating resume rows", err)
	}
	return resumes, nil
}

func (repo *postgresResumeRepo) Delete(ctx context.Context, id uuid.UUID, userEmail string) error {
	cmdTag, err := repo.db.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_email = $2`, id, userEmail)
	if err != nil {
		return apperror.NewInternal("failed to delete resume", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("resume", id.String())
	}
	return nil
}

func (repo *postgresResumeRepo) DeleteAllByUser(ctx context.Context, userEmail string) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM resumes WHERE user_email = $1`, userEmail)
	if err != nil {
		return apperror.NewInternal("failed to delete user resumes", err)
	}
	return nil
}

// IncrementDownloadCount bumps one document's counter, or the most recent
// document when no id is given. With zero documents this is a no-op: the
// attempt is still recorded through the event stream.
func (repo *postgresResumeRepo) IncrementDownloadCount(ctx context.Context, userEmail string, id *uuid.UUID) error {
	var err error
	if id != nil {
		_, err = repo.db.Exec(ctx, `
			UPDATE resumes SET download_count = download_count + 1
			WHERE id = $1 AND user_email = $2`, *id, userEmail)
	} else {
		_, err = repo.db.Exec(ctx, `
			UPDATE resumes SET download_count = download_count + 1
			WHERE id = (
				SELECT id FROM resumes WHERE user_email = $1
				ORDER BY updated_at DESC LIMIT 1
			)`, userEmail)
	}
	if err != nil {
		return apperror.NewInternal("failed to increment download count", err)
	}
	return nil
}

func (repo *postgresResumeRepo) StatsByUser(ctx context.Context, userEmail string) (*resume.Stats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(download_count), 0)
		FROM resumes
		WHERE user_email = $1
	`
	stats := &resume.Stats{}
	err := repo.db.QueryRow(ctx, query, userEmail).Scan(&stats.NoOfResumes, &stats.ResumeDownloaded)
	if err != nil {
		return nil, apperror.NewInternal("failed to query user stats", err)
	}
	return stats, nil
}
