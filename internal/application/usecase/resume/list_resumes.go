package resume

import (
	"context"

	"github.com/niyatisanja0206/resume-builder/internal/domain/resume"
)

type ListResumesUseCase struct {
	resumeRepo resume.Repository
}

func NewListResumesUseCase(repo resume.Repository) *ListResumesUseCase {
	return &ListResumesUseCase{resumeRepo: repo}
}

type ListResumesInput struct {
	UserEmail string
}

type ListResumesOutput struct {
	Resumes []*resume.Resume
}

func (uc *ListResumesUseCase) Execute(ctx context.Context, input ListResumesInput) (*ListResumesOutput, error) {
	resumes, err := uc.resumeRepo.ListByUser(ctx, input.UserEmail)
	if err != nil {
		return nil, err
	}
	return &ListResumesOutput{Resumes: resumes}, nil
}
