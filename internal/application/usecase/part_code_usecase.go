package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// PartCodeUseCase CRUD del catálogo de códigos de repuesto.
type PartCodeUseCase struct {
	repo repository.PartCodeRepository
}

// NewPartCodeUseCase construye el caso de uso.
func NewPartCodeUseCase(repo repository.PartCodeRepository) *PartCodeUseCase {
	return &PartCodeUseCase{repo: repo}
}

// NormalizeCode forma canónica de un código de repuesto.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// List catálogo ordenado por código.
func (uc *PartCodeUseCase) List(ctx context.Context) ([]dto.PartCodeResponse, error) {
	codes, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartCodeResponse, 0, len(codes))
	for _, pc := range codes {
		out = append(out, toPartCodeResponse(pc))
	}
	return out, nil
}

// Create agrega un código nuevo.
func (uc *PartCodeUseCase) Create(ctx context.Context, in dto.PartCodeRequest) (*dto.PartCodeResponse, error) {
	code := NormalizeCode(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.Invalid("código y nombre son requeridos")
	}
	pc := &entity.PartCode{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, pc); err != nil {
		return nil, duplicateAsConflict(err)
	}
	resp := toPartCodeResponse(pc)
	return &resp, nil
}

// Update modifica los campos presentes.
func (uc *PartCodeUseCase) Update(ctx context.Context, id string, in dto.PartCodeRequest) (*dto.PartCodeResponse, error) {
	pc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return nil, fmt.Errorf("%w: código no encontrado", domain.ErrNotFound)
	}
	if code := NormalizeCode(in.Code); code != "" {
		pc.Code = code
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		pc.Name = name
	}
	if err := uc.repo.Update(ctx, pc); err != nil {
		return nil, duplicateAsConflict(err)
	}
	resp := toPartCodeResponse(pc)
	return &resp, nil
}

// Delete elimina un código.
func (uc *PartCodeUseCase) Delete(ctx context.Context, id string) error {
	pc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pc == nil {
		return fmt.Errorf("%w: código no encontrado", domain.ErrNotFound)
	}
	return uc.repo.Delete(ctx, id)
}

func duplicateAsConflict(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return fmt.Errorf("%w: el código ya existe", domain.ErrConflict)
	}
	return err
}

func toPartCodeResponse(pc *entity.PartCode) dto.PartCodeResponse {
	return dto.PartCodeResponse{ID: pc.ID, Code: pc.Code, Name: pc.Name, CreatedAt: pc.CreatedAt}
}
