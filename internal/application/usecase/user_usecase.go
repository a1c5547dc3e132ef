package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

const (
	minSearchLen = 2
	searchLimit  = 10
)

// UserUseCase consultas del directorio de usuarios (sin hashes ni tokens).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List todos los usuarios por nombre.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListActive usuarios sin una recuperación de contraseña en curso.
func (uc *UserUseCase) ListActive(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// Search por fragmento del nombre; máximo 10 resultados.
func (uc *UserUseCase) Search(ctx context.Context, term string) ([]dto.UserResponse, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minSearchLen {
		return nil, domain.Invalid("el término de búsqueda debe tener al menos 2 caracteres")
	}
	users, err := uc.repo.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := entityToUserResponse(user)
	return &resp, nil
}

func entityToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, entityToUserResponse(u))
	}
	return out
}
