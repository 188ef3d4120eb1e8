package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// ErrProgramNotFound indicates the program does not exist.
var ErrProgramNotFound = errors.New("program not found")

// ProgramService manages program records.
type ProgramService interface {
	Create(ctx context.Context, req dto.ProgramCreateRequest) (dto.ProgramResponse, error)
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, id uint, req dto.ProgramUpdateRequest) (dto.ProgramResponse, error)
	Delete(ctx context.Context, id uint) error
}

type programService struct {
	programs  repository.ProgramRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProgramService constructs the program service.
func NewProgramService(programs repository.ProgramRepository, validate *validator.Validate, logger zerolog.Logger) ProgramService {
	return &programService{
		programs:  programs,
		validator: validate,
		logger:    logger.With().Str("component", "program_service").Logger(),
	}
}

func (s *programService) Create(ctx context.Context, req dto.ProgramCreateRequest) (dto.ProgramResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProgramResponse{}, err
	}

	program := models.Program{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.programs.Create(ctx, &program); err != nil {
		return dto.ProgramResponse{}, err
	}

	return dto.NewProgramResponse(program), nil
}

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProgramResponse, 0, len(programs))
	for _, program := range programs {
		responses = append(responses, dto.NewProgramResponse(program))
	}

	return responses, nil
}

func (s *programService) Update(ctx context.Context, id uint, req dto.ProgramUpdateRequest) (dto.ProgramResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProgramResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if len(updates) == 0 {
		program, err := s.programs.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ProgramResponse{}, ErrProgramNotFound
			}
			return dto.ProgramResponse{}, err
		}
		return dto.NewProgramResponse(program), nil
	}

	program, err := s.programs.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgramResponse{}, ErrProgramNotFound
		}
		return dto.ProgramResponse{}, err
	}

	return dto.NewProgramResponse(program), nil
}

func (s *programService) Delete(ctx context.Context, id uint) error {
	if err := s.programs.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProgramNotFound
		}
		return err
	}

	return nil
}
