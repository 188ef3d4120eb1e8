package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/database"
	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// Domain errors for CMS content.
var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrPageNotFound         = errors.New("page not found")
	ErrSlugTaken            = errors.New("slug already in use")
)

// pageBlockSchema constrains the structured blocks a CMS page may contain.
const pageBlockSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["type"],
		"properties": {
			"type": {"type": "string", "enum": ["heading", "paragraph", "image", "html", "cta"]},
			"text": {"type": "string"},
			"level": {"type": "integer", "minimum": 1, "maximum": 4},
			"url": {"type": "string"},
			"alt": {"type": "string"},
			"label": {"type": "string"}
		},
		"additionalProperties": false
	}
}`

// ContentService manages announcements and CMS pages for the dashboard.
type ContentService interface {
	CreateAnnouncement(ctx context.Context, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	GetAnnouncement(ctx context.Context, slug string) (dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, publishedOnly bool, page, pageSize int) (dto.AnnouncementListResponse, error)
	UpdateAnnouncement(ctx context.Context, id uint, req dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, id uint) error

	CreatePage(ctx context.Context, req dto.PageCreateRequest) (dto.PageResponse, error)
	GetPage(ctx context.Context, slug string) (dto.PageResponse, error)
	ListPages(ctx context.Context, publishedOnly bool) ([]dto.PageResponse, error)
	UpdatePage(ctx context.Context, id uint, req dto.PageUpdateRequest) (dto.PageResponse, error)
	DeletePage(ctx context.Context, id uint) error
}

type contentService struct {
	announcements repository.AnnouncementRepository
	pages         repository.PageRepository
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	blockSchema   *jsonschema.Schema
	logger        zerolog.Logger
}

// NewContentService constructs the CMS content service.
func NewContentService(
	announcements repository.AnnouncementRepository,
	pages repository.PageRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ContentService {
	return &contentService{
		announcements: announcements,
		pages:         pages,
		validator:     validate,
		sanitizer:     bluemonday.UGCPolicy(),
		blockSchema:   jsonschema.MustCompileString("pageblocks.json", pageBlockSchema),
		logger:        logger.With().Str("component", "content_service").Logger(),
	}
}

func (s *contentService) CreateAnnouncement(ctx context.Context, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement := models.Announcement{
		Slug:      normalizeSlug(req.Slug),
		Title:     strings.TrimSpace(req.Title),
		Body:      s.sanitizer.Sanitize(req.Body),
		Published: req.Published,
	}
	if err := s.announcements.Create(ctx, &announcement); err != nil {
		if database.IsUniqueViolation(err) {
			return dto.AnnouncementResponse{}, ErrSlugTaken
		}
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *contentService) GetAnnouncement(ctx context.Context, slug string) (dto.AnnouncementResponse, error) {
	announcement, err := s.announcements.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *contentService) ListAnnouncements(ctx context.Context, publishedOnly bool, page, pageSize int) (dto.AnnouncementListResponse, error) {
	filter := repository.AnnouncementFilter{
		PublishedOnly: publishedOnly,
		Page:          page,
		PageSize:      pageSize,
	}

	announcements, total, err := s.announcements.List(ctx, filter)
	if err != nil {
		return dto.AnnouncementListResponse{}, err
	}

	responses := make([]dto.AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		responses = append(responses, dto.NewAnnouncementResponse(announcement))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(page, 1),
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AnnouncementListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *contentService) UpdateAnnouncement(ctx context.Context, id uint, req dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		updates["body"] = s.sanitizer.Sanitize(*req.Body)
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	if len(updates) == 0 {
		return dto.AnnouncementResponse{}, fmt.Errorf("no fields to update")
	}

	announcement, err := s.announcements.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *contentService) DeleteAnnouncement(ctx context.Context, id uint) error {
	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	return nil
}

func (s *contentService) CreatePage(ctx context.Context, req dto.PageCreateRequest) (dto.PageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PageResponse{}, err
	}

	if err := s.validateBlocks(req.Blocks); err != nil {
		return dto.PageResponse{}, err
	}

	page := models.Page{
		Slug:      normalizeSlug(req.Slug),
		Title:     strings.TrimSpace(req.Title),
		Blocks:    datatypes.JSON(req.Blocks),
		Published: req.Published,
	}
	if err := s.pages.Create(ctx, &page); err != nil {
		if database.IsUniqueViolation(err) {
			return dto.PageResponse{}, ErrSlugTaken
		}
		return dto.PageResponse{}, err
	}

	return dto.NewPageResponse(page), nil
}

func (s *contentService) GetPage(ctx context.Context, slug string) (dto.PageResponse, error) {
	page, err := s.pages.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, err
	}

	return dto.NewPageResponse(page), nil
}

func (s *contentService) ListPages(ctx context.Context, publishedOnly bool) ([]dto.PageResponse, error) {
	pages, err := s.pages.List(ctx, publishedOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PageResponse, 0, len(pages))
	for _, page := range pages {
		responses = append(responses, dto.NewPageResponse(page))
	}

	return responses, nil
}

func (s *contentService) UpdatePage(ctx context.Context, id uint, req dto.PageUpdateRequest) (dto.PageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PageResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if len(req.Blocks) > 0 {
		if err := s.validateBlocks(req.Blocks); err != nil {
			return dto.PageResponse{}, err
		}
		updates["blocks"] = datatypes.JSON(req.Blocks)
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	if len(updates) == 0 {
		return dto.PageResponse{}, fmt.Errorf("no fields to update")
	}

	page, err := s.pages.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PageResponse{}, ErrPageNotFound
		}
		return dto.PageResponse{}, err
	}

	return dto.NewPageResponse(page), nil
}

func (s *contentService) DeletePage(ctx context.Context, id uint) error {
	if err := s.pages.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}

	return nil
}

func (s *contentService) validateBlocks(raw json.RawMessage) error {
	var blocks interface{}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return fmt.Errorf("blocks must be valid JSON: %w", err)
	}
	if err := s.blockSchema.Validate(blocks); err != nil {
		return fmt.Errorf("blocks do not match the page schema: %w", err)
	}
	return nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
