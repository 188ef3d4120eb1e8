package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

const auditFeedBufferSize = 16

// AuditEntry captures the details required to persist an admin action record.
type AuditEntry struct {
	ActorUserID uint
	Action      string
	EntityType  string
	EntityID    *uint
	Message     string
	Metadata    map[string]interface{}
	Title       string
	Body        string
}

// AuditRecorder defines behaviour for recording admin actions. WithTx binds
// the recorder to an open transaction so the entry commits or rolls back
// with the primary mutation.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) (dto.AuditEntryResponse, error)
	WithTx(tx *gorm.DB) AuditRecorder
}

// AuditService exposes methods to persist, query and stream the audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error)
	Publish(entry dto.AuditEntryResponse)
	Subscribe() (<-chan dto.AuditEntryResponse, func())
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
	broker *auditFeedBroker

	// inTx suppresses feed broadcast on Record: a tx-bound entry is not
	// durable until the caller commits, so the caller publishes after.
	inTx bool
}

type auditFeedBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.AuditEntryResponse]struct{}
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
		broker: &auditFeedBroker{subscribers: make(map[chan dto.AuditEntryResponse]struct{})},
	}
}

func (s *auditService) WithTx(tx *gorm.DB) AuditRecorder {
	if tx == nil {
		return s
	}
	return &auditService{
		repo:   s.repo.WithTx(tx),
		logger: s.logger,
		broker: s.broker,
		inTx:   true,
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) (dto.AuditEntryResponse, error) {
	if strings.TrimSpace(entry.Action) == "" {
		return dto.AuditEntryResponse{}, fmt.Errorf("action is required")
	}
	if strings.TrimSpace(entry.EntityType) == "" {
		return dto.AuditEntryResponse{}, fmt.Errorf("entity type is required")
	}

	model := models.AdminActionLog{
		ActorUserID: entry.ActorUserID,
		Action:      strings.ToLower(strings.TrimSpace(entry.Action)),
		EntityType:  strings.ToLower(strings.TrimSpace(entry.EntityType)),
		EntityID:    entry.EntityID,
		Message:     strings.TrimSpace(entry.Message),
		Metadata:    sanitizeMetadata(entry.Metadata),
		Title:       strings.TrimSpace(entry.Title),
		Body:        strings.TrimSpace(entry.Body),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.Action).Msg("failed to persist audit entry")
		return dto.AuditEntryResponse{}, err
	}

	response := dto.NewAuditEntryResponse(model)
	if !s.inTx {
		s.Publish(response)
	}

	return response, nil
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) (dto.AuditListResponse, error) {
	filter := repository.AuditLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Action:     strings.TrimSpace(req.Action),
		EntityType: strings.TrimSpace(req.EntityType),
	}
	if req.ActorUserID > 0 {
		filter.ActorUserID = &req.ActorUserID
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditListResponse{}, err
	}

	responses := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditEntryResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.AuditListResponse{Items: responses, Pagination: pagination}, nil
}

// Publish fans a durable entry out to live feed subscribers.
func (s *auditService) Publish(entry dto.AuditEntryResponse) {
	s.broker.broadcast(entry)
}

// Subscribe registers a live feed consumer. Slow consumers drop entries
// rather than blocking the writer.
func (s *auditService) Subscribe() (<-chan dto.AuditEntryResponse, func()) {
	channel := make(chan dto.AuditEntryResponse, auditFeedBufferSize)
	s.broker.subscribe(channel)

	cleanup := func() {
		s.broker.unsubscribe(channel)
	}

	return channel, cleanup
}

// sanitizeMetadata masks values under credential-looking keys. Generated
// passwords must never reach the audit trail.
func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "secret") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func (b *auditFeedBroker) subscribe(ch chan dto.AuditEntryResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
}

func (b *auditFeedBroker) unsubscribe(ch chan dto.AuditEntryResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *auditFeedBroker) broadcast(entry dto.AuditEntryResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
