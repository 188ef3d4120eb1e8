package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

// ErrMessageNotFound indicates the outbound message does not exist.
var ErrMessageNotFound = errors.New("message not found")

// MessageService composes and queues outbound email/SMS. Delivery is
// performed by external workers consuming the queued-message events.
type MessageService interface {
	Compose(ctx context.Context, actorUserID uint, req dto.MessageComposeRequest) (dto.MessageResponse, error)
	QueueCredentials(ctx context.Context, actorUserID uint, recipient, fullName, cohortName, plaintext string) (dto.MessageResponse, error)
	List(ctx context.Context, req dto.MessageListRequest) (dto.MessageListResponse, error)
	MarkSent(ctx context.Context, id uint, delivered bool) error
}

type messageService struct {
	repo      repository.MessageRepository
	nats      *nats.Conn
	subject   string
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

type queuedMessageEvent struct {
	MessageID uint      `json:"message_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	QueuedAt  time.Time `json:"queued_at"`
}

// NewMessageService constructs the outbound message service.
func NewMessageService(repo repository.MessageRepository, natsConn *nats.Conn, subject string, validate *validator.Validate, logger zerolog.Logger) MessageService {
	return &messageService{
		repo:      repo,
		nats:      natsConn,
		subject:   subject,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "message_service").Logger(),
	}
}

func (s *messageService) Compose(ctx context.Context, actorUserID uint, req dto.MessageComposeRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}

	body := strings.TrimSpace(req.Body)
	if req.Channel == models.MessageChannelEmail {
		body = s.sanitizer.Sanitize(body)
	}
	if body == "" {
		return dto.MessageResponse{}, fmt.Errorf("message body empty after sanitization")
	}

	message := models.OutboundMessage{
		Channel:   req.Channel,
		Recipient: strings.TrimSpace(req.Recipient),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      body,
		Status:    models.MessageStatusQueued,
		QueuedBy:  actorUserID,
	}
	if err := s.repo.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	s.publishQueued(message)

	return dto.NewMessageResponse(message), nil
}

// QueueCredentials queues the one-time credentials email produced by an
// approval. The plaintext travels only through the persisted body consumed
// by the delivery worker; it is never logged.
func (s *messageService) QueueCredentials(ctx context.Context, actorUserID uint, recipient, fullName, cohortName, plaintext string) (dto.MessageResponse, error) {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour application to %s has been approved. You can sign in with this email address and the temporary password below.\n\nTemporary password: %s\n\nPlease change it after your first sign-in.",
		fullName, cohortName, plaintext,
	)

	message := models.OutboundMessage{
		Channel:   models.MessageChannelEmail,
		Recipient: strings.TrimSpace(recipient),
		Subject:   "Your admission is confirmed",
		Body:      body,
		Status:    models.MessageStatusQueued,
		QueuedBy:  actorUserID,
	}
	if err := s.repo.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, err
	}

	s.publishQueued(message)
	s.logger.Info().Uint("message_id", message.ID).Str("channel", message.Channel).Msg("credentials message queued")

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) List(ctx context.Context, req dto.MessageListRequest) (dto.MessageListResponse, error) {
	filter := repository.MessageFilter{
		Channel:  strings.TrimSpace(req.Channel),
		Status:   strings.TrimSpace(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	messages, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.MessageListResponse{}, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewMessageResponse(message))
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

	return dto.MessageListResponse{Items: responses, Pagination: pagination}, nil
}

func (s *messageService) MarkSent(ctx context.Context, id uint, delivered bool) error {
	status := models.MessageStatusSent
	if !delivered {
		status = models.MessageStatusFailed
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	return nil
}

// publishQueued notifies delivery workers. A broker outage does not fail
// composition: workers also poll the queued status.
func (s *messageService) publishQueued(message models.OutboundMessage) {
	if s.nats == nil || s.subject == "" {
		return
	}

	event := queuedMessageEvent{
		MessageID: message.ID,
		Channel:   message.Channel,
		Recipient: message.Recipient,
		Subject:   message.Subject,
		Body:      message.Body,
		QueuedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Uint("message_id", message.ID).Msg("failed to encode queued message event")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("message_id", message.ID).Msg("failed to publish queued message event")
	}
}
