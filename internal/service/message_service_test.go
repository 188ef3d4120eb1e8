package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func newMessageService(t *testing.T, db *gorm.DB) MessageService {
	t.Helper()

	// A nil broker exercises the polling fallback path.
	return NewMessageService(repository.NewMessageRepository(db), nil, "admissions.messages.queued", testValidator(), testLogger())
}

func TestComposeSanitizesEmailBody(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(t, db)

	response, err := svc.Compose(context.Background(), 5, dto.MessageComposeRequest{
		Channel:   models.MessageChannelEmail,
		Recipient: "student@example.com",
		Subject:   "Schedule",
		Body:      `<p>See attached</p><script>steal()</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, models.MessageStatusQueued, response.Status)
	require.Equal(t, uint(5), response.QueuedBy)
	require.Contains(t, response.Body, "<p>See attached</p>")
	require.NotContains(t, response.Body, "script")
}

func TestComposeRejectsEmptyBodyAfterSanitization(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(t, db)

	_, err := svc.Compose(context.Background(), 5, dto.MessageComposeRequest{
		Channel:   models.MessageChannelEmail,
		Recipient: "student@example.com",
		Body:      `<script>only()</script>`,
	})
	require.Error(t, err)
}

func TestComposeValidatesChannel(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(t, db)

	_, err := svc.Compose(context.Background(), 5, dto.MessageComposeRequest{
		Channel:   "carrier-pigeon",
		Recipient: "student@example.com",
		Body:      "hello",
	})
	require.Error(t, err)
}

func TestQueueCredentialsCarriesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(t, db)

	response, err := svc.QueueCredentials(context.Background(), 9, "nova@example.com", "Nova Lima", "Backend 2026A", "s3cretPass")
	require.NoError(t, err)
	require.Equal(t, models.MessageChannelEmail, response.Channel)
	require.Contains(t, response.Body, "s3cretPass")
	require.Contains(t, response.Body, "Nova Lima")
	require.Contains(t, response.Body, "Backend 2026A")

	var stored models.OutboundMessage
	require.NoError(t, db.First(&stored, response.ID).Error)
	require.Equal(t, models.MessageStatusQueued, stored.Status)
}

func TestMessageListFiltersAndMarkSent(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(t, db)

	email, err := svc.Compose(context.Background(), 1, dto.MessageComposeRequest{
		Channel: models.MessageChannelEmail, Recipient: "a@example.com", Body: "hi",
	})
	require.NoError(t, err)
	_, err = svc.Compose(context.Background(), 1, dto.MessageComposeRequest{
		Channel: models.MessageChannelSMS, Recipient: "+5511944440000", Body: "hi",
	})
	require.NoError(t, err)

	emails, err := svc.List(context.Background(), dto.MessageListRequest{Channel: models.MessageChannelEmail, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, emails.Items, 1)

	require.NoError(t, svc.MarkSent(context.Background(), email.ID, true))
	sent, err := svc.List(context.Background(), dto.MessageListRequest{Status: models.MessageStatusSent, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, sent.Items, 1)

	require.ErrorIs(t, svc.MarkSent(context.Background(), 999, false), ErrMessageNotFound)
}
