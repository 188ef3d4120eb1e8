package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func TestAuditRecordAndList(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())
	ctx := context.Background()

	entityID := uint(12)
	_, err := svc.Record(ctx, AuditEntry{
		ActorUserID: 1,
		Action:      "Application.Approved",
		EntityType:  "Application",
		EntityID:    &entityID,
		Message:     "application 12 approved",
		Metadata:    map[string]interface{}{"cohort_id": 3},
	})
	require.NoError(t, err)

	_, err = svc.Record(ctx, AuditEntry{
		ActorUserID: 2,
		Action:      "cohort.updated",
		EntityType:  "cohort",
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, dto.AuditListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)

	filtered, err := svc.List(ctx, dto.AuditListRequest{Page: 1, PageSize: 10, Action: "application.approved"})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	require.Equal(t, "application", filtered.Items[0].EntityType)
	require.Equal(t, uint(1), filtered.Items[0].ActorUserID)

	byActor, err := svc.List(ctx, dto.AuditListRequest{Page: 1, PageSize: 10, ActorUserID: 2})
	require.NoError(t, err)
	require.Len(t, byActor.Items, 1)
}

func TestAuditRecordRequiresActionAndEntityType(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())

	_, err := svc.Record(context.Background(), AuditEntry{EntityType: "application"})
	require.Error(t, err)

	_, err = svc.Record(context.Background(), AuditEntry{Action: "application.approved"})
	require.Error(t, err)
}

func TestAuditMetadataMasksCredentialKeys(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())

	recorded, err := svc.Record(context.Background(), AuditEntry{
		ActorUserID: 1,
		Action:      "user.created",
		EntityType:  "user",
		Metadata: map[string]interface{}{
			"generated_password": "hunter2",
			"api_token":          "abc",
			"client_secret":      "xyz",
			"cohort_id":          7,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "***", recorded.Metadata["generated_password"])
	require.Equal(t, "***", recorded.Metadata["api_token"])
	require.Equal(t, "***", recorded.Metadata["client_secret"])
	require.EqualValues(t, 7, recorded.Metadata["cohort_id"])
}

func TestAuditFeedDeliversRecordedEntries(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())

	feed, cancel := svc.Subscribe()
	defer cancel()

	_, err := svc.Record(context.Background(), AuditEntry{
		ActorUserID: 1,
		Action:      "application.rejected",
		EntityType:  "application",
	})
	require.NoError(t, err)

	select {
	case entry := <-feed:
		require.Equal(t, "application.rejected", entry.Action)
	case <-time.After(time.Second):
		t.Fatal("expected a feed entry")
	}
}

func TestAuditFeedSuppressedInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())

	feed, cancel := svc.Subscribe()
	defer cancel()

	recorder := svc.WithTx(db)
	recorded, err := recorder.Record(context.Background(), AuditEntry{
		ActorUserID: 1,
		Action:      "enrollment.created",
		EntityType:  "enrollment",
	})
	require.NoError(t, err)

	select {
	case <-feed:
		t.Fatal("tx-bound record must not broadcast before commit")
	case <-time.After(50 * time.Millisecond):
	}

	svc.Publish(recorded)
	select {
	case entry := <-feed:
		require.Equal(t, "enrollment.created", entry.Action)
	case <-time.After(time.Second):
		t.Fatal("expected the published entry")
	}
}

func TestAuditFeedUnsubscribeClosesChannel(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(repository.NewAuditLogRepository(db), testLogger())

	feed, cancel := svc.Subscribe()
	cancel()

	_, open := <-feed
	require.False(t, open)
}
