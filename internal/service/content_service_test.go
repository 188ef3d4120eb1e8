package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func newContentService(t *testing.T, db *gorm.DB) ContentService {
	t.Helper()

	return NewContentService(
		repository.NewAnnouncementRepository(db),
		repository.NewPageRepository(db),
		testValidator(),
		testLogger(),
	)
}

func TestCreateAnnouncementSanitizesBody(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	created, err := svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug:      "Welcome-Week",
		Title:     "Welcome Week",
		Body:      `<p>Hello</p><script>alert("x")</script>`,
		Published: true,
	})
	require.NoError(t, err)
	require.Equal(t, "welcome-week", created.Slug)
	require.Contains(t, created.Body, "<p>Hello</p>")
	require.NotContains(t, created.Body, "<script>")
}

func TestAnnouncementSlugConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	_, err := svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug:  "orientation",
		Title: "Orientation",
		Body:  "details",
	})
	require.NoError(t, err)

	_, err = svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug:  "ORIENTATION",
		Title: "Orientation again",
		Body:  "details",
	})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestAnnouncementListPublishedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	_, err := svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug: "draft", Title: "Draft note", Body: "soon",
	})
	require.NoError(t, err)
	_, err = svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug: "live", Title: "Live note", Body: "now", Published: true,
	})
	require.NoError(t, err)

	published, err := svc.ListAnnouncements(context.Background(), true, 1, 10)
	require.NoError(t, err)
	require.Len(t, published.Items, 1)
	require.Equal(t, "live", published.Items[0].Slug)

	all, err := svc.ListAnnouncements(context.Background(), false, 1, 10)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
}

func TestUpdateAnnouncement(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	created, err := svc.CreateAnnouncement(context.Background(), dto.AnnouncementCreateRequest{
		Slug: "deadline", Title: "Deadline", Body: "old",
	})
	require.NoError(t, err)

	body := `<b>new</b><iframe src="evil"></iframe>`
	published := true
	updated, err := svc.UpdateAnnouncement(context.Background(), created.ID, dto.AnnouncementUpdateRequest{
		Body:      &body,
		Published: &published,
	})
	require.NoError(t, err)
	require.True(t, updated.Published)
	require.Contains(t, updated.Body, "<b>new</b>")
	require.NotContains(t, updated.Body, "iframe")

	_, err = svc.UpdateAnnouncement(context.Background(), 999, dto.AnnouncementUpdateRequest{Published: &published})
	require.ErrorIs(t, err, ErrAnnouncementNotFound)
}

func TestCreatePageValidatesBlocks(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	blocks := json.RawMessage(`[
		{"type": "heading", "text": "About", "level": 1},
		{"type": "paragraph", "text": "We teach engineering."},
		{"type": "cta", "label": "Apply", "url": "/apply"}
	]`)

	created, err := svc.CreatePage(context.Background(), dto.PageCreateRequest{
		Slug:   "about",
		Title:  "About us",
		Blocks: blocks,
	})
	require.NoError(t, err)
	require.JSONEq(t, string(blocks), string(created.Blocks))

	fetched, err := svc.GetPage(context.Background(), "About")
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
}

func TestCreatePageRejectsInvalidBlocks(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	cases := []json.RawMessage{
		json.RawMessage(`[{"type": "carousel"}]`),
		json.RawMessage(`[{"text": "missing type"}]`),
		json.RawMessage(`{"type": "heading"}`),
		json.RawMessage(`not-json`),
	}

	for _, blocks := range cases {
		_, err := svc.CreatePage(context.Background(), dto.PageCreateRequest{
			Slug:   "broken",
			Title:  "Broken page",
			Blocks: blocks,
		})
		require.Error(t, err)
	}
}

func TestUpdatePageBlocks(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	created, err := svc.CreatePage(context.Background(), dto.PageCreateRequest{
		Slug:   "faq",
		Title:  "FAQ",
		Blocks: json.RawMessage(`[{"type": "paragraph", "text": "v1"}]`),
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePage(context.Background(), created.ID, dto.PageUpdateRequest{
		Blocks: json.RawMessage(`[{"type": "paragraph", "text": "v2"}]`),
	})
	require.NoError(t, err)
	require.Contains(t, string(updated.Blocks), "v2")

	_, err = svc.UpdatePage(context.Background(), created.ID, dto.PageUpdateRequest{
		Blocks: json.RawMessage(`[{"type": "sidebar"}]`),
	})
	require.Error(t, err)
}

func TestDeletePage(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	created, err := svc.CreatePage(context.Background(), dto.PageCreateRequest{
		Slug:   "old-page",
		Title:  "Old page",
		Blocks: json.RawMessage(`[{"type": "paragraph", "text": "bye"}]`),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePage(context.Background(), created.ID))
	_, err = svc.GetPage(context.Background(), "old-page")
	require.ErrorIs(t, err, ErrPageNotFound)
	require.ErrorIs(t, svc.DeletePage(context.Background(), created.ID), ErrPageNotFound)
}
