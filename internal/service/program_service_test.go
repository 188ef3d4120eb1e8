package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-go-api/internal/dto"
	"github.com/noah-isme/admissions-go-api/internal/repository"
)

func TestProgramLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgramService(repository.NewProgramRepository(db), testValidator(), testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.ProgramCreateRequest{
		Name:        "  Cloud Engineering  ",
		Description: "Infrastructure track",
	})
	require.NoError(t, err)
	require.Equal(t, "Cloud Engineering", created.Name)

	name := "Cloud & Platform Engineering"
	updated, err := svc.Update(ctx, created.ID, dto.ProgramUpdateRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, "Infrastructure track", updated.Description)

	programs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProgramNotFound)
}

func TestProgramValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgramService(repository.NewProgramRepository(db), testValidator(), testLogger())

	_, err := svc.Create(context.Background(), dto.ProgramCreateRequest{Name: "x"})
	require.Error(t, err)

	_, err = svc.Update(context.Background(), 999, dto.ProgramUpdateRequest{})
	require.ErrorIs(t, err, ErrProgramNotFound)
}
