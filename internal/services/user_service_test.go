package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

func TestUserService_SetRole(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := services.NewUserService(store)

	admin, err := store.UpsertOAuthUser(ctx, &models.User{Provider: "github", ProviderUserID: "1"})
	require.NoError(t, err)
	require.True(t, admin.IsAdmin())
	member, err := store.UpsertOAuthUser(ctx, &models.User{Provider: "github", ProviderUserID: "2"})
	require.NoError(t, err)
	require.False(t, member.IsAdmin())

	assert.ErrorIs(t, svc.SetRole(ctx, admin.ID, admin.ID, models.RoleUser), apperr.ErrInvalidArgument)
	assert.ErrorIs(t, svc.SetRole(ctx, admin.ID, member.ID, "owner"), apperr.ErrInvalidArgument)

	require.NoError(t, svc.SetRole(ctx, admin.ID, member.ID, models.RoleAdmin))
	got, err := svc.Get(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
