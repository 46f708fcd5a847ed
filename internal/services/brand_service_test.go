package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

func newBrandService(t *testing.T) (*services.BrandService, *memStore, *models.BrandProfile) {
	t.Helper()
	store := newMemStore()
	svc := services.NewBrandService(store, logger.Nop())
	p, err := svc.CreateProfile(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	return svc, store, p
}

func TestUpdateBrandFieldWithVersion_NumbersVersions(t *testing.T) {
	ctx := context.Background()
	svc, _, p := newBrandService(t)

	for i, value := range []string{"first", "second", "third"} {
		v, err := svc.UpdateBrandFieldWithVersion(ctx, p.ID, "tagline", value, models.ChangeSourceManual, "")
		require.NoError(t, err)
		assert.Equal(t, i+1, v.VersionNumber)
		assert.Equal(t, value, *v.NewValue)
	}

	versions, err := svc.ListFieldVersions(ctx, p.UserID, p.ID, "tagline")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].VersionNumber)
	assert.Equal(t, "second", *versions[0].OldValue)
	assert.Nil(t, versions[2].OldValue)
}

func TestUpdateBrandFieldWithVersion_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, store, p := newBrandService(t)

	_, err := svc.UpdateBrandFieldWithVersion(ctx, p.ID, "favouriteColour", "red", models.ChangeSourceManual, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.UpdateBrandFieldWithVersion(ctx, p.ID, "tagline", "x", "robot", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	assert.Empty(t, store.versions)
}

func TestUpdateProfileFields_ArrayRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, p := newBrandService(t)

	updated, versions, err := svc.UpdateProfileFields(ctx, p.UserID, p.ID, map[string]any{
		"coreValues": []any{"warmth", "clarity"},
		"typography": map[string]any{"heading": "Inter"},
		"brandName":  "Lumen",
	}, "Set by hand")
	require.NoError(t, err)
	assert.Len(t, versions, 3)

	assert.Equal(t, []any{"warmth", "clarity"}, updated.Get("coreValues"))
	assert.Equal(t, map[string]any{"heading": "Inter"}, updated.Get("typography"))
	assert.Equal(t, "Lumen", updated.Get("brandName"))
	assert.True(t, updated.BrandNameConfirmed)
}

func TestUpdateProfileFields_UnknownFieldWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, store, p := newBrandService(t)

	_, _, err := svc.UpdateProfileFields(ctx, p.UserID, p.ID, map[string]any{
		"tagline": "ok",
		"bogus":   "no",
	}, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Empty(t, store.versions)
}

func TestUpdateProfileFields_OtherUser(t *testing.T) {
	svc, _, p := newBrandService(t)

	_, _, err := svc.UpdateProfileFields(context.Background(), uuid.New(), p.ID, map[string]any{"tagline": "x"}, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfileFields_Archived(t *testing.T) {
	ctx := context.Background()
	svc, _, p := newBrandService(t)
	require.NoError(t, svc.ArchiveProfile(ctx, p.UserID, p.ID))

	_, _, err := svc.UpdateProfileFields(ctx, p.UserID, p.ID, map[string]any{"tagline": "x"}, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	listed, err := svc.ListProfiles(ctx, p.UserID, false)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRevertFieldToVersion(t *testing.T) {
	ctx := context.Background()
	svc, _, p := newBrandService(t)

	first, err := svc.UpdateBrandFieldWithVersion(ctx, p.ID, "coreValues", []any{"a"}, models.ChangeSourceManual, "")
	require.NoError(t, err)
	_, err = svc.UpdateBrandFieldWithVersion(ctx, p.ID, "coreValues", []any{"b", "c"}, models.ChangeSourceAI, "")
	require.NoError(t, err)

	reverted, err := svc.RevertFieldToVersion(ctx, p.UserID, p.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reverted.VersionNumber)
	assert.Equal(t, models.ChangeSourceManual, reverted.ChangeSource)
	assert.Equal(t, "Reverted to version 1", *reverted.ChangeReason)

	current, err := svc.GetProfile(ctx, p.UserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, current.Get("coreValues"))
}

func TestRevertFieldToVersion_ForeignVersion(t *testing.T) {
	ctx := context.Background()
	svc, store, p := newBrandService(t)

	other, err := store.CreateProfile(ctx, p.UserID)
	require.NoError(t, err)
	v, err := svc.UpdateBrandFieldWithVersion(ctx, other.ID, "tagline", "x", models.ChangeSourceManual, "")
	require.NoError(t, err)

	_, err = svc.RevertFieldToVersion(ctx, p.UserID, p.ID, v.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApplyExtracted_SkipsConfirmedNameAndUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, store, p := newBrandService(t)

	_, err := svc.UpdateBrandFieldWithVersion(ctx, p.ID, "brandName", "Lumen", models.ChangeSourceManual, "")
	require.NoError(t, err)
	_, err = svc.UpdateBrandFieldWithVersion(ctx, p.ID, "coreValues", []any{"warmth"}, models.ChangeSourceManual, "")
	require.NoError(t, err)

	profile, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, profile.BrandNameConfirmed)

	written := svc.ApplyExtracted(ctx, profile, map[string]any{
		"brandName":  "Something Else",
		"coreValues": []any{"warmth"},
		"mission":    "Brew better mornings",
	}, "brand_identity")
	assert.Equal(t, 1, written)

	after, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lumen", after.Get("brandName"))
	assert.Equal(t, "Brew better mornings", after.Get("mission"))

	versions, err := svc.ListFieldVersions(ctx, p.UserID, p.ID, "mission")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, models.ChangeSourceAI, versions[0].ChangeSource)
	assert.Equal(t, "Extracted during brand_identity", *versions[0].ChangeReason)
}

func TestCreateProfile_WithInitialFields(t *testing.T) {
	store := newMemStore()
	svc := services.NewBrandService(store, logger.Nop())

	p, err := svc.CreateProfile(context.Background(), uuid.New(), map[string]any{"industry": "Coffee"})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", p.Get("industry"))
	assert.Equal(t, models.ProfileStatusInProgress, p.Status)

	_, err = svc.CreateProfile(context.Background(), uuid.New(), map[string]any{"nope": 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
