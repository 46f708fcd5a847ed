package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/brand"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/onboarding"
)

var errProfileNotFound = apperr.NotFound("brand profile")

// BrandService owns brand profiles. Every field write goes through
// UpdateBrandFieldWithVersion so the version log stays complete.
type BrandService struct {
	store BrandStore
	log   *logger.Logger
}

func NewBrandService(store BrandStore, log *logger.Logger) *BrandService {
	return &BrandService{store: store, log: log.With("service", "BrandService")}
}

func (s *BrandService) CreateProfile(ctx context.Context, userID uuid.UUID, initial map[string]any) (*models.BrandProfile, error) {
	if err := validateFieldNames(initial); err != nil {
		return nil, err
	}
	p, err := s.store.CreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(initial) == 0 {
		return p, nil
	}
	if _, err := s.applyManual(ctx, p.ID, initial, "Initial value"); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, p.ID)
}

func (s *BrandService) GetProfile(ctx context.Context, userID, profileID uuid.UUID) (*models.BrandProfile, error) {
	return ownedProfile(ctx, s.store, userID, profileID)
}

func (s *BrandService) ListProfiles(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.BrandProfile, error) {
	profiles, err := s.store.ListProfiles(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []models.BrandProfile{}
	}
	return profiles, nil
}

// UpdateBrandFieldWithVersion writes one field and appends its version row.
func (s *BrandService) UpdateBrandFieldWithVersion(ctx context.Context, profileID uuid.UUID, field string, value any, source, reason string) (*models.FieldVersion, error) {
	f, ok := brand.Lookup(field)
	if !ok {
		return nil, apperr.Invalid("unknown brand field %q", field)
	}
	if source != models.ChangeSourceManual && source != models.ChangeSourceAI {
		return nil, apperr.Invalid("unknown change source %q", source)
	}
	encoded, err := brand.Encode(f, value)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	var why *string
	if reason != "" {
		why = &reason
	}
	return s.store.WriteFieldVersion(ctx, profileID, f, encoded, source, why)
}

// UpdateProfileFields applies manual edits. Unknown names reject the whole
// request before anything is written.
func (s *BrandService) UpdateProfileFields(ctx context.Context, userID, profileID uuid.UUID, fields map[string]any, reason string) (*models.BrandProfile, []models.FieldVersion, error) {
	if len(fields) == 0 {
		return nil, nil, apperr.Invalid("no fields to update")
	}
	if err := validateFieldNames(fields); err != nil {
		return nil, nil, err
	}
	p, err := ownedProfile(ctx, s.store, userID, profileID)
	if err != nil {
		return nil, nil, err
	}
	if p.Status == models.ProfileStatusArchived {
		return nil, nil, apperr.Invalid("brand profile is archived")
	}
	versions, err := s.applyManual(ctx, profileID, fields, reason)
	if err != nil {
		return nil, nil, err
	}
	updated, err := s.store.GetProfile(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}
	return updated, versions, nil
}

func (s *BrandService) applyManual(ctx context.Context, profileID uuid.UUID, fields map[string]any, reason string) ([]models.FieldVersion, error) {
	var versions []models.FieldVersion
	for _, f := range brand.Fields() {
		value, ok := fields[f.Name]
		if !ok {
			continue
		}
		v, err := s.UpdateBrandFieldWithVersion(ctx, profileID, f.Name, value, models.ChangeSourceManual, reason)
		if err != nil {
			return versions, err
		}
		versions = append(versions, *v)
	}
	return versions, nil
}

// RevertFieldToVersion re-applies the value a version recorded, as a new
// manual version.
func (s *BrandService) RevertFieldToVersion(ctx context.Context, userID, profileID, versionID uuid.UUID) (*models.FieldVersion, error) {
	if _, err := ownedProfile(ctx, s.store, userID, profileID); err != nil {
		return nil, err
	}
	v, err := s.store.GetFieldVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v.ProfileID != profileID {
		return nil, apperr.NotFound("field version")
	}

	var value any
	if v.NewValue != nil {
		value = *v.NewValue
	}
	return s.UpdateBrandFieldWithVersion(ctx, profileID, v.FieldName, value, models.ChangeSourceManual,
		fmt.Sprintf("Reverted to version %d", v.VersionNumber))
}

// ApplyExtracted merges fields pulled from chat. A confirmed brand name is
// never overwritten and unchanged values are skipped. Failures are logged
// per field; the number of fields written is returned.
func (s *BrandService) ApplyExtracted(ctx context.Context, profile *models.BrandProfile, fields map[string]any, step string) int {
	written := 0
	for _, f := range brand.Fields() {
		value, ok := fields[f.Name]
		if !ok {
			continue
		}
		if f.Name == brand.NameField && profile.BrandNameConfirmed {
			continue
		}
		if sameValue(f, profile.Get(f.Name), value) {
			continue
		}
		reason := "Extracted during " + step
		if _, err := s.UpdateBrandFieldWithVersion(ctx, profile.ID, f.Name, value, models.ChangeSourceAI, reason); err != nil {
			s.log.Warn("failed to apply extracted field", "profile_id", profile.ID, "field", f.Name, "error", err)
			continue
		}
		written++
	}
	return written
}

func sameValue(f brand.Field, current, next any) bool {
	a, errA := brand.Encode(f, current)
	b, errB := brand.Encode(f, next)
	if errA != nil || errB != nil {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *BrandService) ArchiveProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	if _, err := ownedProfile(ctx, s.store, userID, profileID); err != nil {
		return err
	}
	return s.store.SetProfileStatus(ctx, profileID, models.ProfileStatusArchived)
}

func (s *BrandService) CompleteProfile(ctx context.Context, userID, profileID uuid.UUID) error {
	if _, err := ownedProfile(ctx, s.store, userID, profileID); err != nil {
		return err
	}
	return s.store.SetOnboardingStep(ctx, profileID, onboarding.StepComplete, models.ProfileStatusCompleted)
}

// ListFieldVersions lists versions newest first; an empty field lists all.
func (s *BrandService) ListFieldVersions(ctx context.Context, userID, profileID uuid.UUID, field string) ([]models.FieldVersion, error) {
	if field != "" && !brand.IsKnown(field) {
		return nil, apperr.Invalid("unknown brand field %q", field)
	}
	if _, err := ownedProfile(ctx, s.store, userID, profileID); err != nil {
		return nil, err
	}
	versions, err := s.store.ListFieldVersions(ctx, profileID, field)
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []models.FieldVersion{}
	}
	return versions, nil
}

func validateFieldNames(fields map[string]any) error {
	for name := range fields {
		if !brand.IsKnown(name) {
			return apperr.Invalid("unknown brand field %q", name)
		}
	}
	return nil
}
