package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/brand"
	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/openai"
	"brand-studio-backend/internal/providers"
	"brand-studio-backend/internal/services"
)

// memStore keeps profile columns encoded, the way Postgres does, so values
// round-trip through brand.Encode and brand.Decode.
type memStore struct {
	mu          sync.Mutex
	profiles    map[uuid.UUID]*profileRow
	versions    []models.FieldVersion
	messages    []models.OnboardingMessage
	generations map[uuid.UUID]*models.AIGeneration
	archive     map[uuid.UUID]*models.FileArchiveEntry
	users       map[uuid.UUID]*models.User
}

type profileRow struct {
	profile models.BrandProfile
	columns map[string]*string
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    map[uuid.UUID]*profileRow{},
		generations: map[uuid.UUID]*models.AIGeneration{},
		archive:     map[uuid.UUID]*models.FileArchiveEntry{},
		users:       map[uuid.UUID]*models.User{},
	}
}

func (m *memStore) CreateProfile(_ context.Context, userID uuid.UUID) (*models.BrandProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	row := &profileRow{
		profile: models.BrandProfile{
			ID:             uuid.New(),
			UserID:         userID,
			Status:         models.ProfileStatusInProgress,
			OnboardingStep: "welcome",
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		columns: map[string]*string{},
	}
	m.profiles[row.profile.ID] = row
	return m.snapshot(row), nil
}

func (m *memStore) snapshot(row *profileRow) *models.BrandProfile {
	p := row.profile
	p.Fields = map[string]any{}
	for _, f := range brand.Fields() {
		if raw := row.columns[f.Column]; raw != nil {
			p.Fields[f.Name] = brand.Decode(f, raw)
		}
	}
	return &p
}

func (m *memStore) GetProfile(_ context.Context, id uuid.UUID) (*models.BrandProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("brand profile")
	}
	return m.snapshot(row), nil
}

func (m *memStore) ListProfiles(_ context.Context, userID uuid.UUID, includeArchived bool) ([]models.BrandProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BrandProfile
	for _, row := range m.profiles {
		if row.profile.UserID != userID {
			continue
		}
		if !includeArchived && row.profile.Status == models.ProfileStatusArchived {
			continue
		}
		out = append(out, *m.snapshot(row))
	}
	return out, nil
}

func (m *memStore) SetProfileStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.profiles[id]
	if !ok {
		return apperr.NotFound("brand profile")
	}
	row.profile.Status = status
	return nil
}

func (m *memStore) SetOnboardingStep(_ context.Context, id uuid.UUID, step, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.profiles[id]
	if !ok {
		return apperr.NotFound("brand profile")
	}
	row.profile.OnboardingStep = step
	row.profile.Status = status
	return nil
}

func (m *memStore) WriteFieldVersion(_ context.Context, id uuid.UUID, f brand.Field, value *string, source string, reason *string) (*models.FieldVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.profiles[id]
	if !ok {
		return nil, apperr.NotFound("brand profile")
	}
	last := 0
	for _, v := range m.versions {
		if v.ProfileID == id && v.FieldName == f.Name && v.VersionNumber > last {
			last = v.VersionNumber
		}
	}
	v := models.FieldVersion{
		ID:            uuid.New(),
		ProfileID:     id,
		FieldName:     f.Name,
		OldValue:      row.columns[f.Column],
		NewValue:      value,
		ChangeSource:  source,
		ChangeReason:  reason,
		VersionNumber: last + 1,
		CreatedAt:     time.Now(),
	}
	row.columns[f.Column] = value
	if f.Name == brand.NameField {
		row.profile.BrandNameConfirmed = true
	}
	m.versions = append(m.versions, v)
	return &v, nil
}

func (m *memStore) GetFieldVersion(_ context.Context, id uuid.UUID) (*models.FieldVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, apperr.NotFound("field version")
}

func (m *memStore) ListFieldVersions(_ context.Context, id uuid.UUID, field string) ([]models.FieldVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FieldVersion
	for i := len(m.versions) - 1; i >= 0; i-- {
		v := m.versions[i]
		if v.ProfileID == id && (field == "" || v.FieldName == field) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) InsertMessage(_ context.Context, msg *models.OnboardingMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, id uuid.UUID, limit int) ([]models.OnboardingMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OnboardingMessage
	for _, msg := range m.messages {
		if msg.ProfileID == id {
			out = append(out, msg)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memStore) InsertGeneration(_ context.Context, g *models.AIGeneration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	row := *g
	m.generations[g.ID] = &row
	return nil
}

func (m *memStore) GetGeneration(_ context.Context, id uuid.UUID) (*models.AIGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.generations[id]
	if !ok {
		return nil, apperr.NotFound("generation")
	}
	row := *g
	return &row, nil
}

func (m *memStore) ListGenerations(_ context.Context, profileID uuid.UUID, genType string) ([]models.AIGeneration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AIGeneration
	for _, g := range m.generations {
		if g.BrandProfileID == profileID && (genType == "" || g.GenerationType == genType) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *memStore) UpdateGeneration(_ context.Context, id uuid.UUID, u *database.GenerationUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.generations[id]
	if !ok {
		return false, nil
	}
	return u.Apply(g, time.Now()), nil
}

func (m *memStore) InsertArchiveEntry(_ context.Context, e *models.FileArchiveEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	row := *e
	m.archive[e.ID] = &row
	return nil
}

func (m *memStore) GetArchiveEntry(_ context.Context, id uuid.UUID) (*models.FileArchiveEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.archive[id]
	if !ok {
		return nil, apperr.NotFound("archive entry")
	}
	row := *e
	return &row, nil
}

func (m *memStore) ListArchive(_ context.Context, userID uuid.UUID, f database.ArchiveFilter) ([]models.FileArchiveEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FileArchiveEntry
	for _, e := range m.archive {
		if e.UserID != userID {
			continue
		}
		if f.Folder != "" && e.Folder != f.Folder {
			continue
		}
		if f.FileType != "" && e.FileType != f.FileType {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *memStore) UpdateArchiveEntry(_ context.Context, id uuid.UUID, p database.ArchivePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.archive[id]
	if !ok {
		return apperr.NotFound("archive entry")
	}
	if p.Folder != nil {
		e.Folder = *p.Folder
	}
	if p.Tags != nil {
		e.Tags = p.Tags
	}
	if p.IsStarred != nil {
		e.IsStarred = *p.IsStarred
	}
	return nil
}

func (m *memStore) DeleteArchiveEntry(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.archive[id]; !ok {
		return apperr.NotFound("archive entry")
	}
	delete(m.archive, id)
	return nil
}

func (m *memStore) ListFolders(_ context.Context, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, e := range m.archive {
		if e.UserID == userID && !seen[e.Folder] {
			seen[e.Folder] = true
			out = append(out, e.Folder)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) UpsertOAuthUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Provider == u.Provider && existing.ProviderUserID == u.ProviderUserID {
			existing.Email, existing.Name, existing.AvatarURL = u.Email, u.Name, u.AvatarURL
			row := *existing
			return &row, nil
		}
	}
	row := *u
	row.ID = uuid.New()
	row.Role = models.RoleUser
	if len(m.users) == 0 {
		row.Role = models.RoleAdmin
	}
	m.users[row.ID] = &row
	out := row
	return &out, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	row := *u
	return &row, nil
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) SetUserRole(_ context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user")
	}
	u.Role = role
	return nil
}

func (m *memStore) messagesFor(id uuid.UUID) []models.OnboardingMessage {
	msgs, _ := m.ListMessages(context.Background(), id, 0)
	return msgs
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Upload(key, _ string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return "", apperr.Unavailable("bucket")
	}
	s.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (s *memStorage) Download(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, apperr.NotFound("object")
	}
	return data, nil
}

func (s *memStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type staticKeys map[string]string

func (k staticKeys) Resolve(_ context.Context, provider string) (string, error) {
	if key, ok := k[provider]; ok {
		return key, nil
	}
	return "", apperr.Unavailable(provider + " API key")
}

// fakeAI serves as both the chat and the media model.
type fakeAI struct {
	mu sync.Mutex

	deltas     []string
	streamErr  error
	extraction string
	systems    []string

	image     *openai.ImageResult
	imageErr  error
	imageReqs []openai.ImageRequest
	speech    []byte
	speechErr error
}

func (f *fakeAI) Chat(string) services.ChatModel   { return f }
func (f *fakeAI) Media(string) services.MediaModel { return f }

func (f *fakeAI) StreamChat(_ context.Context, system string, _ []openai.Message, onDelta func(string) error) (string, error) {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.mu.Unlock()
	var full strings.Builder
	for _, d := range f.deltas {
		full.WriteString(d)
		if err := onDelta(d); err != nil {
			return full.String(), err
		}
	}
	return full.String(), f.streamErr
}

func (f *fakeAI) Complete(context.Context, string, string) (string, error) {
	return f.extraction, nil
}

func (f *fakeAI) GenerateImage(_ context.Context, req openai.ImageRequest) (*openai.ImageResult, error) {
	f.mu.Lock()
	f.imageReqs = append(f.imageReqs, req)
	f.mu.Unlock()
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return f.image, nil
}

func (f *fakeAI) GenerateSpeech(context.Context, openai.SpeechRequest) ([]byte, error) {
	return f.speech, f.speechErr
}

// fakeVideo replays scripted status results. The last one repeats.
type fakeVideo struct {
	mu       sync.Mutex
	submit   providers.VideoResult
	onSubmit func(providers.VideoRequest)
	statuses []providers.VideoResult
	calls    int
	video    []byte
}

func (f *fakeVideo) Name() string         { return "fake" }
func (f *fakeVideo) DefaultModel() string { return "fake-1" }

func (f *fakeVideo) AvailableModels() []providers.Model {
	return []providers.Model{{
		ID:                    "fake-1",
		DisplayName:           "Fake 1",
		MaxDuration:           8,
		SupportedAspectRatios: []string{"16:9", "9:16"},
		SupportedResolutions:  []string{"720p"},
		Pricing:               providers.Pricing{PerSecond: 0.1},
	}}
}

// Plan bills 4 or 8 seconds and falls back to landscape for any ratio
// other than portrait.
func (f *fakeVideo) Plan(req providers.VideoRequest) providers.VideoPlan {
	plan := providers.VideoPlan{Model: "fake-1", Seconds: 8, Size: "1280x720"}
	if req.Model != "" {
		plan.Model = req.Model
	}
	if req.Duration <= 4 {
		plan.Seconds = 4
	}
	if req.AspectRatio == "9:16" {
		plan.Size = "720x1280"
	}
	return plan
}

func (f *fakeVideo) GenerateVideo(_ context.Context, _ string, req providers.VideoRequest) providers.VideoResult {
	if f.onSubmit != nil {
		f.onSubmit(req)
	}
	return f.submit
}

func (f *fakeVideo) GetStatus(context.Context, string, string) providers.VideoResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := min(f.calls, len(f.statuses)-1)
	f.calls++
	return f.statuses[i]
}

func (f *fakeVideo) DownloadVideo(context.Context, string, string) ([]byte, error) {
	return f.video, nil
}

func (f *fakeVideo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
