package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/openai"
	"brand-studio-backend/internal/providers"
)

const (
	DefaultImageSize     = "1024x1024"
	DefaultImageQuality  = "standard"
	DefaultVideoProvider = "openai"
	DefaultVideoDuration = 4

	// maxSpeechChars is the longest input the speech endpoint accepts.
	maxSpeechChars = 4096
)

// dall-e-3 charges per quality tier; the square size is the cheap one.
var dallE3Prices = map[string][2]float64{
	"1024x1024": {0.04, 0.08},
	"1792x1024": {0.08, 0.12},
	"1024x1792": {0.08, 0.12},
}

var dallE2Prices = map[string]float64{
	"256x256":   0.016,
	"512x512":   0.018,
	"1024x1024": 0.02,
}

// speechPrices is USD per 1000 input characters.
var speechPrices = map[string]float64{
	"tts-1":    0.015,
	"tts-1-hd": 0.030,
}

var speechVoices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// ImageCost prices one image. Unsupported model or size combinations are
// reported as not ok.
func ImageCost(model, size, quality string) (float64, bool) {
	switch model {
	case openai.DefaultImageModel:
		tiers, ok := dallE3Prices[size]
		if !ok {
			return 0, false
		}
		if quality == "hd" {
			return tiers[1], true
		}
		return tiers[0], true
	case "dall-e-2":
		price, ok := dallE2Prices[size]
		return price, ok
	}
	return 0, false
}

func AudioCost(model string, chars int) (float64, bool) {
	rate, ok := speechPrices[model]
	if !ok {
		return 0, false
	}
	return float64(chars) / 1000 * rate, true
}

// GenerationService dispatches image, audio and video jobs and keeps the
// ai_generations rows in step with the provider.
type GenerationService struct {
	store     GenerationStore
	brands    BrandStore
	archive   *ArchiveService
	keys      KeyResolver
	clients   OpenAIFactory
	providers *providers.Registry
	http      *http.Client
	log       *logger.Logger
}

func NewGenerationService(store GenerationStore, brands BrandStore, archive *ArchiveService, keys KeyResolver, clients OpenAIFactory, registry *providers.Registry, log *logger.Logger) *GenerationService {
	return &GenerationService{
		store:     store,
		brands:    brands,
		archive:   archive,
		keys:      keys,
		clients:   clients,
		providers: registry,
		http:      &http.Client{Timeout: 60 * time.Second},
		log:       log.With("service", "GenerationService"),
	}
}

func parseProfileID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Invalid("invalid brand profile id")
	}
	return id, nil
}

// insertPending records g as pending with its request parameters.
func (s *GenerationService) insertPending(ctx context.Context, g *models.AIGeneration, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}
	g.Parameters = raw
	g.Status = models.GenerationPending
	return s.store.InsertGeneration(ctx, g)
}

// begin records g and marks it processing for a synchronous vendor call.
func (s *GenerationService) begin(ctx context.Context, g *models.AIGeneration, params any) error {
	if err := s.insertPending(ctx, g, params); err != nil {
		return err
	}
	_, err := s.UpdateAIGenerationStatus(ctx, g.ID, database.NewGenerationUpdate().Status(models.GenerationProcessing))
	return err
}

// fail records a vendor failure. The request itself still succeeds; the
// failure is part of the returned generation.
func (s *GenerationService) fail(ctx context.Context, id uuid.UUID, msg string) (*models.Generation, error) {
	if strings.TrimSpace(msg) == "" {
		msg = apperr.UnknownMessage
	}
	if _, err := s.UpdateAIGenerationStatus(ctx, id, database.NewGenerationUpdate().
		Status(models.GenerationFailed).
		ErrorMessage(msg)); err != nil {
		return nil, err
	}
	return s.view(ctx, id)
}

func (s *GenerationService) view(ctx context.Context, id uuid.UUID) (*models.Generation, error) {
	g, err := s.store.GetGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	v := g.View()
	return &v, nil
}

func (s *GenerationService) GenerateImage(ctx context.Context, userID uuid.UUID, req models.ImageGenerationRequest) (*models.Generation, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.Invalid("prompt is required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = openai.DefaultImageModel
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = DefaultImageSize
	}
	quality := strings.TrimSpace(req.Quality)
	if quality == "" {
		quality = DefaultImageQuality
	}
	if quality != "standard" && quality != "hd" {
		return nil, apperr.Invalid("quality must be standard or hd")
	}
	cost, ok := ImageCost(model, size, quality)
	if !ok {
		return nil, apperr.Invalid("unsupported image model %q or size %q", model, size)
	}

	profileID, err := parseProfileID(req.BrandProfileID)
	if err != nil {
		return nil, err
	}
	profile, err := ownedProfile(ctx, s.brands, userID, profileID)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.keys.Resolve(ctx, "openai")
	if err != nil {
		return nil, err
	}

	g := &models.AIGeneration{
		BrandProfileID: profile.ID,
		GenerationType: models.GenerationTypeImage,
		Provider:       "openai",
		Model:          model,
		Prompt:         prompt,
		Cost:           &cost,
	}
	params := map[string]string{"size": size, "quality": quality}
	if req.Style != "" {
		params["style"] = req.Style
	}
	if err := s.begin(ctx, g, params); err != nil {
		return nil, err
	}

	img, err := s.clients.Media(apiKey).GenerateImage(ctx, openai.ImageRequest{
		Prompt:  prompt,
		Model:   model,
		Size:    size,
		Quality: quality,
		Style:   req.Style,
	})
	if err != nil {
		s.log.Warn("image generation failed", "generation_id", g.ID, "error", err)
		return s.fail(ctx, g.ID, openai.ErrorMessage(err))
	}

	update := database.NewGenerationUpdate().Status(models.GenerationComplete).Progress(100)
	resultURL := img.URL
	if data, err := s.imageBytes(ctx, img); err != nil {
		s.log.Warn("failed to fetch generated image", "generation_id", g.ID, "error", err)
	} else if entry := s.cache(ctx, profile, g, data, "image/png", "png"); entry != nil {
		resultURL = entry.PublicURL
		update.R2Key(entry.R2Key)
	}
	if resultURL != "" {
		update.ResultURL(resultURL)
	}
	if _, err := s.UpdateAIGenerationStatus(ctx, g.ID, update); err != nil {
		return nil, err
	}
	return s.view(ctx, g.ID)
}

func (s *GenerationService) imageBytes(ctx context.Context, img *openai.ImageResult) ([]byte, error) {
	if !s.archive.StorageAvailable() {
		return nil, nil
	}
	if img.B64JSON != "" {
		return base64.StdEncoding.DecodeString(img.B64JSON)
	}
	if img.URL == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// cache stores generated media in the archive. A nil entry means the result
// stays at the vendor URL.
func (s *GenerationService) cache(ctx context.Context, profile *models.BrandProfile, g *models.AIGeneration, data []byte, mime, ext string) *models.FileArchiveEntry {
	if len(data) == 0 || !s.archive.StorageAvailable() {
		return nil
	}
	entry, err := s.archive.SaveGenerated(ctx, FileInput{
		UserID:         profile.UserID,
		BrandProfileID: &profile.ID,
		GenerationID:   &g.ID,
		FileName:       fmt.Sprintf("%s-%s.%s", g.GenerationType, g.ID.String()[:8], ext),
		MimeType:       mime,
		Data:           data,
		Tags:           []string{g.GenerationType, g.Model},
	})
	if err != nil {
		s.log.Warn("failed to archive generated media", "generation_id", g.ID, "error", err)
		return nil
	}
	return entry
}

func (s *GenerationService) GenerateAudio(ctx context.Context, userID uuid.UUID, req models.AudioGenerationRequest) (*models.Generation, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperr.Invalid("text is required")
	}
	if n := len([]rune(text)); n > maxSpeechChars {
		return nil, apperr.Invalid("text exceeds %d characters", maxSpeechChars)
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = openai.DefaultSpeechModel
	}
	voice := strings.ToLower(strings.TrimSpace(req.Voice))
	if voice == "" {
		voice = openai.DefaultVoice
	}
	if !slices.Contains(speechVoices, voice) {
		return nil, apperr.Invalid("unsupported voice %q", voice)
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1
	}
	if speed < 0.25 || speed > 4 {
		return nil, apperr.Invalid("speed must be between 0.25 and 4")
	}
	cost, ok := AudioCost(model, len([]rune(text)))
	if !ok {
		return nil, apperr.Invalid("unsupported speech model %q", model)
	}
	if !s.archive.StorageAvailable() {
		return nil, apperr.Unavailable("object storage")
	}

	profileID, err := parseProfileID(req.BrandProfileID)
	if err != nil {
		return nil, err
	}
	profile, err := ownedProfile(ctx, s.brands, userID, profileID)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.keys.Resolve(ctx, "openai")
	if err != nil {
		return nil, err
	}

	g := &models.AIGeneration{
		BrandProfileID: profile.ID,
		GenerationType: models.GenerationTypeAudio,
		Provider:       "openai",
		Model:          model,
		Prompt:         text,
		Cost:           &cost,
	}
	if err := s.begin(ctx, g, map[string]any{"voice": voice, "speed": speed}); err != nil {
		return nil, err
	}

	audio, err := s.clients.Media(apiKey).GenerateSpeech(ctx, openai.SpeechRequest{
		Text:  text,
		Model: model,
		Voice: voice,
		Speed: speed,
	})
	if err != nil {
		s.log.Warn("speech generation failed", "generation_id", g.ID, "error", err)
		return s.fail(ctx, g.ID, openai.ErrorMessage(err))
	}

	entry := s.cache(ctx, profile, g, audio, "audio/mpeg", "mp3")
	if entry == nil {
		return s.fail(ctx, g.ID, "failed to store generated audio")
	}
	if _, err := s.UpdateAIGenerationStatus(ctx, g.ID, database.NewGenerationUpdate().
		Status(models.GenerationComplete).
		Progress(100).
		ResultURL(entry.PublicURL).
		R2Key(entry.R2Key)); err != nil {
		return nil, err
	}
	return s.view(ctx, g.ID)
}

// generationStatus maps the provider lattice onto stored statuses.
func generationStatus(st providers.Status) string {
	switch st {
	case providers.StatusQueued:
		return models.GenerationQueued
	case providers.StatusComplete:
		return models.GenerationComplete
	case providers.StatusError:
		return models.GenerationFailed
	default:
		return models.GenerationProcessing
	}
}

// RequestAIVideoGeneration submits a video job. The row is left queued or
// processing; VideoPoller drives it to a terminal state.
func (s *GenerationService) RequestAIVideoGeneration(ctx context.Context, userID uuid.UUID, req models.VideoGenerationRequest) (*models.Generation, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperr.Invalid("prompt is required")
	}
	name := req.Provider
	if strings.TrimSpace(name) == "" {
		name = DefaultVideoProvider
	}
	provider, ok := s.providers.Get(name)
	if !ok {
		return nil, apperr.Invalid("unknown video provider %q", name)
	}
	modelID := strings.TrimSpace(req.Model)
	if modelID == "" {
		modelID = provider.DefaultModel()
	}
	model, ok := providers.FindModel(provider, modelID)
	if !ok {
		return nil, apperr.Invalid("unknown model %q for provider %s", modelID, provider.Name())
	}
	duration := req.Duration
	if duration == 0 {
		duration = DefaultVideoDuration
	}
	if duration < 1 || duration > model.MaxDuration {
		return nil, apperr.Invalid("duration must be between 1 and %d seconds", model.MaxDuration)
	}

	profileID, err := parseProfileID(req.BrandProfileID)
	if err != nil {
		return nil, err
	}
	profile, err := ownedProfile(ctx, s.brands, userID, profileID)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.keys.Resolve(ctx, provider.Name())
	if err != nil {
		return nil, err
	}

	// Cost and parameters follow what the adapter actually sends: the clip
	// length is rounded to one the vendor renders, and unsupported aspect
	// ratios or resolutions fall back to the model's default size.
	videoReq := providers.VideoRequest{
		Prompt:      prompt,
		Model:       model.ID,
		Duration:    duration,
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
	}
	plan := provider.Plan(videoReq)
	billed := plan.Seconds
	if billed <= 0 {
		billed = duration
	}

	cost := model.Pricing.PerSecond * float64(billed)
	progress := 0
	g := &models.AIGeneration{
		BrandProfileID: profile.ID,
		GenerationType: models.GenerationTypeVideo,
		Provider:       provider.Name(),
		Model:          model.ID,
		Prompt:         prompt,
		Cost:           &cost,
		Progress:       &progress,
	}
	params := map[string]any{
		"duration":    duration,
		"seconds":     billed,
		"size":        plan.Size,
		"aspectRatio": req.AspectRatio,
		"resolution":  req.Resolution,
	}
	// The row stays pending until the vendor answers with its own status.
	if err := s.insertPending(ctx, g, params); err != nil {
		return nil, err
	}

	res := provider.GenerateVideo(ctx, apiKey, videoReq)
	if res.Status == providers.StatusError {
		s.log.Warn("video submission failed", "generation_id", g.ID, "provider", provider.Name(), "error", res.Error)
		return s.fail(ctx, g.ID, res.Error)
	}

	update := database.NewGenerationUpdate().
		Status(generationStatus(res.Status)).
		ProviderJobID(res.ProviderJobID).
		Progress(res.Progress)
	if _, err := s.UpdateAIGenerationStatus(ctx, g.ID, update); err != nil {
		return nil, err
	}
	return s.view(ctx, g.ID)
}

// UpdateAIGenerationStatus applies a partial update. It reports false when
// the row was already terminal and the update was not.
func (s *GenerationService) UpdateAIGenerationStatus(ctx context.Context, id uuid.UUID, u *database.GenerationUpdate) (bool, error) {
	if u == nil || u.Empty() {
		return false, nil
	}
	return s.store.UpdateGeneration(ctx, id, u)
}

// OwnedGeneration loads a generation row if it belongs to one of the user's
// profiles.
func (s *GenerationService) OwnedGeneration(ctx context.Context, userID, id uuid.UUID) (*models.AIGeneration, error) {
	g, err := s.store.GetGeneration(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := ownedProfile(ctx, s.brands, userID, g.BrandProfileID); err != nil {
		return nil, apperr.NotFound("generation")
	}
	return g, nil
}

func (s *GenerationService) GetAIGeneration(ctx context.Context, userID, id uuid.UUID) (*models.Generation, error) {
	g, err := s.OwnedGeneration(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	v := g.View()
	return &v, nil
}

func (s *GenerationService) ListGenerations(ctx context.Context, userID, profileID uuid.UUID, genType string) ([]models.Generation, error) {
	switch genType {
	case "", models.GenerationTypeImage, models.GenerationTypeAudio, models.GenerationTypeVideo:
	default:
		return nil, apperr.Invalid("unknown generation type %q", genType)
	}
	if _, err := ownedProfile(ctx, s.brands, userID, profileID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListGenerations(ctx, profileID, genType)
	if err != nil {
		return nil, err
	}
	out := make([]models.Generation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].View())
	}
	return out, nil
}

// AvailableModels lists the video catalogue per provider.
func (s *GenerationService) AvailableModels() map[string][]providers.Model {
	out := make(map[string][]providers.Model)
	for _, name := range s.providers.Names() {
		p, _ := s.providers.Get(name)
		out[name] = p.AvailableModels()
	}
	return out
}
