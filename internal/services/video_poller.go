package services

import (
	"context"
	"fmt"
	"time"

	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/providers"
)

const (
	PollInterval    = 5 * time.Second
	MaxPollAttempts = 120
)

// StatusTimeout is emitted when polling gives up. The row is left as is so a
// later watch can resume.
const StatusTimeout = "timeout"

type StatusEvent struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	VideoURL string `json:"videoUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// VideoPoller relays provider progress for a video generation and persists
// every change it sees.
type VideoPoller struct {
	generations *GenerationService
	brands      BrandStore
	archive     *ArchiveService
	keys        KeyResolver
	providers   *providers.Registry
	log         *logger.Logger

	interval    time.Duration
	maxAttempts int
}

func NewVideoPoller(generations *GenerationService, brands BrandStore, archive *ArchiveService, keys KeyResolver, registry *providers.Registry, log *logger.Logger) *VideoPoller {
	return &VideoPoller{
		generations: generations,
		brands:      brands,
		archive:     archive,
		keys:        keys,
		providers:   registry,
		log:         log.With("service", "VideoPoller"),
		interval:    PollInterval,
		maxAttempts: MaxPollAttempts,
	}
}

// WithSchedule overrides the poll interval and attempt bound.
func (p *VideoPoller) WithSchedule(interval time.Duration, maxAttempts int) *VideoPoller {
	p.interval = interval
	p.maxAttempts = maxAttempts
	return p
}

// Watch streams status events for g until it is terminal, polling times out
// or ctx ends. A row that is already terminal yields exactly one event and
// no provider calls. The channel is closed when watching stops.
func (p *VideoPoller) Watch(ctx context.Context, g *models.AIGeneration) <-chan StatusEvent {
	out := make(chan StatusEvent, 1)
	if models.IsTerminalGeneration(g.Status) {
		out <- terminalEvent(g)
		close(out)
		return out
	}
	go p.poll(ctx, g, out)
	return out
}

func terminalEvent(g *models.AIGeneration) StatusEvent {
	if g.Status == models.GenerationComplete {
		ev := StatusEvent{Status: string(providers.StatusComplete), Progress: 100}
		if g.ResultURL != nil {
			ev.VideoURL = *g.ResultURL
		}
		return ev
	}
	ev := StatusEvent{Status: string(providers.StatusError)}
	if g.Progress != nil {
		ev.Progress = *g.Progress
	}
	if g.ErrorMessage != nil {
		ev.Error = *g.ErrorMessage
	}
	return ev
}

func emit(ctx context.Context, out chan<- StatusEvent, ev StatusEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *VideoPoller) poll(ctx context.Context, g *models.AIGeneration, out chan<- StatusEvent) {
	defer close(out)
	log := p.log.With("generation_id", g.ID)

	provider, ok := p.providers.Get(g.Provider)
	if !ok {
		emit(ctx, out, StatusEvent{Status: string(providers.StatusError), Error: fmt.Sprintf("unknown video provider %q", g.Provider)})
		return
	}
	if g.ProviderJobID == nil || *g.ProviderJobID == "" {
		emit(ctx, out, StatusEvent{Status: string(providers.StatusError), Error: "generation has no provider job"})
		return
	}
	apiKey, err := p.keys.Resolve(ctx, provider.Name())
	if err != nil {
		emit(ctx, out, StatusEvent{Status: string(providers.StatusError), Error: err.Error()})
		return
	}

	seen := providerStatus(g.Status)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}

		res := provider.GetStatus(ctx, apiKey, *g.ProviderJobID)
		if ctx.Err() != nil {
			return
		}
		// Vendors can report queued again after processing; never step back.
		if !res.Status.Terminal() && res.Status.Rank() < seen.Rank() {
			res.Status = seen
		}
		seen = res.Status
		ev := p.record(ctx, log, g, provider, apiKey, res)
		if !emit(ctx, out, ev) {
			return
		}
		if res.Status.Terminal() {
			return
		}
	}

	log.Info("stopped polling video generation", "attempts", p.maxAttempts)
	emit(ctx, out, StatusEvent{Status: StatusTimeout})
}

// record persists one poll result and returns the event to relay.
func (p *VideoPoller) record(ctx context.Context, log *logger.Logger, g *models.AIGeneration, provider providers.VideoProvider, apiKey string, res providers.VideoResult) StatusEvent {
	// Terminal writes must land even if the client has gone away.
	detached := context.WithoutCancel(ctx)

	switch res.Status {
	case providers.StatusComplete:
		url := p.cacheVideo(detached, log, g, provider, apiKey, res.VideoURL)
		update := database.NewGenerationUpdate().Status(models.GenerationComplete).Progress(100)
		if url.resultURL != "" {
			update.ResultURL(url.resultURL)
		}
		if url.r2Key != "" {
			update.R2Key(url.r2Key)
		}
		if _, err := p.generations.UpdateAIGenerationStatus(detached, g.ID, update); err != nil {
			log.Error("failed to record completed video", "error", err)
		}
		return StatusEvent{Status: string(providers.StatusComplete), Progress: 100, VideoURL: url.resultURL}

	case providers.StatusError:
		if _, err := p.generations.UpdateAIGenerationStatus(detached, g.ID, database.NewGenerationUpdate().
			Status(models.GenerationFailed).
			ErrorMessage(res.Error)); err != nil {
			log.Error("failed to record failed video", "error", err)
		}
		return StatusEvent{Status: string(providers.StatusError), Progress: res.Progress, Error: res.Error}

	default:
		if _, err := p.generations.UpdateAIGenerationStatus(ctx, g.ID, database.NewGenerationUpdate().
			Status(generationStatus(res.Status)).
			Progress(res.Progress)); err != nil {
			log.Warn("failed to record video progress", "error", err)
		}
		return StatusEvent{Status: string(res.Status), Progress: res.Progress}
	}
}

// providerStatus maps a stored non-terminal status back to the provider's
// vocabulary.
func providerStatus(status string) providers.Status {
	switch status {
	case models.GenerationProcessing:
		return providers.StatusProcessing
	case models.GenerationQueued:
		return providers.StatusQueued
	}
	return ""
}

type cachedVideo struct {
	resultURL string
	r2Key     string
}

// cacheVideo copies the finished video into the archive. Any failure falls
// back to the provider URL.
func (p *VideoPoller) cacheVideo(ctx context.Context, log *logger.Logger, g *models.AIGeneration, provider providers.VideoProvider, apiKey, videoURL string) cachedVideo {
	fallback := cachedVideo{resultURL: videoURL}
	if !p.archive.StorageAvailable() || videoURL == "" {
		return fallback
	}
	profile, err := p.brands.GetProfile(ctx, g.BrandProfileID)
	if err != nil {
		log.Warn("failed to load profile for video cache", "error", err)
		return fallback
	}
	data, err := provider.DownloadVideo(ctx, apiKey, videoURL)
	if err != nil {
		log.Warn("failed to download video", "error", err)
		return fallback
	}
	entry, err := p.archive.SaveGenerated(ctx, FileInput{
		UserID:         profile.UserID,
		BrandProfileID: &profile.ID,
		GenerationID:   &g.ID,
		FileName:       fmt.Sprintf("video-%s.mp4", g.ID.String()[:8]),
		MimeType:       "video/mp4",
		Data:           data,
		Tags:           []string{models.GenerationTypeVideo, g.Model},
	})
	if err != nil {
		log.Warn("failed to archive video", "error", err)
		return fallback
	}
	return cachedVideo{resultURL: entry.PublicURL, r2Key: entry.R2Key}
}
