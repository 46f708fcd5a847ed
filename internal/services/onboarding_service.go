package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"brand-studio-backend/internal/apperr"
	"brand-studio-backend/internal/brand"
	"brand-studio-backend/internal/logger"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/onboarding"
	"brand-studio-backend/internal/openai"
)

// historyWindow is how many stored messages are replayed to the chat model.
const historyWindow = 20

const extractionSystemPrompt = "You extract structured brand data from conversations. Reply with a single JSON object only."

type ChatInput struct {
	UserID      uuid.UUID
	ProfileID   *uuid.UUID
	Message     string
	Attachments json.RawMessage
}

type ChatResult struct {
	ProfileID     uuid.UUID `json:"profileId"`
	Step          string    `json:"step"`
	StepCompleted bool      `json:"stepCompleted"`
	NextStep      string    `json:"nextStep,omitempty"`
}

// OnboardingService runs the brand-building conversation. Replies stream to
// the caller; persisting the reply, advancing the step and extracting fields
// happen after the stream ends, detached from the request.
type OnboardingService struct {
	brands   *BrandService
	store    BrandStore
	messages MessageStore
	keys     KeyResolver
	clients  OpenAIFactory
	log      *logger.Logger

	pending sync.WaitGroup
}

func NewOnboardingService(brands *BrandService, store BrandStore, messages MessageStore, keys KeyResolver, clients OpenAIFactory, log *logger.Logger) *OnboardingService {
	return &OnboardingService{
		brands:   brands,
		store:    store,
		messages: messages,
		keys:     keys,
		clients:  clients,
		log:      log.With("service", "OnboardingService"),
	}
}

// Chat handles one user turn. onDelta receives reply text with the
// completion marker removed.
func (s *OnboardingService) Chat(ctx context.Context, in ChatInput, onDelta func(string) error) (*ChatResult, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperr.Invalid("message is required")
	}

	apiKey, err := s.keys.Resolve(ctx, "openai")
	if err != nil {
		return nil, err
	}

	var profile *models.BrandProfile
	if in.ProfileID == nil {
		profile, err = s.store.CreateProfile(ctx, in.UserID)
	} else {
		profile, err = ownedProfile(ctx, s.store, in.UserID, *in.ProfileID)
	}
	if err != nil {
		return nil, err
	}
	if profile.Status == models.ProfileStatusArchived {
		return nil, apperr.Invalid("brand profile is archived")
	}
	step := profile.OnboardingStep
	if !onboarding.IsValidStep(step) {
		step = onboarding.FirstStep()
	}

	userMsg := &models.OnboardingMessage{
		ProfileID:   profile.ID,
		Role:        models.MessageRoleUser,
		Content:     message,
		Step:        step,
		Attachments: in.Attachments,
	}
	if err := s.messages.InsertMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	history, err := s.messages.ListMessages(ctx, profile.ID, historyWindow)
	if err != nil {
		return nil, err
	}

	system := onboarding.SystemPromptForStep(step, s.promptData(profile, message))
	if system == "" {
		return nil, fmt.Errorf("no prompt for onboarding step %q", step)
	}

	chat := s.clients.Chat(apiKey)
	var filter onboarding.MarkerFilter
	full, streamErr := chat.StreamChat(ctx, system, chatHistory(history), func(delta string) error {
		if out := filter.Push(delta); out != "" {
			return onDelta(out)
		}
		return nil
	})
	if rest := filter.Flush(); rest != "" && streamErr == nil {
		streamErr = onDelta(rest)
	}
	if streamErr != nil && strings.TrimSpace(full) == "" {
		return nil, apperr.New(http.StatusBadGateway, "chat_failed", errors.New(openai.ErrorMessage(streamErr)))
	}

	reply, done := onboarding.DetectCompletion(full)
	result := &ChatResult{ProfileID: profile.ID, Step: step, StepCompleted: done}
	if done {
		result.NextStep, _ = onboarding.NextStep(step)
	}

	turn := append(history, models.OnboardingMessage{Role: models.MessageRoleAssistant, Content: reply, Step: step})
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.finishTurn(context.WithoutCancel(ctx), profile, step, reply, done, turn, chat)
	}()

	if streamErr != nil {
		s.log.Warn("chat stream ended early", "profile_id", profile.ID, "error", streamErr)
	}
	return result, nil
}

// promptData is the brand context for the system prompt. While the name is
// unconfirmed, a name guessed from the message stands in for it.
func (s *OnboardingService) promptData(profile *models.BrandProfile, message string) map[string]any {
	data := make(map[string]any, len(profile.Fields)+1)
	for k, v := range profile.Fields {
		data[k] = v
	}
	if !profile.BrandNameConfirmed && !brand.Truthy(data[brand.NameField]) {
		if guess, ok := onboarding.GuessBrandName(message); ok {
			data[brand.NameField] = guess
		}
	}
	return data
}

func chatHistory(history []models.OnboardingMessage) []openai.Message {
	out := make([]openai.Message, 0, len(history))
	for _, m := range history {
		out = append(out, openai.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (s *OnboardingService) finishTurn(ctx context.Context, profile *models.BrandProfile, step, reply string, done bool, turn []models.OnboardingMessage, chat ChatModel) {
	log := s.log.With("profile_id", profile.ID, "step", step)

	if strings.TrimSpace(reply) != "" {
		msg := &models.OnboardingMessage{ProfileID: profile.ID, Role: models.MessageRoleAssistant, Content: reply, Step: step}
		if err := s.messages.InsertMessage(ctx, msg); err != nil {
			log.Error("failed to save assistant message", "error", err)
		}
	}

	if done {
		if next, ok := onboarding.NextStep(step); ok {
			status := models.ProfileStatusInProgress
			if next == onboarding.StepComplete {
				status = models.ProfileStatusCompleted
			}
			if err := s.store.SetOnboardingStep(ctx, profile.ID, next, status); err != nil {
				log.Error("failed to advance onboarding step", "next", next, "error", err)
			}
		}
	}

	prompt := onboarding.BuildExtractionPrompt(step, extractionMessages(turn))
	if prompt == "" {
		return
	}
	raw, err := chat.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		log.Warn("extraction call failed", "error", openai.ErrorMessage(err))
		return
	}
	fields := onboarding.ParseExtractionResponse(&raw)
	if fields == nil {
		return
	}
	written := s.brands.ApplyExtracted(ctx, profile, fields, step)
	log.Debug("applied extracted fields", "count", written)
}

func extractionMessages(turn []models.OnboardingMessage) []onboarding.Message {
	out := make([]onboarding.Message, 0, len(turn))
	for _, m := range turn {
		out = append(out, onboarding.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// Wait blocks until detached post-turn work has finished.
func (s *OnboardingService) Wait() {
	s.pending.Wait()
}

func (s *OnboardingService) History(ctx context.Context, userID, profileID uuid.UUID) ([]models.OnboardingMessage, error) {
	if _, err := ownedProfile(ctx, s.store, userID, profileID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListMessages(ctx, profileID, 0)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.OnboardingMessage{}
	}
	return messages, nil
}

// SetStep moves the wizard one step forward or back.
func (s *OnboardingService) SetStep(ctx context.Context, userID, profileID uuid.UUID, direction string) (*models.StepResponse, error) {
	profile, err := ownedProfile(ctx, s.store, userID, profileID)
	if err != nil {
		return nil, err
	}

	var target string
	var ok bool
	switch direction {
	case "next":
		target, ok = onboarding.NextStep(profile.OnboardingStep)
	case "previous":
		target, ok = onboarding.PreviousStep(profile.OnboardingStep)
	default:
		return nil, apperr.Invalid("direction must be next or previous")
	}
	if !ok {
		return nil, apperr.Invalid("no %s step from %q", direction, profile.OnboardingStep)
	}

	status := models.ProfileStatusInProgress
	if target == onboarding.StepComplete {
		status = models.ProfileStatusCompleted
	}
	if err := s.store.SetOnboardingStep(ctx, profileID, target, status); err != nil {
		return nil, err
	}
	return &models.StepResponse{
		ProfileID: profileID.String(),
		Step:      target,
		Progress:  onboarding.StepProgress(target),
		Status:    status,
	}, nil
}
