package database_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/models"
)

func TestGenerationUpdate_BuildTerminal(t *testing.T) {
	id := uuid.New()
	query, args := database.NewGenerationUpdate().
		Status(models.GenerationComplete).
		ResultURL("https://cdn.example.com/v.mp4").
		Progress(100).
		Build(id)

	assert.Equal(t,
		"UPDATE ai_generations SET status = $1, result_url = $2, progress = $3, completed_at = COALESCE(completed_at, NOW()) WHERE id = $4",
		query)
	assert.Equal(t, []any{"complete", "https://cdn.example.com/v.mp4", 100, id}, args)
}

func TestGenerationUpdate_BuildNonTerminalIsGuarded(t *testing.T) {
	id := uuid.New()
	query, args := database.NewGenerationUpdate().Progress(40).Build(id)

	assert.Equal(t,
		"UPDATE ai_generations SET progress = $1 WHERE id = $2 AND status NOT IN ('complete', 'failed')",
		query)
	assert.Equal(t, []any{40, id}, args)
	assert.NotContains(t, query, "completed_at")
}

func TestGenerationUpdate_Empty(t *testing.T) {
	query, args := database.NewGenerationUpdate().Build(uuid.New())
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestGenerationUpdate_ProgressClamped(t *testing.T) {
	_, args := database.NewGenerationUpdate().Progress(140).Build(uuid.New())
	assert.Equal(t, 100, args[0])
}

func TestGenerationUpdate_ApplyIsIdempotentOnTerminal(t *testing.T) {
	g := &models.AIGeneration{Status: models.GenerationProcessing}
	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	changed := database.NewGenerationUpdate().Status(models.GenerationFailed).ErrorMessage("boom").Apply(g, first)
	require.True(t, changed)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, first, *g.CompletedAt)

	changed = database.NewGenerationUpdate().Status(models.GenerationFailed).Apply(g, first.Add(time.Hour))
	assert.True(t, changed)
	assert.Equal(t, first, *g.CompletedAt)

	changed = database.NewGenerationUpdate().Status(models.GenerationProcessing).Progress(10).Apply(g, first)
	assert.False(t, changed)
	assert.Equal(t, models.GenerationFailed, g.Status)
	assert.Nil(t, g.Progress)
}

func TestGenerationUpdate_BuildStatusCannotMoveBackward(t *testing.T) {
	id := uuid.New()
	query, args := database.NewGenerationUpdate().Status(models.GenerationQueued).ProviderJobID("job-1").Build(id)

	assert.Equal(t,
		"UPDATE ai_generations SET status = $1, provider_job_id = $2 WHERE id = $3 AND status NOT IN ('processing', 'complete', 'failed')",
		query)
	assert.Equal(t, []any{"queued", "job-1", id}, args)
}

func TestGenerationUpdate_ApplyKeepsLifecycleOrder(t *testing.T) {
	now := time.Now()
	g := &models.AIGeneration{Status: models.GenerationPending}

	require.True(t, database.NewGenerationUpdate().Status(models.GenerationQueued).Apply(g, now))
	require.True(t, database.NewGenerationUpdate().Status(models.GenerationProcessing).Progress(20).Apply(g, now))

	assert.False(t, database.NewGenerationUpdate().Status(models.GenerationQueued).Progress(5).Apply(g, now))
	assert.Equal(t, models.GenerationProcessing, g.Status)
	assert.Equal(t, 20, *g.Progress)

	assert.True(t, database.NewGenerationUpdate().Status(models.GenerationProcessing).Progress(60).Apply(g, now))
	assert.Equal(t, 60, *g.Progress)
}
