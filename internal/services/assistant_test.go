package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) GenerateText(_ context.Context, _, _ string) (string, error) {
	m.calls++
	return m.reply, m.err
}

func TestAssistantAnswerFAQUsesModel(t *testing.T) {
	model := &stubModel{reply: "Short helpful answer."}
	svc, err := NewAssistantService(logger.Nop(), model)
	require.NoError(t, err)

	answer, err := svc.AnswerFAQ(context.Background(), "How do clinical trials work?")
	require.NoError(t, err)
	assert.Equal(t, "Short helpful answer.", answer)
	assert.Equal(t, 1, model.calls)
}

func TestAssistantAnswerFAQFallsBackToCorpus(t *testing.T) {
	model := &stubModel{err: errors.New("provider down")}
	svc, err := NewAssistantService(logger.Nop(), model)
	require.NoError(t, err)

	answer, err := svc.AnswerFAQ(context.Background(), "How do I join a clinical trial?")
	require.NoError(t, err)
	assert.Contains(t, answer, "ClinicalTrials.gov")
}

func TestAssistantAnswerFAQApologyWhenNothingMatches(t *testing.T) {
	svc, err := NewAssistantService(logger.Nop(), nil)
	require.NoError(t, err)

	answer, err := svc.AnswerFAQ(context.Background(), "what is the airspeed of a swallow")
	require.NoError(t, err)
	assert.Equal(t, faqApology, answer)
}

func TestAssistantAnswerFAQValidation(t *testing.T) {
	svc, err := NewAssistantService(logger.Nop(), nil)
	require.NoError(t, err)
	_, err = svc.AnswerFAQ(context.Background(), "   ")
	assertStatusCode(t, err, http.StatusBadRequest)
}

func TestAssistantCorrectSpelling(t *testing.T) {
	ctx := context.Background()

	t.Run("model correction", func(t *testing.T) {
		svc, err := NewAssistantService(logger.Nop(), &stubModel{reply: "melanoma"})
		require.NoError(t, err)
		got, err := svc.CorrectSpelling(ctx, "melonoma")
		require.NoError(t, err)
		assert.Equal(t, "melanoma", got)
	})

	t.Run("model failure returns term unchanged", func(t *testing.T) {
		svc, err := NewAssistantService(logger.Nop(), &stubModel{err: errors.New("down")})
		require.NoError(t, err)
		got, err := svc.CorrectSpelling(ctx, "melonoma")
		require.NoError(t, err)
		assert.Equal(t, "melonoma", got)
	})

	t.Run("no model returns term unchanged", func(t *testing.T) {
		svc, err := NewAssistantService(logger.Nop(), nil)
		require.NoError(t, err)
		got, err := svc.CorrectSpelling(ctx, "melonoma")
		require.NoError(t, err)
		assert.Equal(t, "melonoma", got)
	})

	t.Run("multi-line reply is rejected", func(t *testing.T) {
		svc, err := NewAssistantService(logger.Nop(), &stubModel{reply: "melanoma\nis a skin cancer"})
		require.NoError(t, err)
		got, err := svc.CorrectSpelling(ctx, "melonoma")
		require.NoError(t, err)
		assert.Equal(t, "melonoma", got)
	})
}
