package opentdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubSource struct {
	total     int
	token     string
	questions []RawQuestion
	err       error
}

func (s *stubSource) TotalQuestionCount(context.Context) (int, error) { return s.total, s.err }
func (s *stubSource) RequestToken(context.Context) (string, error) { return s.token, s.err }
func (s *stubSource) Questions(context.Context, int, string) ([]RawQuestion, error) {
	return s.questions, s.err
}

func TestWithLogging_Success(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := WithLogging(&stubSource{questions: make([]RawQuestion, 3)}, zap.New(core))

	qs, err := src.Questions(context.Background(), 3, "tok")
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "remote call", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, EndpointQuestions, fields["endpoint"])
	assert.EqualValues(t, 3, fields["amount"])
	assert.EqualValues(t, 3, fields["received"])
	assert.NotContains(t, fields, "token")
}

func TestWithLogging_Failure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := WithLogging(&stubSource{err: &APIError{Endpoint: EndpointToken, Code: CodeRateLimit}}, zap.New(core))

	_, err := src.RequestToken(context.Background())
	require.Error(t, err)

	entries := logs.FilterMessage("remote call failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.EqualValues(t, CodeRateLimit, entries[0].ContextMap()["response_code"])
}

func TestWithLogging_NilLogger(t *testing.T) {
	src := WithLogging(&stubSource{total: 7}, nil)
	n, err := src.TotalQuestionCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
