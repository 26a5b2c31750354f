package opentdb

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// LoggingSource is a decorator that logs every remote call.
type LoggingSource struct {
	inner  Source
	logger *zap.Logger
}

// WithLogging wraps a Source with structured call logging.
func WithLogging(src Source, logger *zap.Logger) Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingSource{inner: src, logger: logger.Named("opentdb")}
}

func (l *LoggingSource) TotalQuestionCount(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := l.inner.TotalQuestionCount(ctx)
	l.log(EndpointCount, start, err, zap.Int("total", n))
	return n, err
}

func (l *LoggingSource) RequestToken(ctx context.Context) (string, error) {
	start := time.Now()
	token, err := l.inner.RequestToken(ctx)
	l.log(EndpointToken, start, err, zap.Bool("token_issued", token != ""))
	return token, err
}

func (l *LoggingSource) Questions(ctx context.Context, amount int, token string) ([]RawQuestion, error) {
	start := time.Now()
	qs, err := l.inner.Questions(ctx, amount, token)
	l.log(EndpointQuestions, start, err, zap.Int("amount", amount), zap.Int("received", len(qs)))
	return qs, err
}

func (l *LoggingSource) log(endpoint string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("endpoint", endpoint),
		zap.Duration("duration", time.Since(start)),
	)
	if err == nil {
		l.logger.Info("remote call", fields...)
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("response_code", apiErr.Code))
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, zap.Int("http_status", statusErr.StatusCode))
	}
	fields = append(fields, zap.Error(err))
	l.logger.Warn("remote call failed", fields...)
}
