package llm

import (
	"context"
	"time"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/sirupsen/logrus"
)

type loggingProvider struct {
	inner Provider
}

// WithLogging logs latency, token usage and outcome of every call.
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Complete(ctx, req)

	fields := logrus.Fields{
		"llm_model":   l.inner.ModelID(),
		"llm_purpose": PurposeFrom(ctx),
		"latency_ms":  time.Since(start).Milliseconds(),
	}
	if resp != nil {
		fields["llm_model"] = resp.Model
		fields["input_tokens"] = resp.Usage.InputTokens
		fields["output_tokens"] = resp.Usage.OutputTokens
		fields["stop_reason"] = resp.StopReason
	}

	log := config.WithContext(ctx).WithFields(fields)
	if err != nil {
		log.WithError(err).Warn("LLM request failed")
	} else {
		log.Info("LLM request completed")
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
