package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okScore = json.RawMessage(`{"score":3,"max_score":5,"feedback":"ok"}`)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   any
		wantCalls int
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{{Content: okScore}},
			wantCalls: 1,
		},
		{
			name:      "transient then success",
			responses: []MockResponse{down(), {Content: okScore}},
			wantCalls: 2,
		},
		{
			name:      "rate limit honours retry-after",
			responses: []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, {Content: okScore}},
			wantCalls: 2,
		},
		{
			name:      "gives up after max attempts",
			responses: []MockResponse{down(), down(), down(), {Content: okScore}},
			wantErr:   &ErrProviderUnavailable{},
			wantCalls: 3,
		},
		{
			name:      "truncation is not retried",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}, {Content: okScore}},
			wantErr:   &ErrMaxTokensExceeded{},
			wantCalls: 1,
		},
		{
			name: "schema violation retried once",
			responses: []MockResponse{
				{Content: json.RawMessage(`{"score":"three"}`)},
				{Content: json.RawMessage(`{"score":"three"}`)},
				{Content: okScore},
			},
			wantErr:   &ErrInvalidResponse{},
			wantCalls: 2,
		},
		{
			name: "schema violation then success",
			responses: []MockResponse{
				{Content: json.RawMessage(`{}`)},
				{Content: okScore},
			},
			wantCalls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry(), nil)

			resp, err := p.Generate(context.Background(), SingleTurn("", "rosa", gradeSchema()))
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.JSONEq(t, string(okScore), string(resp.Content))
				return
			}
			require.Error(t, err)
			assert.IsType(t, tt.wantErr, err)
		})
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: okScore})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_LogsEachRetry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	mock := NewMockProvider(down(), MockResponse{Content: okScore})

	ctx := WithPurpose(context.Background(), "drill-score")
	_, err := WithRetry(mock, fastRetry(), logger).Generate(ctx, Request{})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "llm retry")
	assert.Contains(t, buf.String(), "purpose=drill-score")
	assert.Contains(t, buf.String(), "attempt=1")
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: okScore})
	p := WithRetry(mock, RetryConfig{}, nil)
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, failFatal, classify(context.DeadlineExceeded))
	assert.Equal(t, failFatal, classify(&ErrMaxTokensExceeded{}))
	assert.Equal(t, failInvalid, classify(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.Equal(t, failTransient, classify(&ErrRateLimit{}))
	assert.Equal(t, failTransient, classify(errors.New("connection reset")))
}
