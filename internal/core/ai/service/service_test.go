package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls   int32
	reply   string
	err     error
	prompts chan string
}

func (p *fakeProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.prompts != nil {
		p.prompts <- req.Messages[0].Content
	}
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: p.reply}, nil
}

func (p *fakeProvider) GetModel() string          { return "fake" }
func (p *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (p *fakeProvider) Close() error              { return nil }

var queueCfg = &config.QueueConfig{Workers: 1, MaxSize: 4}

func TestProcessRequestUsesCache(t *testing.T) {
	p := &fakeProvider{reply: "[]"}
	c := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	s := NewService(p, c, queueCfg)
	defer s.Close()

	first, err := s.ProcessRequest(context.Background(), "  list \n the   items ")
	require.NoError(t, err)
	assert.Equal(t, "[]", first.Content)
	assert.False(t, first.CacheHit)

	second, err := s.ProcessRequest(context.Background(), "list the items")
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.calls))
}

func TestProcessRequestWithoutCache(t *testing.T) {
	p := &fakeProvider{reply: "ok", prompts: make(chan string, 2)}
	s := NewService(p, nil, queueCfg)
	defer s.Close()

	for i := 0; i < 2; i++ {
		_, err := s.ProcessRequest(context.Background(), "a\tb")
		require.NoError(t, err)
		assert.Equal(t, "a b", <-p.prompts)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&p.calls))
}

func TestProcessRequestWrapsProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("upstream down")}
	s := NewService(p, nil, queueCfg)
	defer s.Close()

	_, err := s.ProcessRequest(context.Background(), "hello")
	assert.ErrorIs(t, err, common.ErrAIServiceError)
}

func TestProcessRequestRejectsEmptyPrompt(t *testing.T) {
	s := NewService(&fakeProvider{}, nil, queueCfg)
	defer s.Close()

	_, err := s.ProcessRequest(context.Background(), " \n ")
	assert.True(t, common.IsValidationError(err))
}

func TestStatus(t *testing.T) {
	c := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	s := NewService(&fakeProvider{reply: "x"}, c, queueCfg)
	defer s.Close()

	status := s.Status()
	assert.Equal(t, "fake", status["model"])
	assert.Contains(t, status, "queue")
	assert.Contains(t, status, "cache")
}
