package specialist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

func fastPolicy() *resilience.Policy {
	return &resilience.Policy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

type fakePublisher struct {
	mu       sync.Mutex
	calls    int
	failures int
	lastReq  provider.PublishRequest
}

func (f *fakePublisher) Publish(_ context.Context, req provider.PublishRequest) (*provider.PublishReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.calls <= f.failures {
		return nil, errors.New("gateway timeout")
	}
	return &provider.PublishReceipt{PostID: "post-1", Channel: req.Channel, PostedAt: time.Now()}, nil
}

type fakeAnalytics struct {
	mu      sync.Mutex
	calls   int
	failing bool
	payload map[string]any
}

func (f *fakeAnalytics) Fetch(_ context.Context, _ provider.AnalyticsQuery) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return nil, errors.New("analytics api down")
	}
	return f.payload, nil
}

func (f *fakeAnalytics) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func postTask(id, content string) *types.Task {
	return types.NewTask(id, "post_content", types.PriorityNormal,
		map[string]any{"content": content}, types.RoleTwitterManager, types.RoleSocialMediaManager)
}

func TestChannelManager_PostContentPublishes(t *testing.T) {
	pub := &fakePublisher{}
	mgr := NewTwitterManager(pub, nil, fastPolicy(), zap.NewNop())

	res := mgr.Execute(context.Background(), postTask("t1", "hello world"))

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, "post-1", res.Payload["post_id"])
	assert.Equal(t, "twitter", res.Payload["channel"])
	assert.Equal(t, "hello world", pub.lastReq.Content)
	assert.Equal(t, "twitter", pub.lastReq.Channel)
}

func TestChannelManager_PostContentRetriesTransientFailure(t *testing.T) {
	pub := &fakePublisher{failures: 2}
	mgr := NewLinkedInManager(pub, nil, fastPolicy(), zap.NewNop())

	task := types.NewTask("t1", "post_content", types.PriorityNormal,
		map[string]any{"content": "hi"}, types.RoleLinkedInManager, types.RoleSocialMediaManager)
	res := mgr.Execute(context.Background(), task)

	assert.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, 3, pub.calls, "two transient failures then success")
}

func TestChannelManager_PostContentExhaustsRetries(t *testing.T) {
	pub := &fakePublisher{failures: 100}
	mgr := NewTwitterManager(pub, nil, fastPolicy(), zap.NewNop())

	res := mgr.Execute(context.Background(), postTask("t1", "hi"))

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "failed after 4 attempts")
	assert.Equal(t, 4, pub.calls)
}

func TestChannelManager_FetchAnalyticsCachesWithinTTL(t *testing.T) {
	src := &fakeAnalytics{payload: map[string]any{"impressions": 1200}}
	mgr := NewTwitterManager(nil, src, fastPolicy(), zap.NewNop())

	task := types.NewTask("t1", "fetch_analytics", types.PriorityNormal, nil,
		types.RoleTwitterManager, types.RoleSocialMediaManager)

	first := mgr.Execute(context.Background(), task)
	require.Equal(t, types.StatusCompleted, first.Status)
	metrics, ok := first.Payload["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1200, metrics["impressions"])
	assert.Equal(t, false, first.Payload["stale"])

	second := mgr.Execute(context.Background(), task)
	assert.Equal(t, types.StatusCompleted, second.Status)
	assert.Equal(t, 1, src.callCount(), "second read served from cache")
}

func TestChannelManager_FetchAnalyticsNoCacheNoFallback(t *testing.T) {
	src := &fakeAnalytics{failing: true}
	mgr := NewLinkedInManager(nil, src, fastPolicy(), zap.NewNop())

	task := types.NewTask("t1", "fetch_analytics", types.PriorityNormal, nil,
		types.RoleLinkedInManager, types.RoleSocialMediaManager)
	res := mgr.Execute(context.Background(), task)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "no cached fallback")
}

func TestChannelManager_UnconfiguredPublisherFailsClosed(t *testing.T) {
	mgr := NewTwitterManager(nil, nil, fastPolicy(), zap.NewNop())

	res := mgr.Execute(context.Background(), postTask("t1", "hi"))

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "not configured")
}
