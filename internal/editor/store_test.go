package editor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	_, err := NewStore(nil, config.EditorConfig{})
	require.Error(t, err)

	s, err := NewStore(newMemoryKV(), config.EditorConfig{BaselineTTL: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, s.draftTTL)
	assert.Equal(t, 24*time.Hour, s.baselineTTL, "baseline never expires before its draft")
}

func TestStoreBaselineRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	s, err := NewStore(kv, config.EditorConfig{DraftTTL: time.Hour, BaselineTTL: 2 * time.Hour})
	require.NoError(t, err)
	ctx := context.Background()

	doc := decodeDoc(t, brandDoc)
	revision, err := s.SaveBaseline(ctx, "b1", doc)
	require.NoError(t, err)
	require.NotEmpty(t, revision)
	assert.Equal(t, 2*time.Hour, kv.ttl(kv.BaselineKey("b1", revision)))

	got, err := s.Baseline(ctx, "b1", revision)
	require.NoError(t, err)
	home := got["home"].(map[string]any)
	section := home["sections"].([]any)[0].(map[string]any)
	assert.Equal(t, json.Number("0"), section["key"], "numbers keep their literal form")

	_, err = s.Baseline(ctx, "b1", "missing")
	assert.ErrorIs(t, err, ErrBaselineNotFound)
	_, err = s.Baseline(ctx, "b1", "")
	assert.ErrorIs(t, err, ErrBaselineNotFound)
}

func TestStoreDraftReadSlidesExpiry(t *testing.T) {
	kv := newMemoryKV()
	s, err := NewStore(kv, config.EditorConfig{DraftTTL: time.Hour, BaselineTTL: 3 * time.Hour})
	require.NoError(t, err)
	ctx := context.Background()

	revision, err := s.SaveBaseline(ctx, "b1", decodeDoc(t, brandDoc))
	require.NoError(t, err)
	require.NoError(t, s.SaveDraft(ctx, &Draft{BrandID: "b1", BaselineRevision: revision}))

	// Simulate time passing in redis.
	require.NoError(t, kv.Set(ctx, kv.DraftKey("b1"), kv.entries[kv.DraftKey("b1")].value, time.Minute))
	require.NoError(t, kv.Set(ctx, kv.BaselineKey("b1", revision), kv.entries[kv.BaselineKey("b1", revision)].value, time.Minute))

	d, err := s.Draft(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, revision, d.BaselineRevision)
	assert.Equal(t, time.Hour, kv.ttl(kv.DraftKey("b1")))
	assert.Equal(t, 3*time.Hour, kv.ttl(kv.BaselineKey("b1", revision)))

	require.NoError(t, s.DeleteDraft(ctx, "b1"))
	_, err = s.Draft(ctx, "b1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
