package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/angelmondragon/webtheme-backend/pkg/themeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorConfig() config.EditorConfig {
	return config.EditorConfig{
		DraftTTL:          time.Hour,
		BaselineTTL:       2 * time.Hour,
		SaveLockTTL:       30 * time.Second,
		ReferenceTimeout:  time.Second,
		MemoSize:          8,
		RevisionRetention: 50,
	}
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestLoadStoresDraftAndBaseline(t *testing.T) {
	cfg := editorConfig()
	cfg.BaselineTTL = time.Minute
	h := newHarness(t, cfg)
	ctx := context.Background()

	d, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", d.Config.Header.Ticker.Text)
	assert.False(t, d.Dirty)
	require.NotEmpty(t, d.BaselineRevision)

	assert.True(t, h.kv.has(h.kv.DraftKey("b1")))
	baselineKey := h.kv.BaselineKey("b1", d.BaselineRevision)
	require.True(t, h.kv.has(baselineKey))
	assert.Equal(t, time.Hour, h.kv.ttl(h.kv.DraftKey("b1")))
	assert.Equal(t, time.Hour, h.kv.ttl(baselineKey), "baseline outlives the draft")

	stored, err := h.svc.Draft(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, d.BaselineRevision, stored.BaselineRevision)
	assert.Equal(t, d.Config.Header.Ticker, stored.Config.Header.Ticker)
	assert.Len(t, stored.Config.Home.Sections, 1)
}

func TestLoadRequiresBrand(t *testing.T) {
	h := newHarness(t, editorConfig())
	_, err := h.svc.Load(context.Background(), "  ")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestLoadPassesGatewayErrors(t *testing.T) {
	h := newHarness(t, editorConfig())
	h.gateway.fetchErr = pkgerrors.New(pkgerrors.CodeRateLimit, "slow down")

	_, err := h.svc.Load(context.Background(), "b1")
	requireCode(t, err, pkgerrors.CodeRateLimit)
}

func TestDraftWithoutLoad(t *testing.T) {
	h := newHarness(t, editorConfig())
	_, err := h.svc.Draft(context.Background(), "b1")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestApplyMarksDirtyAndPrunesSelection(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)

	d, err := h.svc.Apply(ctx, "b1", []Command{
		{Op: OpSelect, BarID: "bar-main", ListID: "list-left", ItemID: "item-home"},
	})
	require.NoError(t, err)
	assert.False(t, d.Dirty, "selection alone does not dirty the draft")
	assert.Equal(t, "item-home", d.Selection.ItemID)

	d, err = h.svc.Apply(ctx, "b1", []Command{
		{Op: OpRemoveList, BarID: "bar-main", ListID: "list-left"},
	})
	require.NoError(t, err)
	assert.True(t, d.Dirty)
	assert.Equal(t, "bar-main", d.Selection.BarID)
	assert.Empty(t, d.Selection.ListID)
	assert.Empty(t, d.Selection.ItemID)
	assert.Empty(t, d.Config.Header.Bars[0].Lists)

	stored, err := h.svc.Draft(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, stored.Dirty)
	assert.Equal(t, d.Selection, stored.Selection)
}

func TestApplyInvalidCommandsLeaveDraft(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	before, err := h.svc.Draft(ctx, "b1")
	require.NoError(t, err)

	_, err = h.svc.Apply(ctx, "b1", []Command{
		{Op: OpUpdateTicker, Field: "text", Value: "Sale"},
		{Op: OpUpdateBar, Field: "height"},
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	after, err := h.svc.Draft(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, before.Config, after.Config)
	assert.False(t, after.Dirty)
}

func TestApplyWithoutDraft(t *testing.T) {
	h := newHarness(t, editorConfig())
	_, err := h.svc.Apply(context.Background(), "b1", []Command{{Op: OpAddBar}})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDiscardDeletesDraft(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Discard(ctx, "b1"))
	_, err = h.svc.Draft(ctx, "b1")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestSaveWritesDocumentAndRecordsRevision(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	_, err = h.svc.Apply(ctx, "b1", []Command{{Op: OpUpdateTicker, Field: "text", Value: "Sale"}})
	require.NoError(t, err)

	result, err := h.svc.Save(ctx, "b1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "full", result.Kind)
	assert.True(t, result.Refreshed)
	assert.False(t, result.Draft.Dirty)
	assert.Equal(t, "Sale", result.Draft.Config.Header.Ticker.Text)
	assert.Equal(t, result.Revision, result.Draft.BaselineRevision)

	saved := h.gateway.lastSave()
	require.NotNil(t, saved)
	header := saved["header"].(map[string]any)
	ticker := header["ticker"].(map[string]any)
	assert.Equal(t, "Sale", ticker["header_ticker_text"])
	assert.Equal(t, map[string]any{"copyright": "Acme"}, saved["footer"], "unowned keys survive")
	assert.Equal(t, []string{"u1"}, h.gateway.saveUsers)

	assert.False(t, h.kv.has(h.kv.SaveLockKey("b1")), "save lock released")
	assert.Equal(t, float64(1), h.saveCount(t, "full", metrics.SaveOutcomeSuccess))

	revisions, err := h.svc.Revisions(ctx, RevisionParams{BrandID: "b1"})
	require.NoError(t, err)
	require.Len(t, revisions.Items, 1)
	assert.Equal(t, enums.SaveKindFull, revisions.Items[0].Kind)
	assert.Equal(t, result.Revision, revisions.Items[0].Revision)
	assert.Equal(t, "u1", revisions.Items[0].UserID)
	assert.Positive(t, revisions.Items[0].ByteSize)
	assert.Empty(t, revisions.Cursor)
}

func TestSaveConflictWhenLockHeld(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	require.NoError(t, h.kv.Set(ctx, h.kv.SaveLockKey("b1"), "other-instance", time.Minute))

	_, err = h.svc.Save(ctx, "b1", "u1")
	requireCode(t, err, pkgerrors.CodeConflict)
	assert.Empty(t, h.gateway.saves)
	assert.True(t, h.kv.has(h.kv.SaveLockKey("b1")), "foreign lock untouched")
	assert.Equal(t, float64(1), h.saveCount(t, "full", metrics.SaveOutcomeConflict))
}

func TestConcurrentSavesOneWins(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	h.gateway.onSave = func() {
		once.Do(func() { close(started) })
		<-release
	}

	type outcome struct {
		result *SaveResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := h.svc.Save(ctx, "b1", "u1")
		done <- outcome{result: result, err: err}
	}()

	<-started
	_, err = h.svc.Save(ctx, "b1", "u2")
	requireCode(t, err, pkgerrors.CodeConflict)

	close(release)
	first := <-done
	require.NoError(t, first.err)
	assert.True(t, first.result.Refreshed)
	assert.Equal(t, []string{"u1"}, h.gateway.saveUsers)
}

func TestSaveStaleBaseline(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	d, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	require.NoError(t, h.kv.Del(ctx, h.kv.BaselineKey("b1", d.BaselineRevision)))

	_, err = h.svc.Save(ctx, "b1", "u1")
	requireCode(t, err, pkgerrors.CodeStateConflict)
	assert.Empty(t, h.gateway.saves)
	assert.False(t, h.kv.has(h.kv.SaveLockKey("b1")))
}

func TestSaveBackendRateLimited(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	h.gateway.saveErr = pkgerrors.New(pkgerrors.CodeRateLimit, "saveRestaurantSettings rate limited")

	_, err = h.svc.SaveHeader(ctx, "b1", "u1")
	requireCode(t, err, pkgerrors.CodeRateLimit)
	assert.Equal(t, float64(1), h.saveCount(t, "header", metrics.SaveOutcomeRateLimited))
	assert.Zero(t, h.saveCount(t, "header", metrics.SaveOutcomeFailure))
}

func TestSaveGatewayFailure(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	h.gateway.saveErr = pkgerrors.New(pkgerrors.CodeDependency, "backend down")

	_, err = h.svc.Save(ctx, "b1", "u1")
	requireCode(t, err, pkgerrors.CodeDependency)
	assert.Equal(t, float64(1), h.saveCount(t, "full", metrics.SaveOutcomeFailure))

	revisions, err := h.svc.Revisions(ctx, RevisionParams{BrandID: "b1"})
	require.NoError(t, err)
	assert.Empty(t, revisions.Items)
}

func TestSaveRefreshFailureKeepsDraft(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	_, err = h.svc.Apply(ctx, "b1", []Command{{Op: OpAddBar}})
	require.NoError(t, err)
	h.gateway.failFetchAfterSave = true

	result, err := h.svc.Save(ctx, "b1", "u1")
	require.NoError(t, err)
	assert.False(t, result.Refreshed)
	assert.True(t, result.Draft.Dirty)
	assert.Len(t, h.gateway.saves, 1)
}

func TestSaveHeaderKeepsOtherEdits(t *testing.T) {
	h := newHarness(t, editorConfig())
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)
	_, err = h.svc.Apply(ctx, "b1", []Command{
		{Op: OpUpdateTicker, Field: "text", Value: "Sale"},
		{Op: OpAddSection, Kind: "featured"},
	})
	require.NoError(t, err)

	result, err := h.svc.SaveHeader(ctx, "b1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "header", result.Kind)
	assert.True(t, result.Refreshed)
	assert.Empty(t, h.gateway.saves, "header save never posts the full document")
	require.Len(t, h.gateway.headerSaves, 1)
	ticker := h.gateway.headerSaves[0]["ticker"].(map[string]any)
	assert.Equal(t, "Sale", ticker["header_ticker_text"])

	d := result.Draft
	assert.True(t, d.Dirty, "home edits are still unsaved")
	assert.Len(t, d.Config.Home.Sections, 2)
	assert.Equal(t, "Sale", d.Config.Header.Ticker.Text)

	revisions, err := h.svc.Revisions(ctx, RevisionParams{BrandID: "b1"})
	require.NoError(t, err)
	require.Len(t, revisions.Items, 1)
	assert.Equal(t, enums.SaveKindHeader, revisions.Items[0].Kind)
}

func TestLoadEditorIncludesBrands(t *testing.T) {
	h := newHarness(t, editorConfig())
	h.gateway.brands = []themeapi.Brand{{ID: "b1", Name: "Acme"}}

	state, err := h.svc.LoadEditor(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, state.Draft)
	assert.True(t, state.ReferenceComplete)
	assert.Equal(t, h.gateway.brands, state.Brands)
}

func TestLoadEditorFallsBackOnBrandFailure(t *testing.T) {
	h := newHarness(t, editorConfig())
	h.gateway.brandsErr = pkgerrors.New(pkgerrors.CodeDependency, "brands down")

	state, err := h.svc.LoadEditor(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, state.Draft)
	assert.False(t, state.ReferenceComplete)
	assert.NotNil(t, state.Brands)
	assert.Empty(t, state.Brands)
}

func TestLoadEditorBoundsReferenceData(t *testing.T) {
	cfg := editorConfig()
	cfg.ReferenceTimeout = 20 * time.Millisecond
	h := newHarness(t, cfg)
	h.gateway.brandsHang = true

	start := time.Now()
	state, err := h.svc.LoadEditor(context.Background(), "b1")
	require.NoError(t, err)
	assert.False(t, state.ReferenceComplete)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadEditorFailsWithTheme(t *testing.T) {
	h := newHarness(t, editorConfig())
	h.gateway.fetchErr = pkgerrors.New(pkgerrors.CodeDependency, "backend down")

	_, err := h.svc.LoadEditor(context.Background(), "b1")
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestRevisionsPaginateAndPrune(t *testing.T) {
	cfg := editorConfig()
	cfg.RevisionRetention = 3
	h := newHarness(t, cfg)
	ctx := context.Background()
	_, err := h.svc.Load(ctx, "b1")
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := h.svc.Apply(ctx, "b1", []Command{{Op: OpAddBar}})
		require.NoError(t, err)
		_, err = h.svc.Save(ctx, "b1", "u1")
		require.NoError(t, err)
	}

	first, err := h.svc.Revisions(ctx, RevisionParams{BrandID: "b1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Cursor)
	assert.True(t, first.Items[0].CreatedAt.After(first.Items[1].CreatedAt))

	second, err := h.svc.Revisions(ctx, RevisionParams{BrandID: "b1", Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1, "older revisions were pruned")
	assert.Empty(t, second.Cursor)
	assert.True(t, first.Items[1].CreatedAt.After(second.Items[0].CreatedAt))
}

func TestRevisionsRejectsBadCursor(t *testing.T) {
	h := newHarness(t, editorConfig())
	_, err := h.svc.Revisions(context.Background(), RevisionParams{BrandID: "b1", Cursor: "%%%"})
	requireCode(t, err, pkgerrors.CodeValidation)
}
