package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/db"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/angelmondragon/webtheme-backend/pkg/migrate"
	pkgredis "github.com/angelmondragon/webtheme-backend/pkg/redis"
	"github.com/angelmondragon/webtheme-backend/pkg/themeapi"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const brandDoc = `{
  "footer": {"copyright": "Acme"},
  "header": {
    "ticker": {"ticker_on_off": "1", "header_ticker_text": "Hello"},
    "navigation_bars": [
      {
        "id": "bar-main",
        "navigation_bar_on_off": "1",
        "lists": [
          {
            "id": "list-left",
            "position": "left",
            "items": [
              {"id": "item-home", "type": "link", "name": "Home", "route": "/"}
            ]
          }
        ]
      }
    ]
  },
  "home": {
    "sections": [
      {"key": 0, "type": "custom", "status": 1, "content": "<p>hi</p>"}
    ]
  }
}`

func decodeDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, decode(raw, &doc))
	return doc
}

// roundTrip mimics the backend storing and returning JSON.
func roundTrip(doc map[string]any) map[string]any {
	encoded, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		panic(err)
	}
	return out
}

type kvEntry struct {
	value string
	ttl   time.Duration
}

// memoryKV is an in-memory pkgredis.Store.
type memoryKV struct {
	mu      sync.Mutex
	entries map[string]kvEntry
	getErr  error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{entries: make(map[string]kvEntry)}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	e, ok := m.entries[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return e.value, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = kvEntry{value: stringify(value), ttl: ttl}
	return nil
}

func (m *memoryKV) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = kvEntry{value: stringify(value), ttl: ttl}
	return true, nil
}

func (m *memoryKV) Touch(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	e.ttl = ttl
	m.entries[key] = e
	return true, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryKV) DraftKey(brandID string) string { return "draft:" + brandID }

func (m *memoryKV) BaselineKey(brandID, revision string) string {
	return "baseline:" + brandID + ":" + revision
}

func (m *memoryKV) SaveLockKey(brandID string) string { return "lock:save:" + brandID }

func (m *memoryKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *memoryKV) ttl(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[key].ttl
}

func (m *memoryKV) countPrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}

// fakeGateway keeps one document per brand, stored as JSON would be.
type fakeGateway struct {
	mu         sync.Mutex
	docs       map[string]map[string]any
	brands     []themeapi.Brand
	brandsErr  error
	brandsHang bool
	fetchErr   error
	saveErr    error
	// failFetchAfterSave makes every fetch fail once a save went through.
	failFetchAfterSave bool

	fetches     int
	saves       []map[string]any
	headerSaves []map[string]any
	saveUsers   []string
	onSave      func()
}

func newFakeGateway(t *testing.T, brandID, raw string) *fakeGateway {
	return &fakeGateway{docs: map[string]map[string]any{brandID: decodeDoc(t, raw)}}
}

func (g *fakeGateway) FetchRawSettings(_ context.Context, brandID string) (map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetches++
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	if g.failFetchAfterSave && (len(g.saves) > 0 || len(g.headerSaves) > 0) {
		return nil, fmt.Errorf("backend unavailable")
	}
	doc, ok := g.docs[brandID]
	if !ok {
		return map[string]any{}, nil
	}
	return roundTrip(doc), nil
}

func (g *fakeGateway) SaveRawSettings(_ context.Context, brandID, userID string, doc map[string]any) error {
	if g.onSave != nil {
		g.onSave()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	stored := roundTrip(doc)
	g.docs[brandID] = stored
	g.saves = append(g.saves, stored)
	g.saveUsers = append(g.saveUsers, userID)
	return nil
}

func (g *fakeGateway) SaveHeaderSettings(_ context.Context, brandID string, header map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.saveErr != nil {
		return g.saveErr
	}
	stored := roundTrip(header)
	doc := roundTrip(g.docs[brandID])
	doc["header"] = stored
	g.docs[brandID] = doc
	g.headerSaves = append(g.headerSaves, stored)
	return nil
}

func (g *fakeGateway) ListBrands(ctx context.Context) ([]themeapi.Brand, error) {
	g.mu.Lock()
	err, brands, hang := g.brandsErr, g.brands, g.brandsHang
	g.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (g *fakeGateway) lastSave() map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.saves) == 0 {
		return nil
	}
	return g.saves[len(g.saves)-1]
}

func openRevisionsDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrate.Up(context.Background(), sqlDB, db.DialectSQLite))
	return db.NewFromConn(conn, db.DialectSQLite)
}

type harness struct {
	svc     Service
	kv      *memoryKV
	gateway *fakeGateway
	db      *db.Client
	reg     *prometheus.Registry
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newHarness(t *testing.T, cfg config.EditorConfig) *harness {
	t.Helper()

	kv := newMemoryKV()
	store, err := NewStore(kv, cfg)
	require.NoError(t, err)

	client := openRevisionsDB(t)
	gateway := newFakeGateway(t, "b1", brandDoc)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	reg := prometheus.NewRegistry()

	svc, err := NewService(ServiceParams{
		Gateway: gateway,
		Store:   store,
		Repo:    NewRepository(client.DB()),
		Tx:      client,
		Memo:    theme.NewMemo(8),
		Metrics: metrics.NewEditorMetrics(reg),
		Logger:  logger.New(logger.Options{ServiceName: "editor-test", Level: zerolog.Disabled}),
		Config:  cfg,
		Now:     clock.Now,
	})
	require.NoError(t, err)
	return &harness{svc: svc, kv: kv, gateway: gateway, db: client, reg: reg}
}

// saveCount reads theme_saves for one kind and outcome.
func (h *harness) saveCount(t *testing.T, kind, outcome string) float64 {
	t.Helper()
	mfs, err := h.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "theme_saves" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabels(m, map[string]string{"kind": kind, "outcome": outcome}) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabels(m *dto.Metric, want map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := want[lp.GetName()]; ok && v == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func ptr[T any](v T) *T {
	return &v
}
