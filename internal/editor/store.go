package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	pkgredis "github.com/angelmondragon/webtheme-backend/pkg/redis"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrBaselineNotFound = errors.New("baseline not found")
)

// Store keeps drafts and raw baselines in Redis. Baselines are keyed by
// revision so a draft always serializes over the exact document it came from.
type Store struct {
	kv          pkgredis.Store
	draftTTL    time.Duration
	baselineTTL time.Duration
	lockTTL     time.Duration
}

// NewStore binds the editor store to a Redis key/value surface.
func NewStore(kv pkgredis.Store, cfg config.EditorConfig) (*Store, error) {
	if kv == nil {
		return nil, errors.New("redis store required")
	}
	s := &Store{
		kv:          kv,
		draftTTL:    cfg.DraftTTL,
		baselineTTL: cfg.BaselineTTL,
		lockTTL:     cfg.SaveLockTTL,
	}
	if s.draftTTL <= 0 {
		s.draftTTL = 24 * time.Hour
	}
	// A baseline must outlive every draft that points at it.
	if s.baselineTTL < s.draftTTL {
		s.baselineTTL = s.draftTTL
	}
	return s, nil
}

// SaveBaseline stores a raw document and returns its revision.
func (s *Store) SaveBaseline(ctx context.Context, brandID string, doc map[string]any) (string, error) {
	revision := theme.Revision(doc)
	if revision == "" {
		return "", errors.New("baseline document cannot be encoded")
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode baseline: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.BaselineKey(brandID, revision), payload, s.baselineTTL); err != nil {
		return "", fmt.Errorf("store baseline: %w", err)
	}
	return revision, nil
}

// Baseline returns the raw document stored under revision.
func (s *Store) Baseline(ctx context.Context, brandID, revision string) (map[string]any, error) {
	if revision == "" {
		return nil, ErrBaselineNotFound
	}
	raw, err := s.kv.Get(ctx, s.kv.BaselineKey(brandID, revision))
	if err != nil {
		if errors.Is(err, pkgredis.ErrNotFound) {
			return nil, ErrBaselineNotFound
		}
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var doc map[string]any
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode baseline: %w", err)
	}
	return doc, nil
}

// SaveDraft writes the draft and restarts its expiry.
func (s *Store) SaveDraft(ctx context.Context, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.DraftKey(d.BrandID), payload, s.draftTTL); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Draft returns the brand's current draft. Reading a draft extends the life
// of both the draft and its baseline.
func (s *Store) Draft(ctx context.Context, brandID string) (*Draft, error) {
	raw, err := s.kv.Get(ctx, s.kv.DraftKey(brandID))
	if err != nil {
		if errors.Is(err, pkgredis.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var d Draft
	if err := decode(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	s.touch(ctx, &d)
	return &d, nil
}

// touch is best effort; a failed refresh only shortens the session.
func (s *Store) touch(ctx context.Context, d *Draft) {
	_, _ = s.kv.Touch(ctx, s.kv.DraftKey(d.BrandID), s.draftTTL)
	if d.BaselineRevision != "" {
		_, _ = s.kv.Touch(ctx, s.kv.BaselineKey(d.BrandID, d.BaselineRevision), s.baselineTTL)
	}
}

// DeleteDraft drops the brand's draft. Baselines expire on their own.
func (s *Store) DeleteDraft(ctx context.Context, brandID string) error {
	if err := s.kv.Del(ctx, s.kv.DraftKey(brandID)); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (s *Store) saveLock(brandID string) *saveLock {
	return newSaveLock(s.kv, s.kv.SaveLockKey(brandID), s.lockTTL)
}

// decode keeps numbers as json.Number so raw values survive unchanged.
func decode(raw string, dst any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	return dec.Decode(dst)
}
