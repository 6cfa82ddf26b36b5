package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/webtheme-backend/internal/theme"
	"github.com/angelmondragon/webtheme-backend/pkg/config"
	"github.com/angelmondragon/webtheme-backend/pkg/db/models"
	"github.com/angelmondragon/webtheme-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/logger"
	"github.com/angelmondragon/webtheme-backend/pkg/metrics"
	"github.com/angelmondragon/webtheme-backend/pkg/pagination"
	"github.com/angelmondragon/webtheme-backend/pkg/themeapi"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultReferenceTimeout  = 10 * time.Second
	defaultRevisionRetention = 50
	headerKey                = "header"
)

// Service runs editor sessions: loading a brand's theme into a draft,
// applying edits and saving the result back.
type Service interface {
	Load(ctx context.Context, brandID string) (*Draft, error)
	LoadEditor(ctx context.Context, brandID string) (*EditorState, error)
	Draft(ctx context.Context, brandID string) (*Draft, error)
	Discard(ctx context.Context, brandID string) error
	Apply(ctx context.Context, brandID string, cmds []Command) (*Draft, error)
	Save(ctx context.Context, brandID, userID string) (*SaveResult, error)
	SaveHeader(ctx context.Context, brandID, userID string) (*SaveResult, error)
	Revisions(ctx context.Context, params RevisionParams) (*RevisionList, error)
}

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the editor service dependencies.
type ServiceParams struct {
	Gateway themeapi.Gateway
	Store   *Store
	Repo    Repository
	Tx      TxRunner
	Memo    *theme.Memo
	Metrics *metrics.EditorMetrics
	Logger  *logger.Logger
	Config  config.EditorConfig
	Now     func() time.Time
}

type service struct {
	gateway   themeapi.Gateway
	store     *Store
	repo      Repository
	tx        TxRunner
	memo      *theme.Memo
	metrics   *metrics.EditorMetrics
	logg      *logger.Logger
	locks     *brandLocks
	now       func() time.Time
	refTime   time.Duration
	retention int
}

// RevisionParams configures pagination for saved revisions.
type RevisionParams struct {
	BrandID string
	Limit   int
	Cursor  string
}

// RevisionSummary is one saved revision without its document.
type RevisionSummary struct {
	ID           uuid.UUID      `json:"id"`
	Kind         enums.SaveKind `json:"kind"`
	Revision     string         `json:"revision"`
	BaseRevision string         `json:"base_revision"`
	UserID       string         `json:"user_id"`
	IssueCount   int            `json:"issue_count"`
	ByteSize     int            `json:"byte_size"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RevisionList wraps returned revisions and the cursor for the next page.
type RevisionList struct {
	Items  []RevisionSummary `json:"items"`
	Cursor string            `json:"cursor"`
}

// NewService wires editor dependencies.
func NewService(p ServiceParams) (Service, error) {
	switch {
	case p.Gateway == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "settings gateway required")
	case p.Store == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "draft store required")
	case p.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "revision repository required")
	case p.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	case p.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}

	s := &service{
		gateway:   p.Gateway,
		store:     p.Store,
		repo:      p.Repo,
		tx:        p.Tx,
		memo:      p.Memo,
		metrics:   p.Metrics,
		logg:      p.Logger,
		locks:     newBrandLocks(),
		now:       p.Now,
		refTime:   p.Config.ReferenceTimeout,
		retention: p.Config.RevisionRetention,
	}
	if s.memo == nil {
		s.memo = theme.NewMemo(p.Config.MemoSize)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.refTime <= 0 {
		s.refTime = defaultReferenceTimeout
	}
	if s.retention <= 0 {
		s.retention = defaultRevisionRetention
	}
	return s, nil
}

func requireBrand(brandID string) error {
	if strings.TrimSpace(brandID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand id required")
	}
	return nil
}

// Load fetches the brand's theme and replaces its draft. It waits for an
// in-flight save of the same brand to finish first.
func (s *service) Load(ctx context.Context, brandID string) (*Draft, error) {
	if err := requireBrand(brandID); err != nil {
		return nil, err
	}
	unlock, err := s.lockBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	raw, err := s.gateway.FetchRawSettings(ctx, brandID)
	if err != nil {
		return nil, dependency(err, "fetch theme")
	}
	return s.replaceDraft(ctx, brandID, raw, theme.Selection{})
}

// replaceDraft stores raw as the new baseline and a fresh draft normalized
// from it. The caller holds the brand lock.
func (s *service) replaceDraft(ctx context.Context, brandID string, raw map[string]any, sel theme.Selection) (*Draft, error) {
	revision, err := s.store.SaveBaseline(ctx, brandID, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store baseline")
	}

	cfg, issues := s.memo.Normalize(raw)
	s.reportIssues(ctx, brandID, revision, issues)

	d := &Draft{
		BrandID:          brandID,
		Config:           cfg,
		Selection:        sel.Prune(cfg),
		BaselineRevision: revision,
		Issues:           issues,
		UpdatedAt:        s.now().UTC(),
	}
	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store draft")
	}
	return d, nil
}

func (s *service) reportIssues(ctx context.Context, brandID, revision string, issues []theme.Issue) {
	if len(issues) == 0 {
		return
	}
	s.metrics.AddIssues(len(issues))
	ctx = s.logg.WithBrandID(ctx, brandID)
	ctx = s.logg.WithRevision(ctx, revision)
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.String())
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"issue_count": len(issues), "issues": paths})
	s.logg.Warn(ctx, "theme values replaced by defaults")
}

// LoadEditor loads the draft and the brand list together. The brand list is
// best effort and bounded by the reference timeout.
func (s *service) LoadEditor(ctx context.Context, brandID string) (*EditorState, error) {
	state := &EditorState{Brands: []themeapi.Brand{}, ReferenceComplete: true}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.Load(gctx, brandID)
		if err != nil {
			return err
		}
		state.Draft = d
		return nil
	})
	g.Go(func() error {
		refCtx, cancel := context.WithTimeout(gctx, s.refTime)
		defer cancel()
		brands, err := s.gateway.ListBrands(refCtx)
		if err != nil {
			state.ReferenceComplete = false
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "brand list unavailable")
			return nil
		}
		state.Brands = brands
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) Draft(ctx context.Context, brandID string) (*Draft, error) {
	if err := requireBrand(brandID); err != nil {
		return nil, err
	}
	return s.currentDraft(ctx, brandID)
}

func (s *service) currentDraft(ctx context.Context, brandID string) (*Draft, error) {
	d, err := s.store.Draft(ctx, brandID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no draft loaded for brand")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read draft")
	}
	return d, nil
}

func (s *service) Discard(ctx context.Context, brandID string) error {
	if err := requireBrand(brandID); err != nil {
		return err
	}
	unlock, err := s.lockBrand(ctx, brandID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.DeleteDraft(ctx, brandID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discard draft")
	}
	return nil
}

// Apply runs every command against the draft in order and stores the result.
// Either all commands are valid and applied or none are.
func (s *service) Apply(ctx context.Context, brandID string, cmds []Command) (*Draft, error) {
	if err := requireBrand(brandID); err != nil {
		return nil, err
	}
	if err := ValidateCommands(cmds); err != nil {
		return nil, err
	}

	unlock, err := s.lockBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	d, err := s.currentDraft(ctx, brandID)
	if err != nil {
		return nil, err
	}

	cfg, sel := d.Config, d.Selection
	for _, cmd := range cmds {
		cfg, sel = cmd.apply(cfg, sel)
		if cmd.edits() {
			d.Dirty = true
		}
	}
	d.Config = cfg
	d.Selection = sel.Prune(cfg)
	d.UpdatedAt = s.now().UTC()

	if err := s.store.SaveDraft(ctx, d); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store draft")
	}
	return d, nil
}

func (s *service) Save(ctx context.Context, brandID, userID string) (*SaveResult, error) {
	return s.save(ctx, brandID, userID, enums.SaveKindFull)
}

func (s *service) SaveHeader(ctx context.Context, brandID, userID string) (*SaveResult, error) {
	return s.save(ctx, brandID, userID, enums.SaveKindHeader)
}

// save writes the draft back to the settings backend, then re-reads the
// stored document so the draft reflects what was persisted.
func (s *service) save(ctx context.Context, brandID, userID string, kind enums.SaveKind) (*SaveResult, error) {
	if err := requireBrand(brandID); err != nil {
		return nil, err
	}
	ctx = s.logg.WithBrandID(ctx, brandID)

	lock := s.store.saveLock(brandID)
	acquired, err := lock.acquire(ctx)
	if err != nil {
		s.metrics.IncSave(kind.String(), metrics.SaveOutcomeFailure)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire save lock")
	}
	if !acquired {
		s.metrics.IncSave(kind.String(), metrics.SaveOutcomeConflict)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a save is already in progress for this brand")
	}
	defer func() {
		if err := lock.release(ctx); err != nil {
			s.logg.Error(ctx, "failed to release save lock", err)
		}
	}()

	unlock, err := s.lockBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	d, err := s.currentDraft(ctx, brandID)
	if err != nil {
		return nil, err
	}
	baseline, err := s.store.Baseline(ctx, brandID, d.BaselineRevision)
	if err != nil {
		if errors.Is(err, ErrBaselineNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft baseline expired").
				WithDetails(map[string]any{"baseline_revision": d.BaselineRevision})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read baseline")
	}
	ctx = s.logg.WithRevision(ctx, d.BaselineRevision)

	var doc map[string]any
	switch kind {
	case enums.SaveKindHeader:
		header := theme.SerializeHeader(d.Config, baseline)
		if err := s.gateway.SaveHeaderSettings(ctx, brandID, header); err != nil {
			s.metrics.IncSave(kind.String(), gatewayOutcome(err))
			return nil, dependency(err, "save header")
		}
		doc = theme.CloneDocument(baseline)
		if doc == nil {
			doc = map[string]any{}
		}
		doc[headerKey] = header
	default:
		doc = theme.Serialize(d.Config, baseline)
		if err := s.gateway.SaveRawSettings(ctx, brandID, userID, doc); err != nil {
			s.metrics.IncSave(kind.String(), gatewayOutcome(err))
			return nil, dependency(err, "save theme")
		}
	}
	s.metrics.IncSave(kind.String(), metrics.SaveOutcomeSuccess)

	revision := theme.Revision(doc)
	s.recordRevision(ctx, d, userID, kind, revision, doc)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"kind": kind.String(), "saved_revision": revision}), "theme saved")

	result := &SaveResult{Kind: kind.String(), Revision: revision, Draft: d}
	refreshed, err := s.refresh(ctx, d, kind)
	if err != nil {
		s.logg.Error(ctx, "theme saved but reload failed", err)
		return result, nil
	}
	result.Refreshed = true
	result.Draft = refreshed
	return result, nil
}

// refresh re-reads the saved document. A full save replaces the draft; a
// header save only takes the new header and keeps the other unsaved edits.
func (s *service) refresh(ctx context.Context, d *Draft, kind enums.SaveKind) (*Draft, error) {
	raw, err := s.gateway.FetchRawSettings(ctx, d.BrandID)
	if err != nil {
		return nil, err
	}
	if kind == enums.SaveKindFull {
		return s.replaceDraft(ctx, d.BrandID, raw, d.Selection)
	}

	revision, err := s.store.SaveBaseline(ctx, d.BrandID, raw)
	if err != nil {
		return nil, err
	}
	cfg, issues := s.memo.Normalize(raw)
	s.reportIssues(ctx, d.BrandID, revision, issues)

	merged := d.Config.Clone()
	merged.Revision = cfg.Revision
	merged.Header = cfg.Header
	next := &Draft{
		BrandID:          d.BrandID,
		Config:           merged,
		Selection:        d.Selection.Prune(merged),
		BaselineRevision: revision,
		Issues:           issues,
		Dirty:            d.Dirty,
		UpdatedAt:        s.now().UTC(),
	}
	if err := s.store.SaveDraft(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// recordRevision appends to the brand's save history and trims it. A failure
// here never fails the save.
func (s *service) recordRevision(ctx context.Context, d *Draft, userID string, kind enums.SaveKind, revision string, doc map[string]any) {
	encoded, err := json.Marshal(doc)
	if err != nil {
		s.logg.Error(ctx, "failed to encode saved revision", err)
		return
	}
	row := &models.ThemeRevision{
		ID:           uuid.New(),
		BrandID:      d.BrandID,
		UserID:       userID,
		Kind:         kind,
		Revision:     revision,
		BaseRevision: d.BaselineRevision,
		IssueCount:   len(d.Issues),
		ByteSize:     len(encoded),
		Document:     string(encoded),
		CreatedAt:    s.now().UTC(),
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, row); err != nil {
			return fmt.Errorf("create revision: %w", err)
		}
		if _, err := repo.Prune(ctx, d.BrandID, s.retention); err != nil {
			return fmt.Errorf("prune revisions: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logg.Error(ctx, "failed to record theme revision", err)
	}
}

func (s *service) Revisions(ctx context.Context, params RevisionParams) (*RevisionList, error) {
	if err := requireBrand(params.BrandID); err != nil {
		return nil, err
	}
	query := listRevisionsParams{BrandID: params.BrandID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list revisions")
	}

	items := make([]RevisionSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, RevisionSummary{
			ID:           row.ID,
			Kind:         row.Kind,
			Revision:     row.Revision,
			BaseRevision: row.BaseRevision,
			UserID:       row.UserID,
			IssueCount:   row.IssueCount,
			ByteSize:     row.ByteSize,
			CreatedAt:    row.CreatedAt,
		})
	}
	return &RevisionList{Items: items, Cursor: pagination.Next(next)}, nil
}

func (s *service) lockBrand(ctx context.Context, brandID string) (func(), error) {
	unlock, err := s.locks.lock(ctx, brandID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wait for brand")
	}
	return unlock, nil
}

func gatewayOutcome(err error) string {
	if pkgerrors.HasCode(err, pkgerrors.CodeRateLimit) {
		return metrics.SaveOutcomeRateLimited
	}
	return metrics.SaveOutcomeFailure
}

// dependency keeps typed gateway errors and wraps anything else.
func dependency(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
