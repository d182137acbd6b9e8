package counting

import (
	"context"
	"strings"
	"time"

	"stocktake/core/apperr"
	"stocktake/feature/catalog"
	"stocktake/feature/counting/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScanResult is the outcome of a successful ingestion.
type ScanResult struct {
	// Outcome is created or incremented. Rejected duplicates surface as a
	// conflict error carrying the existing line instead.
	Outcome Outcome `json:"outcome"`
	// Policy is the active duplicate-scan policy, echoed so clients phrase
	// feedback for the right mode.
	Policy string          `json:"policy"`
	Line   models.ScanLine `json:"line"`
}

// Service implements the count session lifecycle, scan ingestion, and
// variance reporting on top of the Store and the catalog Resolver.
type Service struct {
	store    *Store
	resolver catalog.Resolver
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a counting service.
func NewService(store *Store, resolver catalog.Resolver, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		cfg:      cfg,
		logger:   logger,
	}
}

// Policy returns the active duplicate-scan policy.
func (s *Service) Policy() string {
	return s.cfg.DuplicatePolicy
}

// CreateSession starts a new open session.
func (s *Service) CreateSession(ctx context.Context, name string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "session name must not be empty")
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    models.StatusOpen,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("name", session.Name),
	)
	return session, nil
}

// ListSessions returns every session, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.store.ListSessions(ctx)
}

// GetSession loads one session.
func (s *Service) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.store.GetSession(ctx, id)
}

// OpenSession confirms a session is open for scanning. Opening an open
// session is a no-op; a closed session cannot reopen.
func (s *Service) OpenSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, apperr.New(apperr.KindStateError, "session %q is closed and cannot reopen", id)
	}
	return session, nil
}

// CloseSession transitions a session to closed, freezing its scan lines.
func (s *Service) CloseSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.CloseSession(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Session closed", zap.String("session_id", id))
	return session, nil
}

// DeleteSession removes a session and its scan lines, from either state.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

// ListScanLines returns a session's lines most-recent-first.
// limit <= 0 returns the full history.
func (s *Service) ListScanLines(ctx context.Context, sessionID string, limit int) ([]models.ScanLine, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListScanLines(ctx, sessionID, limit)
}

// IngestScan applies one barcode scan to an open session.
//
// Validation order: barcode syntax, session existence and status, catalog
// resolution, then the keyed create-or-increment. The resolver is consulted
// before the store transaction starts so a slow catalog never runs under
// the session lock; the open check is repeated inside the transaction.
func (s *Service) IngestScan(ctx context.Context, sessionID, rawBarcode string) (*ScanResult, error) {
	barcode := strings.TrimSpace(rawBarcode)
	if barcode == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "barcode must not be empty")
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, apperr.New(apperr.KindStateError, "session %q is closed", sessionID)
	}

	entry, err := s.resolver.Resolve(ctx, barcode)
	if err != nil {
		return nil, err
	}

	line, outcome, err := s.store.CreateOrIncrement(ctx, sessionID, entry, time.Now().UTC(), s.cfg.DuplicatePolicy)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Scan ingested",
		zap.String("session_id", sessionID),
		zap.String("item_code", line.ItemCode),
		zap.String("outcome", string(outcome)),
		zap.Int("quantity", line.Quantity),
	)
	return &ScanResult{Outcome: outcome, Policy: s.cfg.DuplicatePolicy, Line: *line}, nil
}

// PurgeAll wipes every session and scan line.
func (s *Service) PurgeAll(ctx context.Context) (sessions int64, lines int64, err error) {
	return s.store.PurgeAll(ctx)
}
