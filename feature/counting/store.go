package counting

import (
	"context"
	"errors"
	"time"

	"stocktake/core/apperr"
	"stocktake/feature/catalog"
	"stocktake/feature/counting/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome tags what an ingestion did to the scan line.
type Outcome string

const (
	// OutcomeCreated means a first scan created the line.
	OutcomeCreated Outcome = "created"
	// OutcomeIncremented means a repeat scan incremented the line.
	OutcomeIncremented Outcome = "incremented"
)

// Store persists sessions and scan lines.
//
// Every write that touches a session's lines runs inside a transaction that
// first locks the session row. That makes the session the serialization
// point: create-or-increment for a key cannot lose an update, and close or
// delete cannot interleave with an in-flight scan. Sessions do not block
// one another.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on the given connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the session and scan line tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&models.Session{}, &models.ScanLine{})
}

// CreateSession inserts a new session.
func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return apperr.Wrap(err, apperr.KindUnavailable, "session create failed")
	}
	return nil
}

// GetSession loads a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "session %q not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "session lookup failed")
	}
	return &session, nil
}

// ListSessions returns every session, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).Order("started_at desc, id asc").Find(&sessions).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "session listing failed")
	}
	return sessions, nil
}

// CloseSession transitions a session from open to closed. The session row
// is locked for the duration so no scan slips in after closure.
func (s *Store) CloseSession(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSession(tx, id, &session); err != nil {
			return err
		}
		if !session.IsOpen() {
			return apperr.New(apperr.KindStateError, "session %q is already closed", id)
		}
		session.Status = models.StatusClosed
		session.ClosedAt = &now
		if err := tx.Model(&session).Updates(map[string]any{
			"status":    models.StatusClosed,
			"closed_at": now,
		}).Error; err != nil {
			return apperr.Wrap(err, apperr.KindUnavailable, "session close failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session and all its scan lines in one
// transaction, from either state.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := lockSession(tx, id, &session); err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.ScanLine{}).Error; err != nil {
			return apperr.Wrap(err, apperr.KindUnavailable, "scan line delete failed")
		}
		if err := tx.Delete(&models.Session{}, "id = ?", id).Error; err != nil {
			return apperr.Wrap(err, apperr.KindUnavailable, "session delete failed")
		}
		return nil
	})
}

// ListScanLines returns a session's lines, most recently scanned first.
// limit <= 0 returns the full history; windowing is a display concern.
func (s *Store) ListScanLines(ctx context.Context, sessionID string, limit int) ([]models.ScanLine, error) {
	lines := []models.ScanLine{}
	q := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("last_scanned_at desc, item_code asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&lines).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "scan line listing failed")
	}
	return lines, nil
}

// ListScanLinesByCode returns a session's lines ordered by item code, the
// ordering variance reports are built from.
func (s *Store) ListScanLinesByCode(ctx context.Context, sessionID string) ([]models.ScanLine, error) {
	lines := []models.ScanLine{}
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("item_code asc").
		Find(&lines).Error
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnavailable, "scan line listing failed")
	}
	return lines, nil
}

// CreateOrIncrement applies one resolved scan to the (session, item) line.
// First scan creates the line with the label quantity; a repeat scan either
// increments it or, under the reject policy, fails with a conflict carrying
// the untouched line. The whole step is one transaction: on any error the
// prior state is unchanged.
func (s *Store) CreateOrIncrement(ctx context.Context, sessionID string, entry *catalog.Entry, now time.Time, policy string) (*models.ScanLine, Outcome, error) {
	var line models.ScanLine
	outcome := OutcomeCreated

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := lockSession(tx, sessionID, &session); err != nil {
			return err
		}
		// Re-validated under the lock: a concurrent close wins over an
		// in-flight scan.
		if !session.IsOpen() {
			return apperr.New(apperr.KindStateError, "session %q is closed", sessionID)
		}

		err := tx.Where("session_id = ? AND item_code = ?", sessionID, entry.ItemCode).First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			line = models.ScanLine{
				SessionID:      sessionID,
				ItemCode:       entry.ItemCode,
				Description:    entry.Description,
				Mask:           entry.Mask,
				Quantity:       entry.QuantityIncrement,
				FirstScannedAt: now,
				LastScannedAt:  now,
			}
			if err := tx.Create(&line).Error; err != nil {
				return apperr.Wrap(err, apperr.KindUnavailable, "scan line create failed")
			}
			outcome = OutcomeCreated
			return nil
		}
		if err != nil {
			return apperr.Wrap(err, apperr.KindUnavailable, "scan line lookup failed")
		}

		if policy == PolicyReject {
			return apperr.New(apperr.KindConflict, "item %q already counted in session %q", entry.ItemCode, sessionID).WithData(line)
		}

		line.Quantity += entry.QuantityIncrement
		line.LastScannedAt = now
		if err := tx.Model(&models.ScanLine{}).
			Where("id = ?", line.ID).
			Updates(map[string]any{
				"quantity":        gorm.Expr("quantity + ?", entry.QuantityIncrement),
				"last_scanned_at": now,
			}).Error; err != nil {
			return apperr.Wrap(err, apperr.KindUnavailable, "scan line increment failed")
		}
		outcome = OutcomeIncremented
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &line, outcome, nil
}

// PurgeAll deletes every session and scan line. Used by the purge command.
func (s *Store) PurgeAll(ctx context.Context) (sessions int64, lines int64, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.ScanLine{})
		if res.Error != nil {
			return apperr.Wrap(res.Error, apperr.KindUnavailable, "scan line purge failed")
		}
		lines = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&models.Session{})
		if res.Error != nil {
			return apperr.Wrap(res.Error, apperr.KindUnavailable, "session purge failed")
		}
		sessions = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return sessions, lines, nil
}

// lockSession loads the session row under a row lock inside tx.
func lockSession(tx *gorm.DB, id string, session *models.Session) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, "session %q not found", id)
	}
	if err != nil {
		return apperr.Wrap(err, apperr.KindUnavailable, "session lock failed")
	}
	return nil
}
