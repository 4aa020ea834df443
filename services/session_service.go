package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/utils"
)

// DefaultSessionMinutes is used when no duration is configured.
const DefaultSessionMinutes = 120

// nonTerminal is the status set that still holds a table's session slot.
var nonTerminal = []string{models.SessionActive, models.SessionInactive}

// SessionService owns the table-session state machine: join/create, manual
// close/deactivate, and expiration. Every transition to a terminal state
// goes through the same conditional update, so a session is closed or
// expired at most once no matter how many writers race for it, and the
// unique active-slot index keeps concurrent joins from opening two sessions
// on one table.
type SessionService struct {
	DB             *gorm.DB
	SessionMinutes int
}

func NewSessionService(db *gorm.DB, sessionMinutes int) *SessionService {
	if sessionMinutes <= 0 {
		sessionMinutes = DefaultSessionMinutes
	}
	return &SessionService{DB: db, SessionMinutes: sessionMinutes}
}

// JoinResult carries everything the join endpoint returns.
type JoinResult struct {
	Session        models.TableSession
	Guest          models.Guest
	CreatedSession bool
}

// Join resolves a guest by its identity signal and attaches it to the
// table's active session, creating a fresh session first when the table has
// none, or when the current one is stale (terminal, inactive, or past its
// deadline). Repeated joins by the same guest are no-ops; every guest
// joining inside the active window receives the same shared token.
func (s *SessionService) Join(tableID uint, identitySignal, displayName string) (*JoinResult, error) {
	if !utils.ValidIdentitySignal(identitySignal) {
		return nil, utils.ErrBadIdentity
	}

	var result JoinResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrTableNotFound
			}
			return err
		}
		if table.Status != models.TableActive {
			return utils.ErrTableInactive
		}

		now := time.Now()

		guest, err := s.resolveGuest(tx, identitySignal, displayName, now)
		if err != nil {
			return err
		}

		session, created, err := s.findOrCreateSession(tx, table.ID, guest.ID, now)
		if err != nil {
			return err
		}

		member := models.SessionMember{SessionID: session.ID, GuestID: guest.ID}
		if err := tx.Where(models.SessionMember{SessionID: session.ID, GuestID: guest.ID}).
			Attrs(models.SessionMember{JoinedAt: now}).
			FirstOrCreate(&member).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}

		result = JoinResult{Session: *session, Guest: *guest, CreatedSession: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CreatedSession {
		utils.InfoLogger.Printf("New session %d opened on table %d by guest %d",
			result.Session.ID, result.Session.TableID, result.Guest.ID)
	}
	return &result, nil
}

// resolveGuest finds or creates the diner identity behind a signal. An
// existing guest gets its display name refreshed when the caller sent a
// different one, and its last-seen timestamp bumped on every join.
func (s *SessionService) resolveGuest(tx *gorm.DB, signal, displayName string, now time.Time) (*models.Guest, error) {
	var guest models.Guest
	err := tx.Where("contact = ?", signal).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		guest = models.Guest{
			Contact:     signal,
			DisplayName: displayName,
			LastSeenAt:  now,
		}
		err = tx.Create(&guest).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a first-join race for the same contact; use the winner.
			err = tx.Where("contact = ?", signal).First(&guest).Error
		}
		if err != nil {
			return nil, err
		}
		return &guest, nil
	}
	if err != nil {
		return nil, err
	}

	guest.LastSeenAt = now
	if displayName != "" && guest.DisplayName != displayName {
		guest.DisplayName = displayName
	}
	if err := tx.Save(&guest).Error; err != nil {
		return nil, err
	}
	return &guest, nil
}

// findOrCreateSession returns the table's current active session, replacing
// it with a new one when it is missing, not active, or past its deadline.
// The stale session is expired through the shared conditional update before
// the replacement is inserted; a duplicate-key failure on the insert means
// a concurrent join won the slot, in which case its session is adopted.
func (s *SessionService) findOrCreateSession(tx *gorm.DB, tableID, guestID uint, now time.Time) (*models.TableSession, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		var current models.TableSession
		err := tx.Where("table_id = ?", tableID).Order("id DESC").First(&current).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		found := err == nil

		if found && current.Status == models.SessionActive && now.Before(current.Deadline()) {
			return &current, false, nil
		}

		if found && !current.IsTerminal() {
			if _, err := markExpired(tx, current.ID, now); err != nil {
				return nil, false, err
			}
		}

		activeTableID := tableID
		session := models.TableSession{
			TableID:         tableID,
			CreatedByID:     guestID,
			Token:           utils.NewSessionToken(),
			Status:          models.SessionActive,
			ActiveTableID:   &activeTableID,
			StartedAt:       now,
			DurationMinutes: s.SessionMinutes,
		}
		err = tx.Create(&session).Error
		if err == nil {
			return &session, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// Active slot taken in the meantime; loop once to adopt it.
	}
	return nil, false, utils.ErrSessionNotFound
}

// Close transitions a session to closed on behalf of the guests. Fails when
// the token is unknown or the session already reached a terminal state.
func (s *SessionService) Close(token string) (*models.TableSession, error) {
	session, err := s.terminate(token, models.SessionClosed)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Session %d on table %d closed manually", session.ID, session.TableID)
	return session, nil
}

// Deactivate pauses an active session without ending it: no new orders are
// accepted, history stays visible, and the session still occupies the
// table's slot until it is closed or expires.
func (s *SessionService) Deactivate(token string) (*models.TableSession, error) {
	var session models.TableSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrSessionNotFound
			}
			return err
		}
		if session.Status != models.SessionActive {
			return utils.ErrSessionNotActive
		}

		res := tx.Model(&models.TableSession{}).
			Where("id = ? AND status = ?", session.ID, models.SessionActive).
			Update("status", models.SessionInactive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrSessionNotActive
		}
		session.Status = models.SessionInactive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) terminate(token, status string) (*models.TableSession, error) {
	var session models.TableSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrSessionNotFound
			}
			return err
		}
		if session.IsTerminal() {
			return utils.ErrSessionClosed
		}

		now := time.Now()
		res := tx.Model(&models.TableSession{}).
			Where("id = ? AND status IN ?", session.ID, nonTerminal).
			Updates(map[string]interface{}{
				"status":          status,
				"ended_at":        now,
				"active_table_id": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Someone else closed or expired it between the read and here.
			return utils.ErrSessionClosed
		}

		session.Status = status
		session.EndedAt = &now
		session.ActiveTableID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByToken returns a session snapshot without side effects.
func (s *SessionService) FindByToken(token string) (*models.TableSession, error) {
	var session models.TableSession
	if err := s.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// SweepExpired transitions every non-terminal session past its deadline to
// expired. Safe to run concurrently with Join: both paths funnel through
// markExpired, so each session is expired exactly once and the loser of a
// race simply skips the row.
func (s *SessionService) SweepExpired() ([]models.TableSession, error) {
	now := time.Now()

	var candidates []models.TableSession
	if err := s.DB.Where("status IN ?", nonTerminal).Find(&candidates).Error; err != nil {
		return nil, err
	}

	swept := make([]models.TableSession, 0)
	for i := range candidates {
		session := candidates[i]
		if now.Before(session.Deadline()) {
			continue
		}
		won, err := markExpired(s.DB, session.ID, now)
		if err != nil {
			utils.ErrorLogger.Printf("Sweep: expiring session %d failed: %v", session.ID, err)
			continue
		}
		if !won {
			continue
		}
		session.Status = models.SessionExpired
		session.EndedAt = &now
		session.ActiveTableID = nil
		swept = append(swept, session)
	}

	if len(swept) > 0 {
		utils.InfoLogger.Printf("Sweep expired %d session(s)", len(swept))
	}
	return swept, nil
}

// markExpired is the single expire transition shared by Join and the
// sweeper. The status predicate makes it a compare-and-set: only the first
// writer flips the row and frees the table's active slot, everyone after
// sees zero rows affected.
func markExpired(tx *gorm.DB, sessionID uint, now time.Time) (bool, error) {
	res := tx.Model(&models.TableSession{}).
		Where("id = ? AND status IN ?", sessionID, nonTerminal).
		Updates(map[string]interface{}{
			"status":          models.SessionExpired,
			"ended_at":        now,
			"active_table_id": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
