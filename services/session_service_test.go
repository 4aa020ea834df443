package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.Guest{},
		&models.TableSession{},
		&models.SessionMember{},
		&models.MenuCategory{},
		&models.Product{},
		&models.ProductOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemOption{},
		&models.DailyOrderCounter{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedTable(t *testing.T, db *gorm.DB, status string) models.Table {
	table := models.Table{TableNumber: "T1", Status: status}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

// backdate pushes a session's start far enough into the past that its
// deadline has elapsed.
func backdate(t *testing.T, db *gorm.DB, sessionID uint, minutes int) {
	err := db.Model(&models.TableSession{}).
		Where("id = ?", sessionID).
		Update("started_at", time.Now().Add(-time.Duration(minutes)*time.Minute)).Error
	if err != nil {
		t.Fatalf("failed to backdate session: %v", err)
	}
}

func TestJoinSharesTokenAcrossGuests(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	first, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)
	assert.True(t, first.CreatedSession)
	assert.Equal(t, models.SessionActive, first.Session.Status)

	second, err := svc.Join(table.ID, "bob@example.com", "Bob")
	assert.NoError(t, err)
	assert.False(t, second.CreatedSession)

	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, first.Session.Token, second.Session.Token)
	assert.NotEqual(t, first.Guest.ID, second.Guest.ID)

	var members int64
	db.Model(&models.SessionMember{}).Where("session_id = ?", first.Session.ID).Count(&members)
	assert.EqualValues(t, 2, members)
}

func TestJoinIdempotentForSameGuest(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	first, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)
	second, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)

	assert.Equal(t, first.Session.Token, second.Session.Token)
	assert.Equal(t, first.Guest.ID, second.Guest.ID)

	var members int64
	db.Model(&models.SessionMember{}).Where("session_id = ?", first.Session.ID).Count(&members)
	assert.EqualValues(t, 1, members)
}

func TestJoinRefreshesGuestDisplayName(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	_, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)

	result, err := svc.Join(table.ID, "alice@example.com", "Alice B.")
	assert.NoError(t, err)
	assert.Equal(t, "Alice B.", result.Guest.DisplayName)

	var guest models.Guest
	db.Where("contact = ?", "alice@example.com").First(&guest)
	assert.Equal(t, "Alice B.", guest.DisplayName)
}

func TestJoinValidation(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	inactive := models.Table{TableNumber: "T2", Status: models.TableInactive}
	assert.NoError(t, db.Create(&inactive).Error)
	svc := NewSessionService(db, 120)

	_, err := svc.Join(table.ID+inactive.ID+100, "alice@example.com", "Alice")
	assert.ErrorIs(t, err, utils.ErrTableNotFound)

	_, err = svc.Join(inactive.ID, "alice@example.com", "Alice")
	assert.ErrorIs(t, err, utils.ErrTableInactive)

	_, err = svc.Join(table.ID, "not-a-contact", "Alice")
	assert.ErrorIs(t, err, utils.ErrBadIdentity)

	// no session or membership rows may remain after failed joins
	var sessions int64
	db.Model(&models.TableSession{}).Count(&sessions)
	assert.EqualValues(t, 0, sessions)
}

func TestJoinReplacesExpiredSession(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	first, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)
	backdate(t, db, first.Session.ID, 125)

	second, err := svc.Join(table.ID, "carol@example.com", "Carol")
	assert.NoError(t, err)
	assert.True(t, second.CreatedSession)
	assert.NotEqual(t, first.Session.Token, second.Session.Token)

	var old models.TableSession
	db.First(&old, first.Session.ID)
	assert.Equal(t, models.SessionExpired, old.Status)
	assert.NotNil(t, old.EndedAt)
	assert.Nil(t, old.ActiveTableID)

	// single-active invariant
	var active int64
	db.Model(&models.TableSession{}).
		Where("table_id = ? AND status = ?", table.ID, models.SessionActive).
		Count(&active)
	assert.EqualValues(t, 1, active)
}

func TestJoinReplacesDeactivatedSession(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	first, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)

	_, err = svc.Deactivate(first.Session.Token)
	assert.NoError(t, err)

	second, err := svc.Join(table.ID, "bob@example.com", "Bob")
	assert.NoError(t, err)
	assert.True(t, second.CreatedSession)
	assert.NotEqual(t, first.Session.Token, second.Session.Token)

	var old models.TableSession
	db.First(&old, first.Session.ID)
	assert.Equal(t, models.SessionExpired, old.Status)
}

func TestCloseSession(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	result, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)

	closed, err := svc.Close(result.Session.Token)
	assert.NoError(t, err)
	assert.Equal(t, models.SessionClosed, closed.Status)
	assert.NotNil(t, closed.EndedAt)

	// closing again conflicts; the first transition stands
	_, err = svc.Close(result.Session.Token)
	assert.ErrorIs(t, err, utils.ErrSessionClosed)

	_, err = svc.Close("no-such-token")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestSweepExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db, 120)

	tableA := seedTable(t, db, models.TableActive)
	tableB := models.Table{TableNumber: "T2", Status: models.TableActive}
	assert.NoError(t, db.Create(&tableB).Error)

	stale, err := svc.Join(tableA.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)
	fresh, err := svc.Join(tableB.ID, "bob@example.com", "Bob")
	assert.NoError(t, err)

	backdate(t, db, stale.Session.ID, 300)

	swept, err := svc.SweepExpired()
	assert.NoError(t, err)
	assert.Len(t, swept, 1)
	assert.Equal(t, stale.Session.ID, swept[0].ID)
	assert.Equal(t, models.SessionExpired, swept[0].Status)
	assert.NotNil(t, swept[0].EndedAt)

	// the in-window session is untouched
	var kept models.TableSession
	db.First(&kept, fresh.Session.ID)
	assert.Equal(t, models.SessionActive, kept.Status)

	// a second sweep finds nothing: the transition happened exactly once
	again, err := svc.SweepExpired()
	assert.NoError(t, err)
	assert.Len(t, again, 0)
}

func TestMarkExpiredFirstWriterWins(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db, models.TableActive)
	svc := NewSessionService(db, 120)

	result, err := svc.Join(table.ID, "alice@example.com", "Alice")
	assert.NoError(t, err)

	now := time.Now()
	won, err := markExpired(db, result.Session.ID, now)
	assert.NoError(t, err)
	assert.True(t, won)

	won, err = markExpired(db, result.Session.ID, now)
	assert.NoError(t, err)
	assert.False(t, won)
}
