package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/events"
	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/services"
	"github.com/platemate/dinein-api/utils"
)

type SessionController struct {
	DB       *gorm.DB
	Sessions *services.SessionService
}

func NewSessionController(db *gorm.DB, sessions *services.SessionService) *SessionController {
	return &SessionController{DB: db, Sessions: sessions}
}

// JoinTable -> POST /tables/:table_id/join
// Every guest joining the same table inside the active window gets the same
// shared token; a stale session is replaced transparently.
func (sc *SessionController) JoinTable(c *gin.Context) {
	tableID, ok := parseUintParam(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		IdentitySignal string `json:"identity_signal" binding:"required"`
		DisplayName    string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	result, err := sc.Sessions.Join(tableID, req.IdentitySignal, req.DisplayName)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if result.CreatedSession {
		events.BroadcastSessionOpened(result.Session)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        true,
		"code":          "SESSION_JOINED",
		"user_id":       result.Guest.ID,
		"session_id":    result.Session.ID,
		"session_token": result.Session.Token,
		"message":       "joined table session",
		"expires_at":    result.Session.Deadline(),
	})
}

// GetSession -> GET /sessions/:token
func (sc *SessionController) GetSession(c *gin.Context) {
	session, err := sc.Sessions.FindByToken(c.Param("token"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session detail", session)
}

// CloseSession -> POST /sessions/:token/close
func (sc *SessionController) CloseSession(c *gin.Context) {
	session, err := sc.Sessions.Close(c.Param("token"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	events.BroadcastSessionClosed(*session)
	events.BroadcastStaffNotification(fmt.Sprintf("Table %d session closed, table needs clearing", session.TableID))
	utils.RespondJSON(c, http.StatusOK, "Session closed", session)
}

// DeactivateSession -> POST /admin/sessions/:token/deactivate
// Pauses a session: order submission stops, history stays visible.
func (sc *SessionController) DeactivateSession(c *gin.Context) {
	session, err := sc.Sessions.Deactivate(c.Param("token"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session deactivated", session)
}

// SweepSessions -> POST /admin/sessions/sweep
// Operational trigger for the same transition the background sweeper runs.
func (sc *SessionController) SweepSessions(c *gin.Context) {
	swept, err := sc.Sessions.SweepExpired()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	events.BroadcastSessionsExpired(swept)
	utils.RespondJSON(c, http.StatusOK, "Sweep completed", gin.H{
		"count":    len(swept),
		"sessions": swept,
	})
}

// GetAllSessions -> GET /admin/sessions
func (sc *SessionController) GetAllSessions(c *gin.Context) {
	var sessions []models.TableSession
	query := sc.DB.Order("id DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&sessions).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sessions", sessions)
}
