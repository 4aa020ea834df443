package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetAllTables -> GET /tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Find(&tables).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> POST /admin/tables
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Status:      models.TableActive,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s", table.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// UpdateTableStatus -> PATCH /admin/tables/:table_id
// Deactivating a table stops new joins; the running session, if any, ends
// through close or the sweeper.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID, ok := parseUintParam(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Status != models.TableActive && req.Status != models.TableInactive {
		utils.RespondAppError(c, &utils.AppError{
			Code:    "VALIDATION_ERROR",
			Status:  http.StatusUnprocessableEntity,
			Message: "table status must be active or inactive",
		})
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, utils.ErrTableNotFound)
		return
	}

	table.Status = req.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}
