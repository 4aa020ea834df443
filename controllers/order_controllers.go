package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/events"
	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/services"
	"github.com/platemate/dinein-api/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// SubmitOrder -> POST /orders
// The cart carries product/option references only; every price is
// recomputed server-side from the catalog at submission time.
func (oc *OrderController) SubmitOrder(c *gin.Context) {
	type optionReq struct {
		OptionID uint `json:"option_id" binding:"required"`
	}
	type itemReq struct {
		ProductID uint        `json:"product_id" binding:"required"`
		Quantity  int         `json:"quantity" binding:"required"`
		Options   []optionReq `json:"options"`
		Note      string      `json:"note"`
	}

	var req struct {
		SessionToken string    `json:"session_token" binding:"required"`
		Items        []itemReq `json:"items"`
		CustomerNote string    `json:"customer_note"`
		KitchenNote  string    `json:"kitchen_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	items := make([]services.SubmitItem, 0, len(req.Items))
	for _, item := range req.Items {
		submit := services.SubmitItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Note:      item.Note,
		}
		for _, opt := range item.Options {
			submit.OptionIDs = append(submit.OptionIDs, opt.OptionID)
		}
		items = append(items, submit)
	}

	order, err := oc.Orders.Submit(req.SessionToken, items, req.CustomerNote, req.KitchenNote)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	events.BroadcastOrderCreated(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> GET /orders/:order_id
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, ok := parseUintParam(c, "order_id")
	if !ok {
		return
	}

	order, err := oc.Orders.FindByID(orderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetSessionOrders -> GET /sessions/:token/orders
// Full history while the session is open; an empty list with a closure flag
// once the session is closed or expired.
func (oc *OrderController) GetSessionOrders(c *gin.Context) {
	history, err := oc.Orders.HistoryForToken(c.Param("token"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	message := "Session order history"
	if !history.Visible {
		message = "Session is closed, history is no longer available"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{
		"session_status": history.Session.Status,
		"visible":        history.Visible,
		"orders":         history.Orders,
	})
}

// GetAllOrders -> GET /admin/orders
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := oc.DB.Preload("Items.Options").Order("id DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus -> POST /admin/orders/:order_id/status
// Moves an order one step along its lifecycle, or cancels it.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseUintParam(c, "order_id")
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

	order, err := oc.Orders.AdvanceStatus(orderID, req.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	events.BroadcastOrderStatus(*order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
