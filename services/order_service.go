package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
	"github.com/platemate/dinein-api/utils"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

// OrderService turns a submitted cart into a priced, numbered, persisted
// order. Every monetary figure is recomputed from the catalog inside the
// transaction; prices the client may have sent are ignored.
type OrderService struct {
	DB      *gorm.DB
	TaxRate float64
}

func NewOrderService(db *gorm.DB, taxRate float64) *OrderService {
	return &OrderService{DB: db, TaxRate: taxRate}
}

type SubmitItem struct {
	ProductID uint
	Quantity  int
	OptionIDs []uint
	Note      string
}

// Submit validates the cart against the current catalog and writes the
// order, its items and their selected options as one transaction. A failure
// on any item rolls back the whole order; no partial order is ever visible.
func (s *OrderService) Submit(token string, items []SubmitItem, customerNote, kitchenNote string) (*models.Order, error) {
	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session models.TableSession
		if err := tx.Where("token = ?", token).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrSessionNotFound
			}
			return err
		}
		if session.Status != models.SessionActive {
			return utils.ErrSessionNotActive
		}
		if len(items) == 0 {
			return utils.ErrEmptyCart
		}

		now := time.Now()

		order := models.Order{
			SessionID:    session.ID,
			Status:       models.OrderPending,
			CustomerNote: customerNote,
			KitchenNote:  kitchenNote,
		}

		var subtotal float64
		for _, item := range items {
			orderItem, err := s.buildItem(tx, item)
			if err != nil {
				return err
			}
			subtotal += orderItem.Subtotal
			order.Items = append(order.Items, *orderItem)
		}

		order.Subtotal = round2(subtotal)
		order.Tax = round2(subtotal * s.TaxRate)
		order.Discount = 0
		order.Total = round2(order.Subtotal + order.Tax - order.Discount)

		number, err := nextDisplayNumber(tx, session.TableID, now)
		if err != nil {
			return err
		}
		order.DisplayNumber = number

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var order models.Order
	if err := s.DB.Preload("Items.Options").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d (display #%d) created for session %d, total=%.2f",
		order.ID, order.DisplayNumber, order.SessionID, order.Total)
	return &order, nil
}

// buildItem validates one cart line and prices it from the catalog read
// inside the transaction: quantity bounds, product availability, and every
// selected option existing, active, and belonging to the product.
func (s *OrderService) buildItem(tx *gorm.DB, item SubmitItem) (*models.OrderItem, error) {
	if item.Quantity < MinItemQuantity || item.Quantity > MaxItemQuantity {
		return nil, utils.ErrQuantityRange
	}

	var product models.Product
	if err := tx.First(&product, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if !product.Available {
		return nil, utils.ErrProductUnavailable
	}

	var optionsTotal float64
	var selected []models.OrderItemOption
	for _, optionID := range item.OptionIDs {
		var option models.ProductOption
		if err := tx.First(&option, optionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.ErrOptionNotFound
			}
			return nil, err
		}
		if option.ProductID != product.ID {
			return nil, utils.ErrOptionMismatch
		}
		if !option.Active {
			return nil, utils.ErrOptionInactive
		}
		optionsTotal += option.PriceDelta
		selected = append(selected, models.OrderItemOption{
			OptionID:   option.ID,
			PriceDelta: option.PriceDelta,
		})
	}

	lineSubtotal := float64(item.Quantity) * (product.Price + optionsTotal)
	return &models.OrderItem{
		ProductID:    product.ID,
		Quantity:     item.Quantity,
		UnitPrice:    product.Price,
		OptionsTotal: round2(optionsTotal),
		Subtotal:     round2(lineSubtotal),
		Note:         item.Note,
		Options:      selected,
	}, nil
}

// nextDisplayNumber increments the per-(table, day) counter inside the
// caller's transaction. The increment is a single UPDATE, so concurrent
// submissions for the same table get distinct, gapless numbers; losing the
// first-of-the-day insert race falls back to the increment path.
func nextDisplayNumber(tx *gorm.DB, tableID uint, now time.Time) (int, error) {
	day := now.Format("2006-01-02")

	for attempt := 0; attempt < 2; attempt++ {
		res := tx.Model(&models.DailyOrderCounter{}).
			Where("table_id = ? AND order_day = ?", tableID, day).
			Update("last_number", gorm.Expr("last_number + 1"))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected > 0 {
			var counter models.DailyOrderCounter
			if err := tx.Where("table_id = ? AND order_day = ?", tableID, day).
				First(&counter).Error; err != nil {
				return 0, err
			}
			return counter.LastNumber, nil
		}

		counter := models.DailyOrderCounter{TableID: tableID, OrderDay: day, LastNumber: 1}
		err := tx.Create(&counter).Error
		if err == nil {
			return counter.LastNumber, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, err
		}
		// another submission created today's counter first; retry the increment
	}
	return 0, fmt.Errorf("display number contention on table %d", tableID)
}

// SessionHistory is the answer to a history query: the orders, plus the
// session state that decided their visibility.
type SessionHistory struct {
	Session models.TableSession
	Orders  []models.Order
	Visible bool
}

// HistoryForToken returns the session's orders while the session is active
// or inactive. Once the session is closed or expired the same query returns
// an empty list with Visible=false: the rows stay in storage, they are just
// not surfaced, so the table's next party never sees the previous one's
// orders.
func (s *OrderService) HistoryForToken(token string) (*SessionHistory, error) {
	var session models.TableSession
	if err := s.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, err
	}

	history := &SessionHistory{Session: session, Orders: []models.Order{}}
	if session.IsTerminal() {
		return history, nil
	}

	if err := s.DB.Preload("Items.Options").
		Where("session_id = ?", session.ID).
		Order("id ASC").
		Find(&history.Orders).Error; err != nil {
		return nil, err
	}
	history.Visible = true
	return history, nil
}

// orderFlow is the forward path of the order state machine; cancelled is
// reachable from any non-terminal state instead.
var orderFlow = map[string]string{
	models.OrderPending:       models.OrderConfirmed,
	models.OrderConfirmed:     models.OrderInPreparation,
	models.OrderInPreparation: models.OrderReady,
	models.OrderReady:         models.OrderDelivered,
	models.OrderDelivered:     models.OrderFinalized,
}

// AdvanceStatus moves an order one step along the state machine, or to
// cancelled from any non-terminal state, stamping the transition time. The
// update is conditioned on the status the caller saw, so two concurrent
// transitions cannot both apply.
func (s *OrderService) AdvanceStatus(orderID uint, next string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrOrderNotFound
			}
			return err
		}

		if order.IsTerminal() {
			return utils.ErrBadTransition
		}
		if next != models.OrderCancelled && orderFlow[order.Status] != next {
			return utils.ErrBadTransition
		}

		now := time.Now()
		updates := map[string]interface{}{"status": next}
		switch next {
		case models.OrderConfirmed:
			updates["confirmed_at"] = now
		case models.OrderInPreparation:
			updates["preparing_at"] = now
		case models.OrderReady:
			updates["ready_at"] = now
		case models.OrderDelivered:
			updates["delivered_at"] = now
		case models.OrderFinalized:
			updates["finalized_at"] = now
		case models.OrderCancelled:
			updates["cancelled_at"] = now
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrBadTransition
		}
		return tx.First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d moved to %s", order.ID, order.Status)
	return &order, nil
}

// FindByID loads one order with its items and options.
func (s *OrderService) FindByID(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items.Options").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
