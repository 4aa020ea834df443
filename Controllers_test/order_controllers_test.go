package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/platemate/dinein-api/models"
)

type orderFixture struct {
	table   models.Table
	product models.Product
	option  models.ProductOption
	token   string
}

func seedOrderFixture(t *testing.T, db *gorm.DB) orderFixture {
	table := models.Table{TableNumber: "T1", Status: models.TableActive}
	assert.NoError(t, db.Create(&table).Error)

	category := models.MenuCategory{Name: "Mains"}
	assert.NoError(t, db.Create(&category).Error)

	product := models.Product{
		CategoryID:  category.ID,
		Name:        "Grilled Salmon",
		Price:       30.00,
		Available:   true,
		Description: "with lemon butter",
	}
	assert.NoError(t, db.Create(&product).Error)

	option := models.ProductOption{
		ProductID:  product.ID,
		Name:       "Extra Sauce",
		PriceDelta: 3.00,
		Active:     true,
	}
	assert.NoError(t, db.Create(&option).Error)

	return orderFixture{table: table, product: product, option: option}
}

func TestSubmitOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	fx := seedOrderFixture(t, db)
	r := setupSessionRouter(db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/tables/%d/join", fx.table.ID), map[string]interface{}{
		"identity_signal": "alice@example.com",
	})
	token := decodeBody(t, w)["session_token"].(string)

	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"items": []map[string]interface{}{
			{
				"product_id": fx.product.ID,
				"quantity":   2,
				"options":    []map[string]interface{}{{"option_id": fx.option.ID}},
				"note":       "no cilantro",
			},
		},
		"customer_note": "window seat",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["status"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, models.OrderPending, data["status"])
	assert.Equal(t, float64(1), data["display_number"])
	assert.Equal(t, 66.00, data["subtotal"])
	assert.Equal(t, 66.00, data["total"])
	assert.Equal(t, "window seat", data["customer_note"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, 30.00, item["unit_price"])
	assert.Equal(t, 3.00, item["options_total"])
	assert.Equal(t, 66.00, item["subtotal"])
}

func TestSubmitOrderIgnoresClientPrices(t *testing.T) {
	db := setupTestDB(t)
	fx := seedOrderFixture(t, db)
	r := setupSessionRouter(db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/tables/%d/join", fx.table.ID), map[string]interface{}{
		"identity_signal": "alice@example.com",
	})
	token := decodeBody(t, w)["session_token"].(string)

	// price fields in the payload are not part of the contract and must
	// have no effect on the stored amounts
	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"subtotal":      0.01,
		"total":         0.01,
		"items": []map[string]interface{}{
			{
				"product_id": fx.product.ID,
				"quantity":   1,
				"unit_price": 0.01,
				"subtotal":   0.01,
			},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 30.00, data["subtotal"])
	assert.Equal(t, 30.00, data["total"])
}

func TestSubmitOrderErrors(t *testing.T) {
	db := setupTestDB(t)
	fx := seedOrderFixture(t, db)
	r := setupSessionRouter(db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/tables/%d/join", fx.table.ID), map[string]interface{}{
		"identity_signal": "alice@example.com",
	})
	token := decodeBody(t, w)["session_token"].(string)

	// empty cart
	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"items":         []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_CART", decodeBody(t, w)["code"])

	// unknown session token
	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": "no-such-token",
		"items": []map[string]interface{}{
			{"product_id": fx.product.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeBody(t, w)["code"])

	// quantity out of range
	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"items": []map[string]interface{}{
			{"product_id": fx.product.ID, "quantity": 100},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "QUANTITY_RANGE", decodeBody(t, w)["code"])

	// closed session rejects submission
	w = doJSON(t, r, "POST", "/sessions/"+token+"/close", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"items": []map[string]interface{}{
			{"product_id": fx.product.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SESSION_NOT_ACTIVE", decodeBody(t, w)["code"])
}

func TestSessionOrdersVisibilityEndpoint(t *testing.T) {
	db := setupTestDB(t)
	fx := seedOrderFixture(t, db)
	r := setupSessionRouter(db)

	w := doJSON(t, r, "POST", fmt.Sprintf("/tables/%d/join", fx.table.ID), map[string]interface{}{
		"identity_signal": "alice@example.com",
	})
	token := decodeBody(t, w)["session_token"].(string)

	w = doJSON(t, r, "POST", "/orders", map[string]interface{}{
		"session_token": token,
		"items": []map[string]interface{}{
			{"product_id": fx.product.ID, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// open session: history visible
	w = doJSON(t, r, "GET", "/sessions/"+token+"/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["visible"])
	assert.Equal(t, models.SessionActive, data["session_status"])
	assert.Len(t, data["orders"].([]interface{}), 1)

	w = doJSON(t, r, "POST", "/sessions/"+token+"/close", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// closed session: still 200, but the list is blanked
	w = doJSON(t, r, "GET", "/sessions/"+token+"/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["visible"])
	assert.Equal(t, models.SessionClosed, data["session_status"])
	assert.Len(t, data["orders"].([]interface{}), 0)

	// rows survive the closure, only the read path hides them
	var count int64
	assert.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
