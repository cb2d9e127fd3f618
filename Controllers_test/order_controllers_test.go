package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"little-lemon-api/controllers"
	"little-lemon-api/models"
)

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(testAuthMiddleware())
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	r.POST("/cart/menu-items", cartCtrl.AddToCart)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/orders/:order_id", orderCtrl.UpdateOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	return r
}

func fillCart(t *testing.T, r *gin.Engine, userID, itemID uint, quantity int) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/cart/menu-items", userID, map[string]interface{}{
		"menuitem_id": itemID,
		"quantity":    quantity,
	})
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		t.Fatalf("failed to fill cart: %d %s", w.Code, w.Body.String())
	}
}

func TestCheckoutDrainsCartAndSnapshotsTotal(t *testing.T) {
	db := openTestDB(t)
	r := setupOrderRouter(db)

	user := seedUser(t, db, "alice")
	item := seedMenuItem(t, db, "Greek Salad", 10)

	fillCart(t, r, user.ID, item.ID, 2)
	fillCart(t, r, user.ID, item.ID, 1)

	w := doJSON(t, r, http.MethodPost, "/orders", user.ID, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["user"])
	assert.Equal(t, false, data["status"])
	assert.Nil(t, data["delivery_crew"])
	assert.Equal(t, 30.0, data["total"])

	items := data["order_items"].([]interface{})
	assert.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(3), first["quantity"])
	assert.Equal(t, 10.0, first["unit_price"])
	assert.Equal(t, 30.0, first["price"])

	// Cart drained.
	var cartCount int64
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)

	// Later price changes never touch the persisted order.
	db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Update("price", 50)
	var order models.Order
	db.First(&order)
	assert.Equal(t, 30.0, order.Total)
}

func TestCheckoutOnEmptyCart(t *testing.T) {
	db := openTestDB(t)
	r := setupOrderRouter(db)

	user := seedUser(t, db, "alice")

	w := doJSON(t, r, http.MethodPost, "/orders", user.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Cart is empty", resp["message"])

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
}

// seedOrder places an order for user by driving the cart+checkout flow.
func seedOrder(t *testing.T, db *gorm.DB, r *gin.Engine, userID uint, itemID uint) uint {
	t.Helper()
	fillCart(t, r, userID, itemID, 1)
	w := doJSON(t, r, http.MethodPost, "/orders", userID, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to seed order: %d %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}

func TestOrderVisibilityByRole(t *testing.T) {
	db := openTestDB(t)
	r := setupOrderRouter(db)

	manager := seedUser(t, db, "mario", models.GroupManager)
	crew := seedUser(t, db, "bob", models.GroupDeliveryCrew)
	alice := seedUser(t, db, "alice")
	carol := seedUser(t, db, "carol")
	item := seedMenuItem(t, db, "Greek Salad", 10)

	aliceOrder := seedOrder(t, db, r, alice.ID, item.ID)
	carolOrder := seedOrder(t, db, r, carol.ID, item.ID)

	// Assign carol's order to bob.
	assert.NoError(t, db.Model(&models.Order{}).Where("id = ?", carolOrder).
		Update("delivery_crew_id", crew.ID).Error)

	// Manager sees everything.
	w := doJSON(t, r, http.MethodGet, "/orders", manager.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 2)

	// Delivery crew sees only assignments.
	w = doJSON(t, r, http.MethodGet, "/orders", crew.ID, nil)
	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, float64(carolOrder), data[0].(map[string]interface{})["id"])

	// Customer sees only their own.
	w = doJSON(t, r, http.MethodGet, "/orders", alice.ID, nil)
	data = decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, float64(aliceOrder), data[0].(map[string]interface{})["id"])

	// Single get outside the caller's scope is a 404, not a 403.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", carolOrder), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", aliceOrder), crew.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderUpdateStateMachine(t *testing.T) {
	db := openTestDB(t)
	r := setupOrderRouter(db)

	manager := seedUser(t, db, "mario", models.GroupManager)
	crew := seedUser(t, db, "bob", models.GroupDeliveryCrew)
	alice := seedUser(t, db, "alice")
	item := seedMenuItem(t, db, "Greek Salad", 10)

	orderID := seedOrder(t, db, r, alice.ID, item.ID)
	url := fmt.Sprintf("/orders/%d", orderID)

	// Customer cannot update at all.
	w := doJSON(t, r, http.MethodPatch, url, alice.ID, map[string]interface{}{"status": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You cannot update orders", decodeBody(t, w)["message"])

	// Manager assigns delivery crew.
	w = doJSON(t, r, http.MethodPatch, url, manager.ID, map[string]interface{}{"delivery_crew_id": crew.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "bob", data["delivery_crew"])

	// Manager cannot assign a non-crew user.
	w = doJSON(t, r, http.MethodPatch, url, manager.ID, map[string]interface{}{"delivery_crew_id": alice.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Crew flips status on its own assignment.
	w = doJSON(t, r, http.MethodPatch, url, crew.ID, map[string]interface{}{"status": true})
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	db.First(&order, orderID)
	assert.True(t, order.Status)
	assert.Equal(t, crew.ID, *order.DeliveryCrewID)

	// Crew touching anything beyond status is rejected, order unchanged.
	w = doJSON(t, r, http.MethodPatch, url, crew.ID, map[string]interface{}{
		"status":           false,
		"delivery_crew_id": nil,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only update status", decodeBody(t, w)["message"])

	db.First(&order, orderID)
	assert.True(t, order.Status)
	assert.Equal(t, crew.ID, *order.DeliveryCrewID)
}

func TestOnlyManagerDeletesOrders(t *testing.T) {
	db := openTestDB(t)
	r := setupOrderRouter(db)

	manager := seedUser(t, db, "mario", models.GroupManager)
	crew := seedUser(t, db, "bob", models.GroupDeliveryCrew)
	alice := seedUser(t, db, "alice")
	item := seedMenuItem(t, db, "Greek Salad", 10)

	orderID := seedOrder(t, db, r, alice.ID, item.ID)
	url := fmt.Sprintf("/orders/%d", orderID)

	for _, caller := range []uint{alice.ID, crew.ID} {
		w := doJSON(t, r, http.MethodDelete, url, caller, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Only managers can delete orders", decodeBody(t, w)["message"])
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w := doJSON(t, r, http.MethodDelete, url, manager.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
