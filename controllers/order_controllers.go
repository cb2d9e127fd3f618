package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"little-lemon-api/models"
	"little-lemon-api/policy"
	"little-lemon-api/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// orderView is the wire shape of an order: usernames instead of user rows.
type orderView struct {
	ID           uint               `json:"id"`
	User         string             `json:"user"`
	DeliveryCrew *string            `json:"delivery_crew"`
	Status       bool               `json:"status"`
	Total        float64            `json:"total"`
	Date         string             `json:"date"`
	OrderItems   []models.OrderItem `json:"order_items"`
}

func newOrderView(o models.Order) orderView {
	var crew *string
	if o.DeliveryCrew != nil {
		name := o.DeliveryCrew.Username
		crew = &name
	}
	return orderView{
		ID:           o.ID,
		User:         o.User.Username,
		DeliveryCrew: crew,
		Status:       o.Status,
		Total:        o.Total,
		Date:         o.Date.Format("2006-01-02"),
		OrderItems:   o.OrderItems,
	}
}

func (oc *OrderController) withOrderPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("DeliveryCrew").
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Preload("OrderItems.MenuItem.Category")
}

func (oc *OrderController) callerRole(c *gin.Context) (uint, policy.Role, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return 0, policy.RoleCustomer, false
	}
	role, err := policy.ResolveRole(oc.DB, userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return 0, policy.RoleCustomer, false
	}
	return userID, role, true
}

// GetAllOrders lists orders through the caller's visibility scope:
// managers see everything, delivery crew their assignments, customers
// their own orders.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	userID, role, ok := oc.callerRole(c)
	if !ok {
		return
	}

	var orders []models.Order
	scope := policy.OrderScope(oc.withOrderPreloads(oc.DB), role, userID)
	if err := scope.Order("orders.id asc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", views)
}

// CreateOrder is checkout: the caller's cart becomes an order in a single
// transaction. Cart rows are locked first so a concurrent checkout of the
// same cart cannot spend it twice; any failure rolls everything back.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	tx := oc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	var lines []models.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Find(&lines).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if len(lines) == 0 {
		tx.Rollback()
		utils.RespondError(c, http.StatusBadRequest, errors.New("Cart is empty"))
		return
	}

	var total float64
	for _, line := range lines {
		total += line.Price
	}

	order := models.Order{
		UserID: userID,
		Status: false,
		Total:  total,
		Date:   time.Now().Truncate(24 * time.Hour),
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, line := range lines {
		item := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			Price:      line.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.withOrderPreloads(oc.DB).First(&order, order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", newOrderView(order))
}

// findVisibleOrder loads an order through the caller's scope. Orders
// outside the scope are reported as not found, never as forbidden.
func (oc *OrderController) findVisibleOrder(c *gin.Context, userID uint, role policy.Role, preload bool) (models.Order, bool) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	db := oc.DB
	if preload {
		db = oc.withOrderPreloads(db)
	}

	var order models.Order
	err := policy.OrderScope(db, role, userID).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return order, false
	}
	return order, true
}

// GetOrderByID
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, role, ok := oc.callerRole(c)
	if !ok {
		return
	}

	order, found := oc.findVisibleOrder(c, userID, role, true)
	if !found {
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", newOrderView(order))
}

// UpdateOrder applies a patch under the role state machine. Managers may
// set status and delivery_crew_id; delivery crew may set status and nothing
// else; customers may not update at all. A rejected patch leaves the order
// untouched.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	userID, role, ok := oc.callerRole(c)
	if !ok {
		return
	}

	order, found := oc.findVisibleOrder(c, userID, role, false)
	if !found {
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	fields := make([]string, 0, len(patch))
	for k := range patch {
		fields = append(fields, k)
	}

	if decision := policy.CanUpdateOrder(role, fields); !decision.Allowed {
		utils.RespondError(c, http.StatusForbidden, errors.New(decision.Reason))
		return
	}

	for _, field := range fields {
		switch field {
		case "status":
			status, ok := patch["status"].(bool)
			if !ok {
				utils.RespondError(c, http.StatusBadRequest, errors.New("status must be a boolean"))
				return
			}
			order.Status = status
		case "delivery_crew_id":
			if patch["delivery_crew_id"] == nil {
				order.DeliveryCrewID = nil
				continue
			}
			raw, ok := patch["delivery_crew_id"].(float64)
			if !ok {
				utils.RespondError(c, http.StatusBadRequest, errors.New("delivery_crew_id must be a user id"))
				return
			}
			crewID := uint(raw)
			member, err := policy.IsInGroup(oc.DB, crewID, models.GroupDeliveryCrew)
			if err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
			if !member {
				utils.RespondError(c, http.StatusBadRequest, errors.New("delivery_crew_id does not reference a delivery crew member"))
				return
			}
			order.DeliveryCrewID = &crewID
		default:
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown field: "+field))
			return
		}
	}

	if err := oc.DB.Model(&order).Updates(map[string]interface{}{
		"status":           order.Status,
		"delivery_crew_id": order.DeliveryCrewID,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.withOrderPreloads(oc.DB).First(&order, order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order updated", newOrderView(order))
}

// DeleteOrder. Managers only; anyone else gets a 403 and the order stays.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	userID, role, ok := oc.callerRole(c)
	if !ok {
		return
	}

	if decision := policy.CanDeleteOrder(role); !decision.Allowed {
		utils.RespondError(c, http.StatusForbidden, errors.New(decision.Reason))
		return
	}

	order, found := oc.findVisibleOrder(c, userID, role, false)
	if !found {
		return
	}

	tx := oc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID})
}
