package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"little-lemon-api/models"
	"little-lemon-api/utils"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// GetCart lists the caller's cart lines. Never anyone else's.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	lines := make([]models.Cart, 0)
	if err := cc.DB.Preload("MenuItem").Preload("MenuItem.Category").
		Where("user_id = ?", userID).
		Find(&lines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart items", lines)
}

// AddToCart creates or merges a cart line. The existing row is locked for
// the duration of the transaction so two concurrent adds for the same
// (user, menu item) pair serialize instead of losing an increment.
// Returns 201 when the line was created, 200 when it was merged.
func (cc *CartController) AddToCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var body struct {
		MenuItemID uint `json:"menuitem_id" binding:"required"`
		Quantity   *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}
	if quantity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("quantity must be a positive integer"))
		return
	}

	var menuItem models.MenuItem
	if err := cc.DB.First(&menuItem, body.MenuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	tx := cc.DB.Begin()
	if tx.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, tx.Error)
		return
	}

	created := false
	var line models.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItem.ID).
		First(&line).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = models.Cart{
			UserID:     userID,
			MenuItemID: menuItem.ID,
			Quantity:   quantity,
			UnitPrice:  menuItem.Price,
			Price:      menuItem.Price * float64(quantity),
		}
		if err := tx.Create(&line).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		created = true
	case err != nil:
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	default:
		// Merge: unit price stays frozen from the first add.
		line.Quantity += quantity
		line.Price = line.UnitPrice * float64(line.Quantity)
		if err := tx.Save(&line).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	cc.DB.Preload("MenuItem").Preload("MenuItem.Category").First(&line, line.ID)

	if created {
		utils.RespondJSON(c, http.StatusCreated, "Cart item added", line)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item merged", line)
}

// ClearCart deletes every cart line for the caller. Idempotent: an empty
// cart is a success with a zero count.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	res := cc.DB.Where("user_id = ?", userID).Delete(&models.Cart{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All cart items deleted", gin.H{"deleted": res.RowsAffected})
}
