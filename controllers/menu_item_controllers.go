package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"little-lemon-api/models"
	"little-lemon-api/utils"
)

type MenuItemController struct {
	DB *gorm.DB
}

func NewMenuItemController(db *gorm.DB) *MenuItemController {
	return &MenuItemController{DB: db}
}

var orderings = map[string]string{
	"price":      "menu_items.price asc",
	"-price":     "menu_items.price desc",
	"inventory":  "menu_items.inventory asc",
	"-inventory": "menu_items.inventory desc",
}

// GetAllMenuItems lists the menu. Supports exact filters on price and
// inventory, ?search= over item and category titles, and ?ordering= by
// price/inventory (prefix "-" for descending). Unknown ordering values are
// ignored rather than rejected.
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Model(&models.MenuItem{}).Select("menu_items.*").Preload("Category")

	if p := c.Query("price"); p != "" {
		price, err := strconv.ParseFloat(p, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid price filter"))
			return
		}
		query = query.Where("menu_items.price = ?", price)
	}

	if inv := c.Query("inventory"); inv != "" {
		inventory, err := strconv.Atoi(inv)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid inventory filter"))
			return
		}
		query = query.Where("menu_items.inventory = ?", inventory)
	}

	if s := c.Query("search"); s != "" {
		like := "%" + s + "%"
		query = query.
			Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("menu_items.title LIKE ? OR categories.title LIKE ?", like, like)
	}

	if order, ok := orderings[c.Query("ordering")]; ok {
		query = query.Order(order)
	}

	items := make([]models.MenuItem, 0)
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenuItem
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var body struct {
		Title      string  `json:"title" binding:"required"`
		Price      float64 `json:"price" binding:"required,gte=2"`
		Inventory  int     `json:"inventory" binding:"gte=0"`
		CategoryID uint    `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := mc.DB.First(&category, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
		return
	}

	item := models.MenuItem{
		Title:      body.Title,
		Price:      body.Price,
		Inventory:  body.Inventory,
		CategoryID: body.CategoryID,
	}
	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	item.Category = category
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuItemByID
func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem replaces the whole item (PUT).
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var body struct {
		Title      string  `json:"title" binding:"required"`
		Price      float64 `json:"price" binding:"required,gte=2"`
		Inventory  int     `json:"inventory" binding:"gte=0"`
		CategoryID uint    `json:"category_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.DB.First(&models.Category{}, body.CategoryID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
		return
	}

	item.Title = body.Title
	item.Price = body.Price
	item.Inventory = body.Inventory
	item.CategoryID = body.CategoryID

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Category").First(&item, item.ID)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// PatchMenuItem updates only the provided fields (PATCH).
func (mc *MenuItemController) PatchMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var body struct {
		Title      *string  `json:"title"`
		Price      *float64 `json:"price"`
		Inventory  *int     `json:"inventory"`
		CategoryID *uint    `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Title != nil {
		item.Title = *body.Title
	}
	if body.Price != nil {
		if *body.Price < 2 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be at least 2"))
			return
		}
		item.Price = *body.Price
	}
	if body.Inventory != nil {
		if *body.Inventory < 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("inventory cannot be negative"))
			return
		}
		item.Inventory = *body.Inventory
	}
	if body.CategoryID != nil {
		if err := mc.DB.First(&models.Category{}, *body.CategoryID).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category_id"))
			return
		}
		item.CategoryID = *body.CategoryID
	}

	if err := mc.DB.Save(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.DB.Preload("Category").First(&item, item.ID)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}
