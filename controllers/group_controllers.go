package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"little-lemon-api/models"
	"little-lemon-api/policy"
	"little-lemon-api/utils"
)

// GroupController is the staff directory: membership of the Manager and
// Delivery Crew groups. Every route is behind RequireManager.
type GroupController struct {
	DB *gorm.DB
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db}
}

func (gc *GroupController) GetManagerUsers(c *gin.Context) {
	gc.listGroupUsers(c, models.GroupManager)
}

func (gc *GroupController) AddManagerUser(c *gin.Context) {
	gc.addGroupUser(c, models.GroupManager)
}

func (gc *GroupController) RemoveManagerUser(c *gin.Context) {
	gc.removeGroupUser(c, models.GroupManager)
}

func (gc *GroupController) GetDeliveryCrewUsers(c *gin.Context) {
	gc.listGroupUsers(c, models.GroupDeliveryCrew)
}

func (gc *GroupController) AddDeliveryCrewUser(c *gin.Context) {
	gc.addGroupUser(c, models.GroupDeliveryCrew)
}

func (gc *GroupController) RemoveDeliveryCrewUser(c *gin.Context) {
	gc.removeGroupUser(c, models.GroupDeliveryCrew)
}

func (gc *GroupController) listGroupUsers(c *gin.Context, groupName string) {
	users := make([]models.User, 0)
	err := gc.DB.Select("users.*").
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("groups.name = ?", groupName).
		Find(&users).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Users in "+groupName+" group", users)
}

// addGroupUser resolves the username and adds the membership. Adding an
// existing member is a no-op success.
func (gc *GroupController) addGroupUser(c *gin.Context, groupName string) {
	var body struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := gc.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	member, err := policy.IsInGroup(gc.DB, user.ID, groupName)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if member {
		utils.RespondJSON(c, http.StatusOK, "User already in "+groupName+" group", user)
		return
	}

	var group models.Group
	if err := gc.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := gc.DB.Model(&user).Association("Groups").Append(&group); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s added to %s group", user.Username, groupName)
	utils.RespondJSON(c, http.StatusCreated, "User added to "+groupName+" group", user)
}

// removeGroupUser removes the membership by user id. Removing a non-member
// succeeds without effect.
func (gc *GroupController) removeGroupUser(c *gin.Context, groupName string) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var user models.User
	if err := gc.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	var group models.Group
	if err := gc.DB.Where("name = ?", groupName).First(&group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := gc.DB.Model(&user).Association("Groups").Delete(&group); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s removed from %s group", user.Username, groupName)
	utils.RespondJSON(c, http.StatusOK, "User removed from "+groupName+" group", gin.H{"user_id": user.ID})
}
