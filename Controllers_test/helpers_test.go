package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"little-lemon-api/models"
	"little-lemon-api/utils"
)

// testAuthMiddleware stands in for the JWT middleware: the X-Test-User
// header selects the acting user.
func testAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			id, _ := strconv.Atoi(v)
			c.Set("user_id", uint(id))
		}
		c.Next()
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Category{},
		&models.MenuItem{},
		&models.Cart{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for _, name := range []string{models.GroupManager, models.GroupDeliveryCrew} {
		if err := db.Create(&models.Group{Name: name}).Error; err != nil {
			t.Fatalf("failed to seed group %q: %v", name, err)
		}
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, groups ...string) models.User {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	for _, name := range groups {
		var group models.Group
		if err := db.Where("name = ?", name).First(&group).Error; err != nil {
			t.Fatalf("group %q not seeded: %v", name, err)
		}
		if err := db.Model(&user).Association("Groups").Append(&group); err != nil {
			t.Fatalf("failed to add %s to %s: %v", username, name, err)
		}
	}
	return user
}

func seedMenuItem(t *testing.T, db *gorm.DB, title string, price float64) models.MenuItem {
	t.Helper()
	category := models.Category{Title: "Mains"}
	if err := db.Where("title = ?", category.Title).FirstOrCreate(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	item := models.MenuItem{
		Title:      title,
		Price:      price,
		Inventory:  100,
		CategoryID: category.ID,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed menu item: %v", err)
	}
	return item
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, asUser uint, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if asUser != 0 {
		req.Header.Set("X-Test-User", strconv.Itoa(int(asUser)))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
