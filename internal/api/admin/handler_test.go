package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ooya-dx/internal/domain/billing"
	"ooya-dx/internal/domain/subscriptions"
	"ooya-dx/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func prepare(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&users.User{}, &subscriptions.Subscription{}, &billing.Payment{}))

	h := NewHandler(db, subscriptions.NewStore(db), billing.NewPaymentStore(db))
	r := gin.New()
	r.GET("/users", h.ListAllUsers)
	r.GET("/users/:id", h.GetUserDetails)
	r.GET("/subscriptions", h.ListAllSubscriptions)
	r.GET("/stats", h.GetAdminStats)
	return db, r
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.Create(&users.User{ID: "u1", Email: "a@example.com"}).Error)
	require.NoError(t, db.Create(&users.User{ID: "u2", Email: "b@example.com"}).Error)

	subID := "sub_1"
	require.NoError(t, subscriptions.NewStore(db).Upsert(ctx, &subscriptions.Subscription{
		UserID: "u1", StripeSubscriptionID: &subID, Status: subscriptions.StatusPastDue,
	}))

	payments := billing.NewPaymentStore(db)
	u1 := "u1"
	require.NoError(t, payments.Record(ctx, &billing.Payment{UserID: &u1, StripeInvoiceID: "in_1", AmountJPY: 2980, Currency: "jpy", Status: billing.PaymentPaid}))
	require.NoError(t, payments.Record(ctx, &billing.Payment{UserID: &u1, StripeInvoiceID: "in_2", AmountJPY: 2980, Currency: "jpy", Status: billing.PaymentFailed}))
	old := billing.Payment{UserID: &u1, StripeInvoiceID: "in_0", AmountJPY: 1000, Currency: "jpy", Status: billing.PaymentPaid}
	require.NoError(t, payments.Record(ctx, &old))
	require.NoError(t, db.Model(&billing.Payment{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().AddDate(0, -3, 0)).Error)
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListAllUsersJoinsSubscription(t *testing.T) {
	db, r := prepare(t)
	seed(t, db)

	w := get(r, "/users")
	require.Equal(t, http.StatusOK, w.Code)

	var out []AdminUser
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)

	status := map[string]string{}
	for _, u := range out {
		status[u.ID] = u.Status
	}
	assert.Equal(t, "past_due", status["u1"])
	assert.Equal(t, "none", status["u2"])
}

func TestAdminStats(t *testing.T) {
	db, r := prepare(t)
	seed(t, db)

	w := get(r, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats AdminStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(3980), stats.TotalRevenueJPY)
	assert.Equal(t, int64(2980), stats.RecentRevenueJPY)
	assert.Equal(t, int64(1), stats.ByStatus["past_due"])
}

func TestUserDetails(t *testing.T) {
	db, r := prepare(t)
	seed(t, db)

	w := get(r, "/users/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(r, "/users/u1")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		User     users.User        `json:"user"`
		Payments []billing.Payment `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "a@example.com", body.User.Email)
	assert.Len(t, body.Payments, 3)

	w = get(r, "/subscriptions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sub_1")
}
