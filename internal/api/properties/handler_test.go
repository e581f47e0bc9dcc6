package properties

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ooya-dx/internal/domain/properties"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func prepare(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&properties.Property{}, &properties.Simulation{}))

	h := NewHandler(properties.NewStore(db), nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-User"))
		c.Next()
	})
	r.GET("/properties", h.ListProperties)
	r.POST("/properties", h.CreateProperty)
	r.GET("/properties/:id", h.GetProperty)
	r.PUT("/properties/:id", h.UpdateProperty)
	r.DELETE("/properties/:id", h.DeleteProperty)
	r.GET("/simulations", h.ListSimulations)
	r.POST("/simulations", h.CreateSimulation)
	r.DELETE("/simulations/:id", h.DeleteSimulation)
	return r
}

func call(r *gin.Engine, user, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProperty(t *testing.T, r *gin.Engine, user string) properties.Property {
	t.Helper()
	w := call(r, user, http.MethodPost, "/properties",
		`{"name":"Sakura Heights","zipcode":"１００－０００１","structure":"rc","price":50000000,"annual_rent":3600000}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p properties.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestPropertyCRUD(t *testing.T) {
	r := prepare(t)
	p := createProperty(t, r, "u1")
	assert.Equal(t, "1000001", p.Zipcode)

	path := fmt.Sprintf("/properties/%d", p.ID)
	w := call(r, "u1", http.MethodPut, path, `{"name":"Sakura Heights II","structure":"wood","price":40000000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated properties.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Sakura Heights II", updated.Name)
	assert.Equal(t, int64(40000000), updated.Price)

	w = call(r, "u1", http.MethodGet, "/properties", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sakura Heights II")

	w = call(r, "u1", http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(r, "u1", http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPropertiesAreScopedToOwner(t *testing.T) {
	r := prepare(t)
	p := createProperty(t, r, "u1")
	path := fmt.Sprintf("/properties/%d", p.ID)

	assert.Equal(t, http.StatusNotFound, call(r, "u2", http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, "u2", http.MethodPut, path, `{"name":"Taken"}`).Code)
	assert.Equal(t, http.StatusNotFound, call(r, "u2", http.MethodDelete, path, "").Code)

	w := call(r, "u2", http.MethodGet, "/properties", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Sakura")
}

func TestPropertyValidation(t *testing.T) {
	r := prepare(t)
	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodPost, "/properties", `{"zipcode":"1000001"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodPost, "/properties", `{"name":"x","zipcode":"12-34"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodPost, "/properties", `{"name":"x","structure":"tent"}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodPost, "/properties", `{"name":"x","price":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, "u1", http.MethodGet, "/properties/abc", "").Code)
}

func TestSimulationRunsCalculator(t *testing.T) {
	r := prepare(t)
	p := createProperty(t, r, "u1")

	body := fmt.Sprintf(`{"kind":"corporate_tax","title":"FY2024","property_id":%d,"input":{"taxable_income":10000000}}`, p.ID)
	w := call(r, "u1", http.MethodPost, "/simulations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sim struct {
		ID     uint `json:"id"`
		Result struct {
			CorporateTax int64 `json:"corporate_tax"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sim))
	assert.Equal(t, int64(1_664_000), sim.Result.CorporateTax)

	w = call(r, "u1", http.MethodGet, fmt.Sprintf("/simulations?property_id=%d", p.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FY2024")

	w = call(r, "u2", http.MethodGet, "/simulations", "")
	assert.NotContains(t, w.Body.String(), "FY2024")

	assert.Equal(t, http.StatusNotFound, call(r, "u2", http.MethodDelete, fmt.Sprintf("/simulations/%d", sim.ID), "").Code)
	assert.Equal(t, http.StatusNoContent, call(r, "u1", http.MethodDelete, fmt.Sprintf("/simulations/%d", sim.ID), "").Code)
}

func TestSimulationRejectsBadInput(t *testing.T) {
	r := prepare(t)
	p := createProperty(t, r, "u1")

	cases := []string{
		`{"kind":"lottery","input":{}}`,
		`{"kind":"loan","input":{"principal":1000000,"years":0}}`,
		`{"kind":"income_tax"}`,
		fmt.Sprintf(`{"kind":"income_tax","property_id":%d,"input":{"taxable_income":"a lot"}}`, p.ID),
		`{"kind":"income_tax","property_id":99999,"input":{"taxable_income":1}}`,
	}
	for _, body := range cases {
		w := call(r, "u1", http.MethodPost, "/simulations", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	// Someone else's property.
	w := call(r, "u2", http.MethodPost, "/simulations",
		fmt.Sprintf(`{"kind":"income_tax","property_id":%d,"input":{"taxable_income":1}}`, p.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
