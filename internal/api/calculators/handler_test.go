package calculators

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ooya-dx/internal/domain/calc"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).Register(r.Group("/api/calc"))
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCorporateTaxRoute(t *testing.T) {
	w := post(router(), "/api/calc/corporate-tax", `{"taxable_income": 10000000}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out calc.CorporateTaxResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(1_664_000), out.CorporateTax)
}

func TestNegativeIncomeClampsToLevy(t *testing.T) {
	w := post(router(), "/api/calc/corporate-tax", `{"taxable_income": -5}`)
	require.Equal(t, http.StatusOK, w.Code)

	var out calc.CorporateTaxResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, int64(calc.EqualLevy), out.Total)
}

func TestBindingErrors(t *testing.T) {
	r := router()
	cases := map[string]string{
		"/api/calc/income-tax":    `{"taxable_income": "ten"}`,
		"/api/calc/depreciation":  `{"structure": "igloo", "building_cost": 1000}`,
		"/api/calc/loan":          `{"principal": 1000000, "years": 0}`,
		"/api/calc/investment":    `{"price": 1, "vacancy_rate_pct": 150}`,
		"/api/calc/capital-gains": `{"acquired_on": "yesterday"}`,
	}
	for path, body := range cases {
		w := post(r, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestOversizedAmountsAreRejected(t *testing.T) {
	r := router()
	cases := map[string]string{
		"/api/calc/corporate-tax": `{"taxable_income": 100000000000000000}`,
		"/api/calc/income-tax":    `{"taxable_income": 100000000000000000}`,
		"/api/calc/capital-gains": `{"sale_price": 100000000000000000}`,
		"/api/calc/depreciation":  `{"structure": "rc", "building_cost": 100000000000000000}`,
		"/api/calc/loan":          `{"principal": 100000000000000000, "years": 10}`,
		"/api/calc/investment":    `{"price": 100000000000000000}`,
	}
	for path, body := range cases {
		w := post(r, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestAllRoutesRespond(t *testing.T) {
	r := router()
	cases := map[string]string{
		"/api/calc/income-tax":    `{"taxable_income": 5000000}`,
		"/api/calc/depreciation":  `{"structure": "wood", "building_cost": 2200000, "building_age": 30}`,
		"/api/calc/loan":          `{"principal": 10000000, "annual_rate_pct": 1, "years": 20}`,
		"/api/calc/investment":    `{"price": 30000000, "annual_rent": 2400000}`,
		"/api/calc/capital-gains": `{"sale_price": 20000000, "acquisition_cost": 15000000, "acquired_on": "2015-01-01", "sold_on": "2024-06-01"}`,
	}
	for path, body := range cases {
		w := post(r, path, body)
		assert.Equal(t, http.StatusOK, w.Code, path+": "+w.Body.String())
	}
}
