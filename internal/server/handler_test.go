package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/internal/storage"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	policy := domain.DefaultPolicyAssumptions()
	return NewHandler(calculation.NewEngine(), &policy, storage.NewMemoryCache(), time.Minute, zap.NewNop())
}

func validBody() string {
	return `{
		"current_age": "30",
		"age_at_death": "90",
		"monthly_salary": "5000",
		"monthly_rent": "1500",
		"monthly_expenses": "1500",
		"home_cost": "400000",
		"down_payment": "80000",
		"investment_return": "6"
	}`
}

func TestComputeEndpoint(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(validBody()))
	rec := httptest.NewRecorder()
	h.Compute(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, field := range []string{
		"renter_investment_balance",
		"homeowner_investment_balance",
		"final_house_value",
		"homeowner_net_worth",
		"renter_net_worth",
		"difference",
	} {
		assert.Contains(t, resp, field)
	}
}

func TestComputeEndpointCaches(t *testing.T) {
	h := newTestHandler(t)

	first := httptest.NewRecorder()
	h.Compute(first, httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(validBody())))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	h.Compute(second, httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(validBody())))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestComputeEndpointRejects(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"current_age": `, "invalid request body"},
		{"non-numeric age", strings.Replace(validBody(), `"30"`, `"thirty"`, 1), "current_age"},
		{"non-numeric amount", strings.Replace(validBody(), `"400000"`, `"lots"`, 1), "home_cost"},
		{"equal ages", strings.Replace(validBody(), `"90"`, `"30"`, 1), "age_at_death"},
		{"down payment too large", strings.Replace(validBody(), `"80000"`, `"500000"`, 1), "down_payment"},
		{"missing fields", `{}`, "current_age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Compute(rec, httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestComputeEndpointMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Compute(rec, httptest.NewRequest(http.MethodGet, "/compute", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMonteCarloEndpoint(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"current_age": "30",
		"age_at_death": "60",
		"monthly_salary": "5000",
		"monthly_rent": "1500",
		"monthly_expenses": "1500",
		"home_cost": "400000",
		"down_payment": "80000",
		"investment_return": "6",
		"num_simulations": "25",
		"seed": "42",
		"distributions": {
			"investment_return": {"kind": "normal", "mean": 6, "stddev": 2}
		}
	}`

	rec := httptest.NewRecorder()
	h.MonteCarlo(rec, httptest.NewRequest(http.MethodPost, "/compute/montecarlo", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result calculation.MonteCarloResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 25, result.NumSimulations)
	assert.Equal(t, int64(42), result.Seed)
}

func TestMonteCarloEndpointRejects(t *testing.T) {
	h := newTestHandler(t)

	body := strings.Replace(validBody(), "}", `, "num_simulations": "0"}`, 1)
	rec := httptest.NewRecorder()
	h.MonteCarlo(rec, httptest.NewRequest(http.MethodPost, "/compute/montecarlo", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "num_simulations")

	body = strings.Replace(validBody(), "}", `, "distributions": {"nope": {"kind": "normal"}}}`, 1)
	rec = httptest.NewRecorder()
	h.MonteCarlo(rec, httptest.NewRequest(http.MethodPost, "/compute/montecarlo", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown variable")
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestLogoutClearsSession(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
