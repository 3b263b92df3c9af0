package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
	"github.com/rvbgo/rentvsbuy-calculator/internal/domain"
	"github.com/rvbgo/rentvsbuy-calculator/internal/storage"
	"github.com/rvbgo/rentvsbuy-calculator/pkg/money"
)

// Handler serves the compute endpoints. All slider values arrive as strings
// and are parsed at this trust boundary before the typed input is built.
type Handler struct {
	engine   *calculation.Engine
	policy   *domain.PolicyAssumptions
	cache    storage.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewHandler wires a compute handler.
func NewHandler(engine *calculation.Engine, policy *domain.PolicyAssumptions, cache storage.Cache, cacheTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   engine,
		policy:   policy,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// computeRequest mirrors the front-end form: every value is transmitted as a
// string.
type computeRequest struct {
	CurrentAge       string `json:"current_age"`
	AgeAtDeath       string `json:"age_at_death"`
	MonthlySalary    string `json:"monthly_salary"`
	MonthlyRent      string `json:"monthly_rent"`
	MonthlyExpenses  string `json:"monthly_expenses"`
	HomeCost         string `json:"home_cost"`
	DownPayment      string `json:"down_payment"`
	InvestmentReturn string `json:"investment_return"`
}

func parseAgeField(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.NewValidationError(field, "must be a whole number")
	}
	return v, nil
}

func parseMoneyField(field, raw string) (money.Money, error) {
	m, err := money.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return money.Money{}, domain.NewValidationError(field, "must be a numeric value")
	}
	return m, nil
}

func parseRateField(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, domain.NewValidationError(field, "must be a numeric value")
	}
	return d, nil
}

// parse converts the string-valued request into a validated typed input.
func (req *computeRequest) parse() (*domain.ComparisonInput, error) {
	var in domain.ComparisonInput
	var err error

	if in.CurrentAge, err = parseAgeField("current_age", req.CurrentAge); err != nil {
		return nil, err
	}
	if in.AgeAtDeath, err = parseAgeField("age_at_death", req.AgeAtDeath); err != nil {
		return nil, err
	}
	if in.MonthlySalary, err = parseMoneyField("monthly_salary", req.MonthlySalary); err != nil {
		return nil, err
	}
	if in.MonthlyRent, err = parseMoneyField("monthly_rent", req.MonthlyRent); err != nil {
		return nil, err
	}
	if in.MonthlyExpenses, err = parseMoneyField("monthly_expenses", req.MonthlyExpenses); err != nil {
		return nil, err
	}
	if in.HomeCost, err = parseMoneyField("home_cost", req.HomeCost); err != nil {
		return nil, err
	}
	if in.DownPayment, err = parseMoneyField("down_payment", req.DownPayment); err != nil {
		return nil, err
	}
	if in.InvestmentReturn, err = parseRateField("investment_return", req.InvestmentReturn); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// monteCarloRequest extends the compute request with simulation controls.
// Distributions are optional; an omitted rate stays fixed at its base value.
type monteCarloRequest struct {
	computeRequest
	NumSimulations string                               `json:"num_simulations"`
	Seed           string                               `json:"seed"`
	Distributions  map[string]calculation.Distribution `json:"distributions"`
}

func (req *monteCarloRequest) config() (calculation.MonteCarloConfig, error) {
	cfg := calculation.MonteCarloConfig{}

	if strings.TrimSpace(req.NumSimulations) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(req.NumSimulations))
		if err != nil || n <= 0 {
			return cfg, domain.NewValidationError("num_simulations", "must be a positive whole number")
		}
		if n > 100000 {
			return cfg, domain.NewValidationError("num_simulations", "must be at most 100000")
		}
		cfg.NumSimulations = n
	}
	if strings.TrimSpace(req.Seed) != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(req.Seed), 10, 64)
		if err != nil {
			return cfg, domain.NewValidationError("seed", "must be a whole number")
		}
		cfg.Seed = seed
	}

	for name, dist := range req.Distributions {
		switch name {
		case "investment_return":
			cfg.InvestmentReturn = dist
		case "home_appreciation":
			cfg.HomeAppreciation = dist
		case "rent_escalation":
			cfg.RentEscalation = dist
		case "mortgage_rate":
			cfg.MortgageRate = dist
		default:
			return cfg, domain.NewValidationError("distributions", fmt.Sprintf("unknown variable %q", name))
		}
	}
	return cfg, nil
}

// Compute handles POST /compute.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	key := h.cacheKey(in)
	if cached, ok := h.cache.Get(ctx, key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(cached))
		return
	}

	result, err := h.engine.Compute(ctx, in, h.policy)
	if err != nil {
		if domain.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("compute failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("marshal result failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "computation failed")
		return
	}

	if err := h.cache.Set(ctx, key, string(body), h.cacheTTL); err != nil {
		h.logger.Warn("result cache write failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// MonteCarlo handles POST /compute/montecarlo.
func (h *Handler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req monteCarloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := req.config()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sim := calculation.NewMonteCarloSimulator(h.engine, cfg)
	result, err := sim.Run(r.Context(), in, h.policy)
	if err != nil {
		if domain.IsValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("monte carlo failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Logout handles GET /logout: it clears the session cookie. There is no
// session store behind it; the cookie is the whole session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// cacheKey digests the input together with the active policy, so a policy
// change never serves stale results.
func (h *Handler) cacheKey(in *domain.ComparisonInput) string {
	payload, _ := json.Marshal(struct {
		Input  *domain.ComparisonInput   `json:"input"`
		Policy *domain.PolicyAssumptions `json:"policy"`
	}{in, h.policy})
	sum := sha256.Sum256(payload)
	return "compute:" + hex.EncodeToString(sum[:])
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
