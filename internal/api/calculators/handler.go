package calculators

import (
	"net/http"
	"sync"

	"ooya-dx/internal/domain/calc"
	"ooya-dx/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidations installs the calculator tags on gin's validator.
func RegisterValidations(log *zap.Logger) {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Warn("gin validator engine is not go-playground, structure tag unavailable")
			return
		}
		if err := calc.RegisterValidations(v); err != nil {
			log.Error("register calculator validations failed", zap.Error(err))
		}
	})
}

type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = logger.L()
	}
	RegisterValidations(log)
	return &Handler{log: log.Named("calc")}
}

func bind[T any](c *gin.Context) (T, bool) {
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return in, false
	}
	return in, true
}

// CorporateTax serves POST /api/calc/corporate-tax.
func (h *Handler) CorporateTax(c *gin.Context) {
	in, ok := bind[calc.TaxableIncomeInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.CorporateTax(in.TaxableIncome))
}

// IncomeTax serves POST /api/calc/income-tax.
func (h *Handler) IncomeTax(c *gin.Context) {
	in, ok := bind[calc.TaxableIncomeInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.IncomeTax(in.TaxableIncome))
}

func (h *Handler) CapitalGains(c *gin.Context) {
	in, ok := bind[calc.CapitalGainsInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.CapitalGainsTax(in))
}

func (h *Handler) Depreciation(c *gin.Context) {
	in, ok := bind[calc.DepreciationInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.Depreciation(in))
}

func (h *Handler) Loan(c *gin.Context) {
	in, ok := bind[calc.LoanInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.Loan(in))
}

func (h *Handler) Investment(c *gin.Context) {
	in, ok := bind[calc.InvestmentInput](c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, calc.Investment(in))
}

// Register mounts the six calculators under rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/corporate-tax", h.CorporateTax)
	rg.POST("/income-tax", h.IncomeTax)
	rg.POST("/capital-gains", h.CapitalGains)
	rg.POST("/depreciation", h.Depreciation)
	rg.POST("/loan", h.Loan)
	rg.POST("/investment", h.Investment)
}
