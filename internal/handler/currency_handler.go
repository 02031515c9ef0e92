package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/geekskai/exchange-rate-service/internal/models"
	"github.com/geekskai/exchange-rate-service/internal/service"
)

type CurrencyHandler struct {
	service *service.ExchangeService
	logger  *zap.Logger
}

func NewCurrencyHandler(service *service.ExchangeService, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CurrencyHandler) ConvertCurrency(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.GetRate(c.Request.Context(), req.FromCurrency, req.ToCurrency, req.Amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetRate(c *gin.Context) {
	from := c.Param("from")
	to := c.Param("to")

	amount := 1.0
	if raw := c.Query("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
			return
		}
		amount = parsed
	}

	result, err := h.service.GetRate(c.Request.Context(), from, to, amount)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CurrencyHandler) GetCacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetCacheStatus(c.Request.Context()))
}

func (h *CurrencyHandler) GetSupportedCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"currencies": h.service.SupportedCurrencies()})
}

// writeError maps caller errors to 400s. Anything else is unexpected here
// because the service degrades internally instead of failing.
func (h *CurrencyHandler) writeError(c *gin.Context, err error) {
	var unsupported *models.UnsupportedCurrencyError
	var invalidAmount *models.InvalidAmountError

	switch {
	case errors.As(err, &unsupported), errors.As(err, &invalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("conversion failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to convert currency"})
	}
}
