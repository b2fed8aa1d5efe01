package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/servicex/internal/api/client"
	"github.com/GriffinCanCode/servicex/internal/config"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/internal/shared/types"
	"github.com/GriffinCanCode/servicex/internal/shared/utils"
	"github.com/GriffinCanCode/servicex/internal/theme"
	"github.com/GriffinCanCode/servicex/pkg/servicex"
)

// lookupTimeout bounds the API calls a handler makes on behalf of the page.
const lookupTimeout = 20 * time.Second

// Handlers contains the harness REST handlers.
type Handlers struct {
	sdk     *servicex.SDK
	metrics *monitoring.Metrics
	log     *logging.Logger
	started time.Time
}

// NewHandlers creates a new handler set.
func NewHandlers(sdk *servicex.SDK, metrics *monitoring.Metrics, log *logging.Logger) *Handlers {
	return &Handlers{
		sdk:     sdk,
		metrics: metrics,
		log:     logging.OrNop(log).Named("http"),
		started: time.Now(),
	}
}

// Root identifies the service.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "servicex bridge harness",
		"version": config.SDKVersion,
	})
}

// Health reports liveness and the state of the platform API breaker.
func (h *Handlers) Health(c *gin.Context) {
	breaker := h.sdk.BreakerState()
	status, code := "healthy", http.StatusOK
	if breaker == "open" {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":         status,
		"env":            h.sdk.Config().SDK.Env,
		"web":            h.sdk.Config().WebBaseURL(),
		"breaker":        breaker,
		"uptime_seconds": time.Since(h.started).Seconds(),
	})
}

// Theme serves the configured theme. ?format= selects yaml, toml or json.
func (h *Handlers) Theme(c *gin.Context) {
	format := theme.Format(c.DefaultQuery("format", string(theme.FormatJSON)))

	th := types.DefaultTheme()
	if configured := h.sdk.Settings().Theme; configured != nil {
		th = *configured
	}

	data, err := theme.Marshal(th, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	contentType := "application/json"
	switch format {
	case theme.FormatYAML:
		contentType = "application/yaml"
	case theme.FormatTOML:
		contentType = "application/toml"
	}
	c.Data(http.StatusOK, contentType, data)
}

// OffersRequest is the body of POST /offers.
type OffersRequest struct {
	User         types.User          `json:"user"`
	ProductTypes []types.ProductType `json:"productTypes"`
}

// Offers lists the offers a user is eligible for.
func (h *Handlers) Offers(c *gin.Context) {
	var req OffersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	info, err := h.sdk.Offer.GetOffers(ctx, req.User, req.ProductTypes)
	if err != nil {
		h.fail(c, "offers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

// AvailabilityRequest is the body of POST /bnpl/availability.
type AvailabilityRequest struct {
	User types.User `json:"user"`
}

// BNPLAvailability reports whether BNPL checkout can start for a user.
func (h *Handlers) BNPLAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if err := utils.ValidateOfferStart(req.User); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	avail, err := h.sdk.BNPL.Availability(ctx, req.User)
	if err != nil {
		h.fail(c, "bnpl_availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"available":  avail.Available,
		"credify_id": avail.CredifyID,
	})
}

// fail maps platform errors to a response.
func (h *Handlers) fail(c *gin.Context, op string, err error) {
	code := http.StatusBadGateway
	var reqErr *client.RequestError
	switch {
	case errors.Is(err, client.ErrAPIKey):
		code = http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	case errors.As(err, &reqErr) && reqErr.StatusCode >= 400 && reqErr.StatusCode < 500:
		code = reqErr.StatusCode
	}
	h.log.Warn("Platform lookup failed", zap.String("op", op), zap.Int("status", code), zap.Error(err))
	c.JSON(code, gin.H{"success": false, "error": err.Error()})
}
