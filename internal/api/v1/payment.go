package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/epasal/epasal-backend/internal/service"
)

type KhaltiInitiateRequest struct {
	ProductID   int                  `json:"product_id" binding:"required"`
	ProductName string               `json:"product_name" binding:"required"`
	Price       uint                 `json:"price" binding:"required"`
	Customer    service.CustomerInfo `json:"customer_info" binding:"required"`
}

// InitiateKhaltiPayment starts a Khalti checkout and relays the gateway
// response unchanged so the frontend can redirect to the payment page.
func (a *API) InitiateKhaltiPayment(c *gin.Context) {
	var req KhaltiInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pidx, body, status, err := a.khalti.Initiate(c.Request.Context(), service.InitiateInput{
		ProductID:   strconv.Itoa(req.ProductID),
		ProductName: req.ProductName,
		PriceNPR:    req.Price,
		ReturnURL:   a.cfg.BackendURL + "/api/payment/khalti/verify",
		WebsiteURL:  a.cfg.BaseURL + "/payment/status",
		Customer:    &req.Customer,
	})
	if err != nil {
		a.log.Error().Err(err).Msg("khalti initiate failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment initiation failed"})
		return
	}

	if pidx != "" {
		// A failed bookkeeping insert must not lose the checkout the
		// customer already started.
		_, dbErr := a.pool.Exec(c.Request.Context(), `
            INSERT INTO khalti_temp_payments (pidx, email, laptop_id)
            VALUES ($1, $2, $3)`,
			pidx, req.Customer.Email, strconv.Itoa(req.ProductID))
		if dbErr != nil {
			a.log.Error().Err(dbErr).Str("pidx", pidx).Msg("khalti payment record insert failed")
		}
	}

	c.Data(status, "application/json", body)
}

// VerifyKhaltiPayment relays a Khalti lookup for the pidx the gateway
// redirects back with.
func (a *API) VerifyKhaltiPayment(c *gin.Context) {
	pidx := c.Query("pidx")
	if pidx == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing pidx"})
		return
	}

	body, status, err := a.khalti.Lookup(c.Request.Context(), pidx)
	if err != nil {
		a.log.Error().Err(err).Str("pidx", pidx).Msg("khalti lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment lookup failed"})
		return
	}

	c.Data(status, "application/json", body)
}

type PaymentStatusRequest struct {
	Pidx   string `json:"pidx" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// VerifyPayment resolves the customer behind a checkout and emails them the
// final payment outcome.
func (a *API) VerifyPayment(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var email string
	err := a.pool.QueryRow(c.Request.Context(),
		"SELECT email FROM khalti_temp_payments WHERE pidx = $1", req.Pidx,
	).Scan(&email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment reference"})
		return
	}

	status := req.Status
	a.tasks.Go("payment-status-mail", func(ctx context.Context) error {
		return a.mailer.SendPaymentStatus(email, status)
	})

	c.JSON(http.StatusOK, gin.H{"message": "Payment status recorded"})
}
