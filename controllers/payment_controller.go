package controllers

import (
	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
)

type PaymentController struct{ Svc *services.PaymentService }

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc}
}

type confirmPaymentReq struct {
	PaymentCode string `json:"paymentCode"`
}

// POST /order/payment {paymentCode}
func (ctl *PaymentController) Confirm(c *gin.Context) {
	var req confirmPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	out, err := ctl.Svc.Confirm(c.Request.Context(), currentActor(c), req.PaymentCode)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMsg(c, "payment confirmed", out)
}
