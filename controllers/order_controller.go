package controllers

import (
	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Svc *services.OrderService }

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Svc: svc}
}

// POST /order/add
func (ctl *OrderController) Create(c *gin.Context) {
	out, err := ctl.Svc.CreateFromCart(c.Request.Context(), currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /order/last
func (ctl *OrderController) Last(c *gin.Context) {
	out, err := ctl.Svc.LastForUser(c.Request.Context(), currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders?limit=
func (ctl *OrderController) ListForMe(c *gin.Context) {
	out, err := ctl.Svc.ListForUser(c.Request.Context(), currentActor(c), queryInt(c, "limit", 20))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id
func (ctl *OrderController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	out, err := ctl.Svc.DetailForUser(c.Request.Context(), currentActor(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /orders/:id/history
func (ctl *OrderController) History(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid order id")
		return
	}
	out, err := ctl.Svc.History(c.Request.Context(), currentActor(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
