package controllers

import (
	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
)

// OwnerOrderController serves the restaurant manager's side of orders.
type OwnerOrderController struct{ Svc *services.OrderService }

func NewOwnerOrderController(svc *services.OrderService) *OwnerOrderController {
	return &OwnerOrderController{Svc: svc}
}

// GET /manager/orders?status=&page=&limit=
func (ctl *OwnerOrderController) List(c *gin.Context) {
	status := entity.OrderStatus(c.Query("status"))
	out, err := ctl.Svc.ListForRestaurant(c.Request.Context(), currentActor(c), status,
		queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /manager/orders/:id/history
func (ctl *OwnerOrderController) History(c *gin.Context) {
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

// POST /order/changeStatus {orderId, status, waitMinutes?}
func (ctl *OwnerOrderController) ChangeStatus(c *gin.Context) {
	var req services.UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	out, err := ctl.Svc.UpdateStatus(c.Request.Context(), currentActor(c), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMsg(c, "order status updated", out)
}
