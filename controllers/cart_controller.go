package controllers

import (
	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Svc *services.CartService }

func NewCartController(svc *services.CartService) *CartController { return &CartController{Svc: svc} }

// GET /cart
func (ctl *CartController) Get(c *gin.Context) {
	view, err := ctl.Svc.Get(c.Request.Context(), currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}

// POST /cart/add {foodId}
func (ctl *CartController) Add(c *gin.Context) {
	var req foodIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "foodId is required")
		return
	}
	view, err := ctl.Svc.Add(c.Request.Context(), currentActor(c), req.FoodID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMsg(c, "food added to cart", view)
}

// POST /cart/remove {foodId}
func (ctl *CartController) Remove(c *gin.Context) {
	var req foodIDReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "foodId is required")
		return
	}
	view, err := ctl.Svc.Remove(c.Request.Context(), currentActor(c), req.FoodID)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OKMsg(c, "food removed from cart", view)
}
