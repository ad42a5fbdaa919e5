package controllers

import (
	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct{ Svc *services.ReviewService }

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{Svc: svc}
}

// POST /review/submit {foodId, rating, comment}
func (ctl *ReviewController) Submit(c *gin.Context) {
	var req services.SubmitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}
	out, err := ctl.Svc.Submit(c.Request.Context(), currentActor(c), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}
