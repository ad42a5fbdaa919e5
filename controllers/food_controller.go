package controllers

import (
	"errors"

	"github.com/SinaAfzali/elite-bite/pkg/resp"
	"github.com/SinaAfzali/elite-bite/repository"
	"github.com/SinaAfzali/elite-bite/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FoodController struct {
	Foods     *repository.FoodRepository
	ReviewSvc *services.ReviewService
}

func NewFoodController(foods *repository.FoodRepository, reviews *services.ReviewService) *FoodController {
	return &FoodController{Foods: foods, ReviewSvc: reviews}
}

// GET /foods/:id
func (ctl *FoodController) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid food id")
		return
	}
	food, err := ctl.Foods.FindByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp.NotFound(c, "food not found")
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, food)
}

// GET /foods/:id/reviews?limit=&offset=
func (ctl *FoodController) Reviews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		resp.BadRequest(c, "invalid food id")
		return
	}
	out, err := ctl.ReviewSvc.ListForFood(c.Request.Context(), id, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, out)
}
