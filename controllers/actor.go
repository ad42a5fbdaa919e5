package controllers

import (
	"strconv"

	"github.com/SinaAfzali/elite-bite/services"
	"github.com/SinaAfzali/elite-bite/utils"

	"github.com/gin-gonic/gin"
)

// currentActor is the caller the auth middleware resolved; zero when none.
func currentActor(c *gin.Context) services.Actor {
	return services.Actor{
		UserID: utils.CurrentUserID(c),
		Email:  utils.CurrentEmail(c),
		Role:   utils.CurrentRole(c),
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func queryInt(c *gin.Context, name string, def int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return n
}

type foodIDReq struct {
	FoodID uint `json:"foodId" binding:"required"`
}
