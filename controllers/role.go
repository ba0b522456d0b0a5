package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MiniduTH/vitalink-sub001/role"
	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

// RoleController exposes the read-only staff role catalog.
type RoleController struct{}

func (ctl RoleController) Register(router gin.IRouter) {
	router.GET("/roles", ctl.ListRoles)
	router.GET("/roles/:code", ctl.GetRole)
}

func (RoleController) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, util.SuccessResponse(role.All()))
}

func (RoleController) GetRole(c *gin.Context) {
	r, ok := role.Get(strings.ToUpper(c.Param("code")))
	if !ok {
		c.JSON(http.StatusNotFound, util.FailedResponse(errors.New(util.ROLE_NOT_FOUND)))
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(r))
}
