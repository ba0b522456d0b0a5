package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/MiniduTH/vitalink-sub001/util"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	checks map[string]Pinger
}

func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

func (ctl *HealthController) Register(router gin.IRouter) {
	router.GET("/health", ctl.Health)
}

/*
* Ping every dependency with a short timeout
* 503 when any of them is down
 */
func (ctl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, ping := range ctl.checks {
		if err := ping(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	body := gin.H{"status": "ok", "dependencies": deps}
	if status != http.StatusOK {
		body["status"] = "degraded"
		c.JSON(status, gin.H{"success": false, "data": body})
		return
	}
	c.JSON(status, util.SuccessResponse(body))
}
