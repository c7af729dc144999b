package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/service"
)

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		p, err := service.GetProfile(c.Request.Context(), app.Store(), app.Leaderboards(), user, service.Today(app.Now()))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to build profile")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func PatchProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.RenameRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		updated, err := service.RenameProfile(c.Request.Context(), app.Store(), user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update profile")
			return
		}
		HandleSuccess(c, app.Logger(), updated, nil)
	}
}
