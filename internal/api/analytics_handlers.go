package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/service"
)

func GetAnalytics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		rng, err := service.ParseRange(c.Query("range"))
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid range")
			return
		}
		day, err := service.ParseDay(c.Query("date"), app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date")
			return
		}

		view, err := service.Analytics(c.Request.Context(), app.Generator(), app.Store(), user, day, rng)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to build analytics")
			return
		}
		HandleSuccess(c, app.Logger(), view, nil)
	}
}

// GetStreak answers with a bare {current_streak, longest_streak} body.
func GetStreak(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		c.JSON(http.StatusOK, service.StreakOf(user))
	}
}

func GetWeeklyLeaderboard(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		board, err := app.Leaderboards().Weekly(c.Request.Context(), user, service.Today(app.Now()))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to build leaderboard")
			return
		}
		HandleSuccess(c, app.Logger(), board, nil)
	}
}
