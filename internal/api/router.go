package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/config"
)

func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(app.Logger()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware(provider, cfg))

	sleep := api.Group("/sleep")
	sleep.GET("/day", GetSleepDay(app))
	sleep.PUT("/me/times", PutSleepTimes(app))
	sleep.GET("/:userID", GetSleepRecord(app))
	sleep.GET("/:userID/comments", GetComments(app))
	sleep.POST("/:userID/comments", PostComment(app))

	api.GET("/analytics", GetAnalytics(app))
	api.GET("/analytics/streak", GetStreak(app))
	api.GET("/leaderboard/weekly", GetWeeklyLeaderboard(app))

	dreams := api.Group("/dreams")
	dreams.GET("/feed", GetDreamFeed(app))
	dreams.GET("/stream", StreamDreams(app))
	dreams.POST("/", PostDream(app))
	dreams.GET("/", GetMyDreams(app))
	dreams.GET("/:id", GetDream(app))

	api.GET("/profile", GetProfile(app))
	api.PATCH("/profile", PatchProfile(app))

	return r
}
