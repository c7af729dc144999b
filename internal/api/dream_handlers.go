package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/service"
)

// EventDreamCreated is pushed to stream subscribers after a dream is saved.
const EventDreamCreated = "dream.created"

func queryLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return n
}

// GetDreamFeed answers with a bare array, newest first.
func GetDreamFeed(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		feed, err := service.DreamFeed(c.Request.Context(), app.Store(), queryLimit(c))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch feed")
			return
		}
		c.JSON(http.StatusOK, feed)
	}
}

// PostDream answers 201 with the bare dream.
func PostDream(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.DreamRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateDreamRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		dream, err := service.CreateDream(c.Request.Context(), app.Store(), user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save dream")
			return
		}
		if err := app.Hub().Publish(c.Request.Context(), EventDreamCreated, dream); err != nil {
			app.Logger().Warnf("realtime: publish %s: %v", dream.ID, err)
		}
		c.JSON(http.StatusCreated, dream)
	}
}

func GetMyDreams(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		dreams, err := service.MyDreams(c.Request.Context(), app.Store(), user, queryLimit(c))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch dreams")
			return
		}
		HandleSuccess(c, app.Logger(), dreams, map[string]any{"count": len(dreams)})
	}
}

func GetDream(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		dream, err := service.GetDream(c.Request.Context(), app.Store(), c.Param("id"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Dream not found")
			return
		}
		HandleSuccess(c, app.Logger(), dream, nil)
	}
}

// StreamDreams upgrades to a websocket and blocks until the client leaves.
func StreamDreams(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if err := app.Hub().Serve(c.Writer, c.Request, user.ID); err != nil {
			app.Logger().Warnf("realtime: stream for %s: %v", user.ID, err)
		}
	}
}
