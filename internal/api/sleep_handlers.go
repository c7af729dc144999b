package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EncryptEx/ichack26/internal"
	"github.com/EncryptEx/ichack26/internal/auth"
	"github.com/EncryptEx/ichack26/internal/response"
	"github.com/EncryptEx/ichack26/internal/service"
)

// resolveUserID maps the "me" alias to the caller.
func resolveUserID(c *gin.Context) string {
	id := c.Param("userID")
	if id == "me" {
		return auth.CurrentUser(c).ID
	}
	return id
}

func GetSleepDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		day, err := service.ParseDay(c.Query("date"), app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date")
			return
		}

		entries, err := service.DayView(c.Request.Context(), app.Generator(), app.Store(), app.Store(), user, day)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to build day view")
			return
		}
		HandleSuccess(c, app.Logger(), entries, map[string]any{"date": day.Format(internal.DateLayout)})
	}
}

func GetSleepRecord(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := resolveUserID(c)
		day, err := service.ParseDay(c.Query("date"), app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date")
			return
		}

		owner, err := app.Store().GetUser(c.Request.Context(), userID)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Unknown user")
			return
		}
		rec, err := service.RecordFor(c.Request.Context(), app.Generator(), app.Store(), owner.ID, day)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to load record")
			return
		}
		HandleSuccess(c, app.Logger(), rec, map[string]any{"user": owner.Public()})
	}
}

func PutSleepTimes(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.TimesRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateTimesRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		o, err := service.SetTimes(c.Request.Context(), app.Store(), user, &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save times")
			return
		}
		HandleSuccess(c, app.Logger(), o, nil)
	}
}

func GetComments(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := service.ParseDay(c.Query("date"), app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date")
			return
		}
		list, err := service.ListComments(c.Request.Context(), app.Store(), app.Store(), resolveUserID(c), day)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to fetch comments")
			return
		}
		HandleSuccess(c, app.Logger(), list, map[string]any{"count": len(list)})
	}
}

func PostComment(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var body service.CommentRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateCommentRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}

		comment, err := service.AddComment(c.Request.Context(), app.Store(), app.Store(), user, resolveUserID(c), &body)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to add comment")
			return
		}
		c.JSON(http.StatusCreated, response.Success(comment, nil))
	}
}
