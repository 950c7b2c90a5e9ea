package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/code-100-precent/VoiceDesk/pkg/response"
)

// RegisterRoutes mounts the console API. REST drives control flow, the two
// websockets carry the realtime streams.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, "ok", nil)
	})

	api := r.Group("/api")
	{
		api.GET("/state", h.GetState)
		api.POST("/query", h.SubmitQuery)
		api.POST("/confirm", h.Confirm)
		api.POST("/reset", h.Reset)
		api.POST("/session/start", h.StartSession)
		api.POST("/session/stop", h.StopSession)
		api.POST("/speech/ended", h.SpeechEnded)
		api.POST("/search", h.SearchManual)
		api.GET("/customer", h.GetCustomer)
		api.GET("/history", h.GetHistory)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/audio", h.audio.Handle)
		ws.GET("/events", h.feed.Handle)
	}
}
