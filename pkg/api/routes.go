package api

import (
	"github.com/gin-gonic/gin"
)

// TaskRoutes mounts the task API under /api/v1. processLimiter guards the
// transcription endpoint, which is the only expensive one.
func TaskRoutes(router *gin.Engine, svc TaskService, processLimiter gin.HandlerFunc, maxUploadBytes int64) {
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/process", processLimiter, ResourceProfiler(), ProcessAudioController(svc, maxUploadBytes))
		apiV1.GET("/tasks", ResourceProfiler(), ListTasksController(svc))
		apiV1.POST("/complete", ResourceProfiler(), CompleteTaskController(svc))
		apiV1.GET("/download/:filename", ResourceProfiler(), DownloadTranscriptController(svc))
	}
}
