package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"echo-audit-api/pkg/task"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TaskService is what the controllers need from *task.TaskService.
type TaskService interface {
	ProcessAudio(ctx context.Context, audio []byte, filename string) (*task.ProcessResult, error)
	ListTasks(ctx context.Context) ([]task.TaskRecord, error)
	CompleteTask(ctx context.Context, text string) error
	DownloadTranscript(ctx context.Context, filename string) (io.ReadCloser, error)
}

type CompleteTaskResponse struct {
	Status string `json:"status"`
}

func ProcessAudioController(svc TaskService, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			log.Error().Err(err).Msg("No audio file in request")
			c.JSON(http.StatusBadRequest, defaultErrorResponse("No audio file provided"))
			return
		}
		if maxUploadBytes > 0 && fileHeader.Size > maxUploadBytes {
			log.Warn().Int64("size", fileHeader.Size).Int64("max", maxUploadBytes).Msg("Audio file too large")
			c.JSON(http.StatusRequestEntityTooLarge, defaultErrorResponse("Audio file too large"))
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			log.Error().Err(err).Msg("Failed to open uploaded file")
			c.JSON(http.StatusBadRequest, defaultErrorResponse("Failed to read audio file"))
			return
		}
		defer src.Close()
		audio, err := io.ReadAll(src)
		if err != nil {
			log.Error().Err(err).Msg("Failed to read uploaded file")
			c.JSON(http.StatusBadRequest, defaultErrorResponse("Failed to read audio file"))
			return
		}

		result, err := svc.ProcessAudio(c.Request.Context(), audio, fileHeader.Filename)
		if err != nil {
			if task.IsTranscriptionError(err) {
				c.JSON(http.StatusInternalServerError, defaultErrorResponse("Failed to transcribe audio"))
				return
			}
			log.Error().Err(err).Msg("Failed to process audio")
			c.JSON(http.StatusInternalServerError, defaultErrorResponse("Failed to process audio"))
			return
		}

		log.Info().Int("tasks", len(result.Tasks)).Str("transcript", result.TranscriptFile).Msg("Processed audio")
		c.JSON(http.StatusOK, defaultSuccessResponse(result))
	}
}

func ListTasksController(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := svc.ListTasks(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to list tasks")
			c.JSON(http.StatusInternalServerError, defaultErrorResponse("Failed to list tasks"))
			return
		}
		c.JSON(http.StatusOK, defaultSuccessResponse(tasks))
	}
}

func CompleteTaskController(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requestBody task.CompleteTaskRequest
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			log.Error().Err(err).Msg("Invalid request body")
			c.JSON(http.StatusBadRequest, defaultErrorResponse("Invalid request body"))
			return
		}

		var text string
		if requestBody.Task != nil {
			text = *requestBody.Task
		}
		if err := svc.CompleteTask(c.Request.Context(), text); err != nil {
			if task.IsMissingFieldError(err) {
				c.JSON(http.StatusBadRequest, defaultErrorResponse(err.Error()))
				return
			}
			log.Error().Err(err).Msg("Failed to complete task")
			c.JSON(http.StatusInternalServerError, defaultErrorResponse("Failed to complete task"))
			return
		}
		c.JSON(http.StatusOK, defaultSuccessResponse(CompleteTaskResponse{Status: "done"}))
	}
}

func DownloadTranscriptController(svc TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")
		rc, err := svc.DownloadTranscript(c.Request.Context(), filename)
		if err != nil {
			if task.IsNotFoundError(err) {
				c.JSON(http.StatusNotFound, defaultErrorResponse("File not found"))
				return
			}
			log.Error().Err(err).Str("filename", filename).Msg("Failed to open transcript")
			c.JSON(http.StatusInternalServerError, defaultErrorResponse("Failed to open transcript"))
			return
		}
		defer rc.Close()

		headers := map[string]string{
			"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
		}
		c.DataFromReader(http.StatusOK, -1, "text/plain; charset=utf-8", rc, headers)
	}
}
