package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vidshare/internal/app"
	"vidshare/internal/transport/http/middleware"
	"vidshare/internal/transport/http/response"
)

type VideoHandler struct {
	videoService *app.VideoService
}

type CreateVideoRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description" binding:"required"`
	VideoURL     string `json:"videoUrl" binding:"required,max=1024"`
	ThumbnailURL string `json:"thumbnailUrl" binding:"omitempty,max=1024"`
	Controls     *bool  `json:"controls"`
}

func NewVideoHandler(videoService *app.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.videoService.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list videos failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "failed to fetch videos")
		return
	}
	response.OK(c, videos)
}

func (h *VideoHandler) Create(c *gin.Context) {
	var req CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	input := app.CreateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Controls:     req.Controls,
	}
	if session, ok := middleware.CurrentSession(c); ok {
		input.OwnerID = session.Identity.ID
	}

	video, err := h.videoService.Create(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.KindValidation, "title, description and videoUrl are required")
		default:
			log.Error().Err(err).Msg("create video failed")
			response.Error(c, http.StatusInternalServerError, response.KindInternal, "failed to create video")
		}
		return
	}
	response.Created(c, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.KindBadRequest, "missing video id")
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.KindBadRequest, "missing video id")
		case errors.Is(err, app.ErrVideoNotFound):
			response.Error(c, http.StatusNotFound, response.KindNotFound, "video not found")
		default:
			log.Error().Err(err).Str("video_id", id).Msg("delete video failed")
			response.Error(c, http.StatusInternalServerError, response.KindInternal, "failed to delete video")
		}
		return
	}
	response.Message(c, "video deleted successfully")
}
