package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vidshare/internal/app"
	"vidshare/internal/storage"
	"vidshare/internal/transport/http/response"
)

type UploadHandler struct {
	uploadService *app.UploadService
}

func NewUploadHandler(uploadService *app.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Signature returns short-lived parameters for a direct-to-CDN upload.
func (h *UploadHandler) Signature(c *gin.Context) {
	auth, err := h.uploadService.Signature(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Authentication for Imagekit failed", err.Error())
		return
	}

	params := gin.H{"expire": auth.Expire}
	switch auth.Provider {
	case storage.ProviderS3:
		params["uploadUrl"] = auth.UploadURL
		params["key"] = auth.Key
	default:
		params["token"] = auth.Token
		params["signature"] = auth.Signature
	}

	response.OK(c, gin.H{
		"provider":                 auth.Provider,
		"authenticationParameters": params,
		"publicKey":                auth.PublicKey,
		"urlEndpoint":              auth.URLEndpoint,
	})
}
