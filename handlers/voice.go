package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"receptionist/models"
	"receptionist/services/voice"
	"receptionist/utils"

	"github.com/gin-gonic/gin"
)

const allowedAudioExtension = ".wav"

// ServiceLookup finds the service whose requirement fields drive extraction.
type ServiceLookup interface {
	GetService(ctx context.Context, serviceID string) (*models.Service, error)
}

// VoiceHandler exposes the speech and extraction adapters. Either may be nil
// when its credentials are not configured.
type VoiceHandler struct {
	Transcriber voice.Transcriber
	Extractor   voice.ArgumentExtractor
	Services    ServiceLookup
}

func NewVoiceHandler(transcriber voice.Transcriber, extractor voice.ArgumentExtractor, services ServiceLookup) *VoiceHandler {
	return &VoiceHandler{Transcriber: transcriber, Extractor: extractor, Services: services}
}

// TranscribeHandler accepts a multipart "audio" WAV file and an optional "language".
func (h *VoiceHandler) TranscribeHandler(c *gin.Context) {
	if h.Transcriber == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Speech recognition not configured", "")
		return
	}
	language := c.PostForm("language")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedAudioExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type", fmt.Sprintf("expected %s, got %s", allowedAudioExtension, ext))
		return
	}
	if header.Size > voice.MaxAudioBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "audio file too large", fmt.Sprintf("limit is %d bytes", voice.MaxAudioBytes))
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, voice.MaxAudioBytes))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}

	transcript, err := h.Transcriber.Transcribe(c.Request.Context(), audio, language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcription": transcript})
}

// ExtractHandler turns a caller utterance into quote arguments for a service.
func (h *VoiceHandler) ExtractHandler(c *gin.Context) {
	if h.Extractor == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Argument extraction not configured", "")
		return
	}
	var body struct {
		ServiceID string `json:"service_id" binding:"required"`
		Utterance string `json:"utterance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	svc, err := h.Services.GetService(c.Request.Context(), body.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	args, err := h.Extractor.ExtractArgs(c.Request.Context(), *svc, body.Utterance)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"args": args})
}
