package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brand-studio-backend/internal/database"
	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

type ArchiveHandler struct {
	archive *services.ArchiveService
}

func NewArchiveHandler(archive *services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

// ListFiles godoc
// @Summary     List archived files
// @Tags        archive
// @Produce     json
// @Security    Bearer
// @Param       folder           query string false "Exact folder"
// @Param       type             query string false "image, audio, video, document or other"
// @Param       tag              query string false "Tag filter"
// @Param       starred          query bool   false "Only starred files"
// @Param       brand_profile_id query string false "Profile ID (UUID)"
// @Success     200 {object} models.ArchiveListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /archive [get]
func (h *ArchiveHandler) ListFiles(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter := database.ArchiveFilter{
		Folder:   c.Query("folder"),
		FileType: c.Query("type"),
		Tag:      c.Query("tag"),
	}
	if raw := c.Query("starred"); raw != "" {
		starred, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid starred"})
			return
		}
		filter.Starred = &starred
	}
	if raw := c.Query("brand_profile_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid brand_profile_id"})
			return
		}
		filter.BrandProfileID = &id
	}

	files, err := h.archive.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ArchiveListResponse{Files: files})
}

// UploadFile godoc
// @Summary     Upload a file to the archive
// @Tags        archive
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file             formData file   true  "File"
// @Param       context          formData string false "onboarding, brand_assets, chat or generation"
// @Param       onboarding_step  formData string false "Step the file belongs to"
// @Param       brand_profile_id formData string false "Profile ID (UUID)"
// @Param       tags             formData string false "Comma-separated tags"
// @Success     201 {object} models.FileArchiveEntry
// @Failure     400 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /archive/upload [post]
func (h *ArchiveHandler) UploadFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.archive.StorageAvailable() {
		unavailable(c, "file storage")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no file uploaded", Message: err.Error()})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to open file", Message: err.Error()})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error()})
		return
	}

	in := services.FileInput{
		UserID:         userID,
		FileName:       header.Filename,
		MimeType:       header.Header.Get("Content-Type"),
		Data:           data,
		Context:        c.PostForm("context"),
		OnboardingStep: c.PostForm("onboarding_step"),
	}
	if in.MimeType == "" {
		in.MimeType = http.DetectContentType(data)
	}
	if raw := c.PostForm("brand_profile_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid brand_profile_id"})
			return
		}
		in.BrandProfileID = &id
	}
	for _, t := range strings.Split(c.PostForm("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			in.Tags = append(in.Tags, t)
		}
	}

	entry, err := h.archive.Upload(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// UpdateFile godoc
// @Summary     Move, tag or star a file
// @Tags        archive
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                      true "File ID (UUID)"
// @Param       request body models.UpdateArchiveRequest true "Changes"
// @Success     200 {object} models.FileArchiveEntry
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /archive/{id} [patch]
func (h *ArchiveHandler) UpdateFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	entry, err := h.archive.Update(c.Request.Context(), userID, id, database.ArchivePatch{
		Folder:    req.Folder,
		Tags:      req.Tags,
		IsStarred: req.IsStarred,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteFile godoc
// @Summary     Delete a file
// @Tags        archive
// @Security    Bearer
// @Param       id path string true "File ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /archive/{id} [delete]
func (h *ArchiveHandler) DeleteFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.archive.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Folders godoc
// @Summary     List archive folders
// @Tags        archive
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.FoldersResponse
// @Router      /archive/folders [get]
func (h *ArchiveHandler) Folders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	folders, err := h.archive.Folders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FoldersResponse{Folders: folders})
}
