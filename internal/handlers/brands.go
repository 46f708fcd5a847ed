package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brand-studio-backend/internal/models"
	"brand-studio-backend/internal/services"
)

type BrandsHandler struct {
	brands      *services.BrandService
	generations *services.GenerationService
}

func NewBrandsHandler(brands *services.BrandService, generations *services.GenerationService) *BrandsHandler {
	return &BrandsHandler{brands: brands, generations: generations}
}

// ListBrands godoc
// @Summary     List brand profiles
// @Tags        brands
// @Produce     json
// @Security    Bearer
// @Param       include_archived query bool false "Include archived profiles"
// @Success     200 {object} models.BrandListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /brands [get]
func (h *BrandsHandler) ListBrands(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	brands, err := h.brands.ListProfiles(c.Request.Context(), userID, c.Query("include_archived") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BrandListResponse{Brands: brands})
}

// CreateBrand godoc
// @Summary     Create a brand profile
// @Description Creates a profile at the first onboarding step. Initial field values are versioned as manual edits.
// @Tags        brands
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateBrandRequest false "Initial fields"
// @Success     201 {object} models.BrandProfile
// @Failure     400 {object} models.ErrorResponse
// @Router      /brands [post]
func (h *BrandsHandler) CreateBrand(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateBrandRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
			return
		}
	}
	profile, err := h.brands.CreateProfile(c.Request.Context(), userID, req.Fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// GetBrand godoc
// @Summary     Get a brand profile
// @Tags        brands
// @Produce     json
// @Security    Bearer
// @Param       id path string true "Profile ID (UUID)"
// @Success     200 {object} models.BrandProfile
// @Failure     404 {object} models.ErrorResponse
// @Router      /brands/{id} [get]
func (h *BrandsHandler) GetBrand(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	profile, err := h.brands.GetProfile(c.Request.Context(), userID, profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateBrand godoc
// @Summary     Edit brand fields
// @Description Writes each field with a new manual version
// @Tags        brands
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path string                    true "Profile ID (UUID)"
// @Param       request body models.UpdateBrandRequest true "Fields to change"
// @Success     200 {object} models.UpdateBrandResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /brands/{id} [patch]
func (h *BrandsHandler) UpdateBrand(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	profile, versions, err := h.brands.UpdateProfileFields(c.Request.Context(), userID, profileID, req.Fields, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.UpdateBrandResponse{Brand: profile, Versions: versions})
}

// ArchiveBrand godoc
// @Summary     Archive a brand profile
// @Tags        brands
// @Security    Bearer
// @Param       id path string true "Profile ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /brands/{id}/archive [post]
func (h *BrandsHandler) ArchiveBrand(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.brands.ArchiveProfile(c.Request.Context(), userID, profileID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVersions godoc
// @Summary     Field version history
// @Description Newest first. Filter with ?field=brandName.
// @Tags        brands
// @Produce     json
// @Security    Bearer
// @Param       id    path  string true  "Profile ID (UUID)"
// @Param       field query string false "Field name"
// @Success     200 {object} models.VersionListResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /brands/{id}/versions [get]
func (h *BrandsHandler) ListVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versions, err := h.brands.ListFieldVersions(c.Request.Context(), userID, profileID, c.Query("field"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VersionListResponse{Versions: versions})
}

// RevertVersion godoc
// @Summary     Revert a field
// @Description Re-applies the value recorded by a version as a new manual version
// @Tags        brands
// @Produce     json
// @Security    Bearer
// @Param       id         path string true "Profile ID (UUID)"
// @Param       version_id path string true "Version ID (UUID)"
// @Success     200 {object} models.FieldVersion
// @Failure     404 {object} models.ErrorResponse
// @Router      /brands/{id}/versions/{version_id}/revert [post]
func (h *BrandsHandler) RevertVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathUUID(c, "version_id")
	if !ok {
		return
	}
	v, err := h.brands.RevertFieldToVersion(c.Request.Context(), userID, profileID, versionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListBrandGenerations godoc
// @Summary     List generations for a brand
// @Tags        generations
// @Produce     json
// @Security    Bearer
// @Param       id   path  string true  "Profile ID (UUID)"
// @Param       type query string false "image, audio or video"
// @Success     200 {object} models.GenerationListResponse
// @Router      /brands/{id}/generations [get]
func (h *BrandsHandler) ListBrandGenerations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	profileID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.generations.ListGenerations(c.Request.Context(), userID, profileID, c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.GenerationListResponse{Generations: list})
}
