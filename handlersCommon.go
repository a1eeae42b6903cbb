package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses in one place so every
// handler reports failures the same way.
func respondError(c *gin.Context, err error) {

	var ve *utils.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{ve.Field: ve.Reason}})
		return
	}
	var ie *utils.IntegrityError
	if errors.As(err, &ie) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ie.Error()})
		return
	}

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorDuplicateLink), errors.Is(err, utils.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorUnsupportedMedia):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		config.LogError(config.GetLogger(), "server", "respondError", c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// createdWithImageError reports a create whose row already committed but
// whose optional image could not be processed. The status stays 201; a
// failure status would misreport the write.
func createdWithImageError(c *gin.Context, entity interface{}, err error) {
	reason := "image processing failed"
	switch {
	case errors.Is(err, utils.ErrorUnsupportedMedia), errors.Is(err, utils.ErrorPayloadTooLarge):
		reason = err.Error()
	default:
		config.LogError(config.GetLogger(), "server", "createdWithImageError", c.FullPath(), nil, err)
	}
	c.JSON(http.StatusCreated, gin.H{"item": entity, "image_error": reason})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": utils.ProcessValidationErrors(err)})
}

func parsePagination(c *gin.Context) models.Pagination {
	var p models.Pagination
	_ = c.ShouldBindQuery(&p)
	return p.Normalize()
}

func parseIdParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{name: "must be a positive integer"}})
		return 0, false
	}
	return id, true
}

func listResponse(items interface{}, total int64, p models.Pagination) gin.H {
	return gin.H{
		"items":    items,
		"total":    total,
		"page":     p.Page,
		"per_page": p.PerPage,
	}
}
