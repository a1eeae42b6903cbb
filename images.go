package main

import (
	"net/http"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

// attachImageHandler accepts a multipart "image" file and replaces the
// entity's attachment.
func attachImageHandler(storage utils.ObjectStorage, settings *config.Settings, referenceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}

		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"image": "file is required"}})
			return
		}

		image, err := processEntityImage(c.Request.Context(), storage, settings, referenceType, id, fh)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, image)
	}
}

func removeImageHandler(storage utils.ObjectStorage, referenceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}

		removed, err := models.RemoveImage(c.Request.Context(), storage, referenceType, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !removed {
			respondError(c, utils.ErrorRecordNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
