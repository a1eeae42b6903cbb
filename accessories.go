package main

import (
	"net/http"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerAccessoryRoutes(r *gin.Engine, storage utils.ObjectStorage, settings *config.Settings) {
	accessories := r.Group("/accessories")
	accessories.GET("", listAccessoriesHandler())
	accessories.POST("", createAccessoryHandler(storage, settings))
	accessories.GET("/:id", getAccessoryHandler())
	accessories.PUT("/:id", updateAccessoryHandler())
	accessories.DELETE("/:id", deleteAccessoryHandler())
	accessories.POST("/:id/restore", restoreAccessoryHandler())
	accessories.DELETE("/:id/purge", purgeAccessoryHandler())
	accessories.GET("/:id/consoles", accessoryConsolesHandler())
	accessories.POST("/:id/image", attachImageHandler(storage, settings, models.EntityTypeAccessory))
	accessories.DELETE("/:id/image", removeImageHandler(storage, models.EntityTypeAccessory))
}

func listAccessoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.AccessoryFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindingError(c, err)
			return
		}
		filter.IncludeInactive = c.Query("include_inactive") == "true"

		p := parsePagination(c)
		accessories, total, err := models.GetAccessories(c.Request.Context(), filter, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(accessories, total, p))
	}
}

func createAccessoryHandler(storage utils.ObjectStorage, settings *config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAccessory
		if err := c.ShouldBind(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		accessory, err := models.CreateAccessory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}

		if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
			image, imgErr := processEntityImage(c.Request.Context(), storage, settings, models.EntityTypeAccessory, accessory.ID, fh)
			if imgErr != nil {
				createdWithImageError(c, accessory, imgErr)
				return
			}
			accessory.Image = image
		}

		c.JSON(http.StatusCreated, accessory)
	}
}

func getAccessoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		includeInactive := c.Query("include_inactive") == "true"

		accessory, err := models.GetAccessory(c.Request.Context(), id, includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accessory)
	}
}

func updateAccessoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		var input models.UpdateAccessory
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		accessory, err := models.UpdateAccessoryDetail(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accessory)
	}
}

func deleteAccessoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		deleted, err := models.SoftDeleteAccessory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !deleted {
			respondError(c, utils.ErrorRecordNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func restoreAccessoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		restored, err := models.RestoreAccessory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !restored {
			respondError(c, utils.ErrorRecordNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func purgeAccessoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		if err := models.PurgeAccessory(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func accessoryConsolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		consoles, err := models.CompatibleConsolesForAccessory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": consoles})
	}
}
