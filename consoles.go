package main

import (
	"net/http"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerConsoleRoutes(r *gin.Engine, storage utils.ObjectStorage, settings *config.Settings) {
	consoles := r.Group("/consoles")
	consoles.GET("", listConsolesHandler())
	consoles.POST("", createConsoleHandler(storage, settings))
	consoles.GET("/:id", getConsoleHandler())
	consoles.PUT("/:id", updateConsoleHandler())
	consoles.DELETE("/:id", deleteConsoleHandler())
	consoles.POST("/:id/restore", restoreConsoleHandler())
	consoles.DELETE("/:id/purge", purgeConsoleHandler())
	consoles.GET("/:id/games", consoleGamesHandler())
	consoles.GET("/:id/accessories", consoleAccessoriesHandler())
	consoles.POST("/:id/image", attachImageHandler(storage, settings, models.EntityTypeConsole))
	consoles.DELETE("/:id/image", removeImageHandler(storage, models.EntityTypeConsole))
}

func listConsolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ConsoleFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindingError(c, err)
			return
		}
		filter.IncludeInactive = c.Query("include_inactive") == "true"

		p := parsePagination(c)
		consoles, total, err := models.GetConsoles(c.Request.Context(), filter, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(consoles, total, p))
	}
}

func createConsoleHandler(storage utils.ObjectStorage, settings *config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewConsole
		if err := c.ShouldBind(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		console, err := models.CreateConsole(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}

		if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
			image, imgErr := processEntityImage(c.Request.Context(), storage, settings, models.EntityTypeConsole, console.ID, fh)
			if imgErr != nil {
				createdWithImageError(c, console, imgErr)
				return
			}
			console.Image = image
		}

		c.JSON(http.StatusCreated, console)
	}
}

func getConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		includeInactive := c.Query("include_inactive") == "true"

		console, err := models.GetConsole(c.Request.Context(), id, includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, console)
	}
}

func updateConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		var input models.UpdateConsole
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		console, err := models.UpdateConsoleDetail(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, console)
	}
}

func deleteConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		deleted, err := models.SoftDeleteConsole(c.Request.Context(), id)
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

func restoreConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		restored, err := models.RestoreConsole(c.Request.Context(), id)
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

func purgeConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		if err := models.PurgeConsole(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func consoleGamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		games, err := models.CompatibleGamesForConsole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": games})
	}
}

func consoleAccessoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		accessories, err := models.CompatibleAccessoriesForConsole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": accessories})
	}
}
