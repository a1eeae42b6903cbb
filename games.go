package main

import (
	"net/http"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerGameRoutes(r *gin.Engine, storage utils.ObjectStorage, settings *config.Settings) {
	games := r.Group("/games")
	games.GET("", listGamesHandler())
	games.POST("", createGameHandler(storage, settings))
	games.GET("/:id", getGameHandler())
	games.PUT("/:id", updateGameHandler())
	games.DELETE("/:id", deleteGameHandler())
	games.POST("/:id/restore", restoreGameHandler())
	games.DELETE("/:id/purge", purgeGameHandler())
	games.GET("/:id/consoles", gameConsolesHandler())
	games.POST("/:id/image", attachImageHandler(storage, settings, models.EntityTypeGame))
	games.DELETE("/:id/image", removeImageHandler(storage, models.EntityTypeGame))
}

func listGamesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.GameFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindingError(c, err)
			return
		}
		filter.IncludeInactive = c.Query("include_inactive") == "true"

		p := parsePagination(c)
		games, total, err := models.GetGames(c.Request.Context(), filter, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(games, total, p))
	}
}

func createGameHandler(storage utils.ObjectStorage, settings *config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewGame
		if err := c.ShouldBind(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		game, err := models.CreateGame(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}

		// optional image in the same multipart request; the game row is
		// already committed, so an image failure must not look like a
		// failed create
		if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
			image, imgErr := processEntityImage(c.Request.Context(), storage, settings, models.EntityTypeGame, game.ID, fh)
			if imgErr != nil {
				createdWithImageError(c, game, imgErr)
				return
			}
			game.Image = image
		}

		c.JSON(http.StatusCreated, game)
	}
}

func getGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		includeInactive := c.Query("include_inactive") == "true"

		game, err := models.GetGame(c.Request.Context(), id, includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

func updateGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		var input models.UpdateGame
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		game, err := models.UpdateGameDetail(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

func deleteGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		deleted, err := models.SoftDeleteGame(c.Request.Context(), id)
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

func restoreGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		restored, err := models.RestoreGame(c.Request.Context(), id)
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

func purgeGameHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		if err := models.PurgeGame(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func gameConsolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIdParam(c, "id")
		if !ok {
			return
		}
		consoles, err := models.CompatibleConsolesForGame(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": consoles})
	}
}
