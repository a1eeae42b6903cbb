package main

import (
	"net/http"
	"strconv"

	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerCompatibilityRoutes(r *gin.Engine) {
	compat := r.Group("/compatibility")
	compat.POST("/game-console", linkGameConsoleHandler())
	compat.DELETE("/game-console", unlinkGameConsoleHandler())
	compat.POST("/accessory-console", linkAccessoryConsoleHandler())
	compat.DELETE("/accessory-console", unlinkAccessoryConsoleHandler())
}

func linkGameConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewGameConsoleLink
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		link, err := models.LinkGameConsole(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

func unlinkGameConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameId, _ := strconv.Atoi(c.Query("game_id"))
		consoleId, _ := strconv.Atoi(c.Query("console_id"))
		accessoryId, _ := strconv.Atoi(c.Query("accessory_id"))
		if gameId <= 0 || consoleId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"game_id": "and console_id are required"}})
			return
		}

		removed, err := models.UnlinkGameConsole(c.Request.Context(), gameId, consoleId, accessoryId)
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

func linkAccessoryConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAccessoryConsoleLink
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		link, err := models.LinkAccessoryConsole(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

func unlinkAccessoryConsoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessoryId, _ := strconv.Atoi(c.Query("accessory_id"))
		consoleId, _ := strconv.Atoi(c.Query("console_id"))
		if accessoryId <= 0 || consoleId <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"accessory_id": "and console_id are required"}})
			return
		}

		removed, err := models.UnlinkAccessoryConsole(c.Request.Context(), accessoryId, consoleId)
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
