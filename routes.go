package main

import (
	"net/http"

	"github.com/gamedex/catalog_backend/config"
	"github.com/gamedex/catalog_backend/middlewares"
	"github.com/gamedex/catalog_backend/models"
	"github.com/gamedex/catalog_backend/models/reports"
	"github.com/gamedex/catalog_backend/utils"
	"github.com/gin-gonic/gin"
)

func registerRoutes(r *gin.Engine, storage utils.ObjectStorage, settings *config.Settings) {
	registerGameRoutes(r, storage, settings)
	registerConsoleRoutes(r, storage, settings)
	registerAccessoryRoutes(r, storage, settings)
	registerCompatibilityRoutes(r)

	r.GET("/search", searchHandler())
	r.GET("/compare", compareHandler())
	r.GET("/export", exportHandler())

	// the audit trail is operator-facing
	r.GET("/history", middlewares.RequireAuth(), listHistoryHandler())

	r.POST("/auth/register", registerHandler())
	r.POST("/auth/login", loginHandler(settings))
}

func searchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.SearchInput
		if err := c.ShouldBindQuery(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		p := parsePagination(c)
		if c.Query("per_page") == "" {
			p.PerPage = config.SearchLimit
		}

		results, err := models.SearchCatalog(c.Request.Context(), input, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func compareHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.ComparisonInput
		if err := c.ShouldBindQuery(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		comparison, err := models.CompareEntities(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comparison)
	}
}

func listHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.HistoryFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBindingError(c, err)
			return
		}

		p := parsePagination(c)
		histories, total, err := models.GetHistories(c.Request.Context(), filter, p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, listResponse(histories, total, p))
	}
}

func exportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "export-catalog")
		defer span.End()

		f, err := reports.ExportCatalogExcel(ctx)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename=catalog.xlsx")
		if err := f.Write(c.Writer); err != nil {
			config.LogError(config.GetLogger(), "server", "exportHandler", "write workbook", nil, err)
		}
	}
}

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func loginHandler(settings *config.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindingError(c, err)
			return
		}

		user, err := models.AuthenticateUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}

		token, err := utils.JwtGenerate(user.ID, user.Username, settings.TokenLifespan)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}
