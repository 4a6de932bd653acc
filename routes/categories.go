package routes

import (
	"errors"
	"net/http"

	"tasknest/database"
	"tasknest/services"

	"github.com/gin-gonic/gin"
)

func RegisterCategoryRoutes(group *gin.RouterGroup, db *database.Database, categoryService services.CategoryServiceInterface) {
	group.GET("/categories", func(c *gin.Context) { GetCategories(c, db, categoryService) })
	group.POST("/categories", func(c *gin.Context) { CreateCategory(c, db, categoryService) })
	group.GET("/categories/:id", func(c *gin.Context) { GetCategoryById(c, db, categoryService) })
	group.PUT("/categories/:id", func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
	group.DELETE("/categories/:id", func(c *gin.Context) { DeleteCategory(c, db, categoryService) })
}

func renderCategoryError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields()})
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func GetCategories(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categories, err := categoryService.GetCategories(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.CreateCategory(db, userID, input)
	if err != nil {
		renderCategoryError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func GetCategoryById(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	category, err := categoryService.GetCategoryById(db, userID, c.Param("id"))
	if err != nil {
		renderCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func UpdateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.UpdateCategory(db, userID, c.Param("id"), input)
	if err != nil {
		renderCategoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := categoryService.DeleteCategory(db, userID, c.Param("id")); err != nil {
		renderCategoryError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}
