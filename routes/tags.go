package routes

import (
	"errors"
	"net/http"

	"tasknest/database"
	"tasknest/services"

	"github.com/gin-gonic/gin"
)

type tagRequest struct {
	Name string `json:"name"`
}

func RegisterTagRoutes(group *gin.RouterGroup, db *database.Database, tagService services.TagServiceInterface) {
	group.GET("/tags", func(c *gin.Context) { GetTags(c, db, tagService) })
	group.POST("/tags", func(c *gin.Context) { CreateTag(c, db, tagService) })
}

func GetTags(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := tagService.GetTags(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func CreateTag(c *gin.Context, db *database.Database, tagService services.TagServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request tagRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := tagService.CreateTag(db, userID, request.Name)
	if err != nil {
		var verrs services.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tag)
}
