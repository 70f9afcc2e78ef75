package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/goodjobguy1234/LendItApi/apperr"
)

// success writes the {result, code, message} envelope every endpoint shares;
// fail writes its {errors, code, message} counterpart.

func success(c *gin.Context, status int, message string, result interface{}) {
	if result == nil {
		result = gin.H{}
	}
	c.JSON(status, gin.H{
		"result":  result,
		"code":    status,
		"message": message,
	})
}

func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, gin.H{
		"errors":  gin.H{"kind": apperr.KindOf(err).String()},
		"code":    status,
		"message": apperr.Message(err),
	})
}

// callerID is the student id AuthRequired resolved for this request.
func callerID(c *gin.Context) string {
	v, _ := c.Get("userID")
	id, _ := v.(string)
	return id
}
