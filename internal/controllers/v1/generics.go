package v1

import (
	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R models.Budget | models.Clinic | models.Patient | models.Procedure](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&resource, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}
