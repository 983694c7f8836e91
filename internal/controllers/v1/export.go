package v1

import (
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

type ExportResponse struct {
	Version      string                     `json:"version" example:"0.0.0"`         // The backend version that created the export
	CreationTime time.Time                  `json:"creationTime"`                    // Time the export was created
	Clacks       string                     `json:"clacks" example:"GNU Terry Pratchett"`
	Data         map[string]json.RawMessage `json:"data"`                            // All resources, keyed by model name
}

// @Summary		Export
// @Description	Exports all resources, including soft-deleted ones
// @Tags			Export
// @Produce		json
// @Success		200	{object}	ExportResponse
// @Failure		500	{object}	httpError
// @Router			/v1/export [get]
func GetExport(c *gin.Context) {
	data := make(map[string]json.RawMessage, len(models.Registry))

	for _, model := range models.Registry {
		raw, err := model.Export()
		if err != nil {
			c.JSON(status(err), httpError{
				Error: err.Error(),
			})
			return
		}

		data[reflect.TypeOf(model).Name()] = raw
	}

	c.JSON(http.StatusOK, ExportResponse{
		Version:      version,
		CreationTime: time.Now(),
		Clacks:       "GNU Terry Pratchett",
		Data:         data,
	})
}
