package v1

import (
	"fmt"

	"github.com/dentora/backend/internal/models"
	dt_uuid "github.com/dentora/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProcedureEditable represents all user configurable parameters
type ProcedureEditable struct {
	ClinicID    uuid.UUID       `json:"clinicId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`     // ID of the clinic the procedure belongs to
	Name        string          `json:"name" example:"Limpeza" default:""`                           // Name of the procedure
	Description string          `json:"description" example:"Profilaxia completa" default:""`        // Description of the procedure
	Price       decimal.Decimal `json:"price" example:"250.00" default:"0"`                          // List price of the procedure
	Archived    bool            `json:"archived" example:"true" default:"false"`                     // Is the procedure hidden from new budgets?
}

func (editable ProcedureEditable) model() models.Procedure {
	return models.Procedure{
		ClinicID:    editable.ClinicID,
		Name:        editable.Name,
		Description: editable.Description,
		Price:       editable.Price,
		Archived:    editable.Archived,
	}
}

type ProcedureLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/procedures/3b1ea324-d438-4419-882a-2fc91d71772f"` // The procedure itself
}

type Procedure struct {
	models.DefaultModel
	ProcedureEditable
	Links ProcedureLinks `json:"links"`
}

func newProcedure(c *gin.Context, model models.Procedure) Procedure {
	url := c.GetString(string(models.DBContextURL))

	return Procedure{
		DefaultModel: model.DefaultModel,
		ProcedureEditable: ProcedureEditable{
			ClinicID:    model.ClinicID,
			Name:        model.Name,
			Description: model.Description,
			Price:       model.Price,
			Archived:    model.Archived,
		},
		Links: ProcedureLinks{
			Self: fmt.Sprintf("%s/v1/procedures/%s", url, model.ID),
		},
	}
}

type ProcedureListResponse struct {
	Data       []Procedure `json:"data"`                                                          // List of Procedures
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ProcedureCreateResponse struct {
	Data  []ProcedureResponse `json:"data"`                                                          // List of the created Procedures or their respective error
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *ProcedureCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, ProcedureResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ProcedureResponse struct {
	Data  *Procedure `json:"data"`                                                          // Data for the Procedure
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ProcedureQueryFilter struct {
	ClinicID dt_uuid.UUID `form:"clinic"`                     // By ID of the Clinic
	Name     string       `form:"name" filterField:"false"`   // By name
	Match    string       `form:"match" filterField:"false"`  // By glob pattern on the name, e.g. "Clareamento*"
	Archived bool         `form:"archived"`                   // Is the Procedure archived?
	Search   string       `form:"search" filterField:"false"` // By string in name or description
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first Procedure returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of Procedures to return. Defaults to 50.
}

func (f ProcedureQueryFilter) model() (models.Procedure, error) {
	return models.Procedure{
		ClinicID: f.ClinicID.UUID,
		Archived: f.Archived,
	}, nil
}
