package v1

import (
	"fmt"

	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// ClinicEditable represents all user configurable parameters
type ClinicEditable struct {
	Name     string `json:"name" example:"Sorriso Aberto" default:""`                 // Name of the clinic
	Note     string `json:"note" example:"Downtown branch" default:""`               // Notes about the clinic
	Currency string `json:"currency" example:"BRL" default:"BRL"`                    // ISO 4217 currency code for all monetary values
}

func (editable ClinicEditable) model() models.Clinic {
	return models.Clinic{
		Name:     editable.Name,
		Note:     editable.Note,
		Currency: editable.Currency,
	}
}

type ClinicLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/clinics/3b1ea324-d438-4419-882a-2fc91d71772f"`                  // The clinic itself
	Patients   string `json:"patients" example:"https://example.com/api/v1/patients?clinic=3b1ea324-d438-4419-882a-2fc91d71772f"`      // Patients of this clinic
	Procedures string `json:"procedures" example:"https://example.com/api/v1/procedures?clinic=3b1ea324-d438-4419-882a-2fc91d71772f"`  // Procedure catalog of this clinic
	Budgets    string `json:"budgets" example:"https://example.com/api/v1/budgets?clinic=3b1ea324-d438-4419-882a-2fc91d71772f"`        // Budgets of this clinic
}

type Clinic struct {
	models.DefaultModel
	ClinicEditable
	Links ClinicLinks `json:"links"`
}

func newClinic(c *gin.Context, model models.Clinic) Clinic {
	url := c.GetString(string(models.DBContextURL))

	return Clinic{
		DefaultModel: model.DefaultModel,
		ClinicEditable: ClinicEditable{
			Name:     model.Name,
			Note:     model.Note,
			Currency: model.Currency,
		},
		Links: ClinicLinks{
			Self:       fmt.Sprintf("%s/v1/clinics/%s", url, model.ID),
			Patients:   fmt.Sprintf("%s/v1/patients?clinic=%s", url, model.ID),
			Procedures: fmt.Sprintf("%s/v1/procedures?clinic=%s", url, model.ID),
			Budgets:    fmt.Sprintf("%s/v1/budgets?clinic=%s", url, model.ID),
		},
	}
}

type ClinicListResponse struct {
	Data       []Clinic    `json:"data"`                                                          // List of Clinics
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ClinicCreateResponse struct {
	Data  []ClinicResponse `json:"data"`                                                          // List of the created Clinics or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (c *ClinicCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	c.Data = append(c.Data, ClinicResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ClinicResponse struct {
	Data  *Clinic `json:"data"`                                                          // Data for the Clinic
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type ClinicQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // By name
	Note     string `form:"note" filterField:"false"`   // By note
	Currency string `form:"currency"`                   // By ISO 4217 currency code
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first Clinic returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of Clinics to return. Defaults to 50.
}

func (f ClinicQueryFilter) model() (models.Clinic, error) {
	return models.Clinic{
		Currency: f.Currency,
	}, nil
}
