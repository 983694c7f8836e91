package v1

import (
	"fmt"

	"github.com/dentora/backend/internal/models"
	dt_uuid "github.com/dentora/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PatientEditable represents all user configurable parameters
type PatientEditable struct {
	ClinicID uuid.UUID `json:"clinicId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"` // ID of the clinic the patient belongs to
	Name     string    `json:"name" example:"Ana Souza" default:""`                     // Full name of the patient
	Phone    string    `json:"phone" example:"+55 11 91234-5678" default:""`            // Phone number, used for WhatsApp contact
	Email    string    `json:"email" example:"ana@example.com" default:""`              // Email address
	Note     string    `json:"note" example:"Prefers morning appointments" default:""`  // Notes about the patient
}

func (editable PatientEditable) model() models.Patient {
	return models.Patient{
		ClinicID: editable.ClinicID,
		Name:     editable.Name,
		Phone:    editable.Phone,
		Email:    editable.Email,
		Note:     editable.Note,
	}
}

type PatientLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/patients/3b1ea324-d438-4419-882a-2fc91d71772f"`           // The patient itself
	Budgets string `json:"budgets" example:"https://example.com/api/v1/budgets?patient=3b1ea324-d438-4419-882a-2fc91d71772f"` // Budgets for this patient
}

type Patient struct {
	models.DefaultModel
	PatientEditable
	Links PatientLinks `json:"links"`
}

func newPatient(c *gin.Context, model models.Patient) Patient {
	url := c.GetString(string(models.DBContextURL))

	return Patient{
		DefaultModel: model.DefaultModel,
		PatientEditable: PatientEditable{
			ClinicID: model.ClinicID,
			Name:     model.Name,
			Phone:    model.Phone,
			Email:    model.Email,
			Note:     model.Note,
		},
		Links: PatientLinks{
			Self:    fmt.Sprintf("%s/v1/patients/%s", url, model.ID),
			Budgets: fmt.Sprintf("%s/v1/budgets?patient=%s", url, model.ID),
		},
	}
}

type PatientListResponse struct {
	Data       []Patient   `json:"data"`                                                          // List of Patients
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PatientCreateResponse struct {
	Data  []PatientResponse `json:"data"`                                                          // List of the created Patients or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (p *PatientCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PatientResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PatientResponse struct {
	Data  *Patient `json:"data"`                                                          // Data for the Patient
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PatientQueryFilter struct {
	ClinicID dt_uuid.UUID `form:"clinic"`                     // By ID of the Clinic
	Name     string       `form:"name" filterField:"false"`   // By name
	Phone    string       `form:"phone"`                      // By phone number
	Email    string       `form:"email"`                      // By email address
	Note     string       `form:"note" filterField:"false"`   // By note
	Search   string       `form:"search" filterField:"false"` // By string in name or note
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first Patient returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of Patients to return. Defaults to 50.
}

func (f PatientQueryFilter) model() (models.Patient, error) {
	return models.Patient{
		ClinicID: f.ClinicID.UUID,
		Phone:    f.Phone,
		Email:    f.Email,
	}, nil
}
