package v1

import (
	"fmt"
	"time"

	"github.com/dentora/backend/internal/models"
	"github.com/dentora/backend/internal/money"
	dt_uuid "github.com/dentora/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetEditable represents all user configurable parameters
type BudgetEditable struct {
	ClinicID         uuid.UUID          `json:"clinicId" example:"52d967d3-33f4-4b04-9ba7-772e5ab9d0ce"`  // ID of the clinic the budget belongs to
	PatientID        uuid.UUID          `json:"patientId" example:"d7c0d1a2-6e7b-4f7a-8a3e-5c7f6d2b1a0c"` // ID of the patient the budget is for
	DiscountKind     money.DiscountKind `json:"discountKind" example:"percentage" default:"percentage"`   // How the discount value is interpreted
	DiscountValue    decimal.Decimal    `json:"discountValue" example:"10" default:"0"`                   // Discount as percentage or fixed amount
	ValidUntil       *time.Time         `json:"validUntil" example:"2026-09-30T00:00:00Z"`                // Date until which the budget is valid
	InstallmentCount int64              `json:"installmentCount" example:"3" default:"1"`                 // Number of equal installments
	Note             string             `json:"note" example:"Treatment plan for upper jaw" default:""`   // Notes about the budget
}

func (editable BudgetEditable) model() models.Budget {
	return models.Budget{
		ClinicID:         editable.ClinicID,
		PatientID:        editable.PatientID,
		DiscountKind:     editable.DiscountKind,
		DiscountValue:    editable.DiscountValue,
		ValidUntil:       editable.ValidUntil,
		InstallmentCount: editable.InstallmentCount,
		Note:             editable.Note,
	}
}

// BudgetUpdateBody is the request body for budget updates. The revision is
// the one the client read; the update is rejected if the budget has moved on.
type BudgetUpdateBody struct {
	BudgetEditable
	Revision *uint `json:"revision" example:"2"` // Revision the client based its edit on
}

// BudgetSendBody is the request body for the send transition.
type BudgetSendBody struct {
	Channel models.SendChannel `json:"channel" example:"whatsapp"` // Channel the budget was dispatched through
}

// BudgetRejectBody is the request body for the reject transition.
type BudgetRejectBody struct {
	Reason string `json:"reason" example:"too expensive"` // Free-text reason for the rejection
}

type BudgetLinks struct {
	Self  string `json:"self" example:"https://example.com/api/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f"`        // The budget itself
	Items string `json:"items" example:"https://example.com/api/v1/budgets/3b1ea324-d438-4419-882a-2fc91d71772f/items"` // Items of this budget
}

type Budget struct {
	models.DefaultModel
	BudgetEditable
	Status          models.BudgetStatus `json:"status" example:"draft"`                    // Lifecycle status
	SentAt          *time.Time          `json:"sentAt" example:"2026-08-14T10:12:00Z"`     // When the budget was sent to the patient
	SentVia         models.SendChannel  `json:"sentVia" example:"whatsapp"`                // Channel the budget was sent through
	RejectionReason string              `json:"rejectionReason" example:""`                // Reason the patient rejected the budget
	Revision        uint                `json:"revision" example:"2"`                      // Concurrency token, echo this back on PATCH
	Breakdown       models.Breakdown    `json:"breakdown"`                                 // Computed totals
	Items           []BudgetItem        `json:"items"`                                     // Items of the budget in display order
	Links           BudgetLinks         `json:"links"`
}

func newBudget(c *gin.Context, db *gorm.DB, model models.Budget) (Budget, error) {
	url := c.GetString(string(models.DBContextURL))

	budget := Budget{
		DefaultModel: model.DefaultModel,
		BudgetEditable: BudgetEditable{
			ClinicID:         model.ClinicID,
			PatientID:        model.PatientID,
			DiscountKind:     model.DiscountKind,
			DiscountValue:    model.DiscountValue,
			ValidUntil:       model.ValidUntil,
			InstallmentCount: model.InstallmentCount,
			Note:             model.Note,
		},
		Status:          model.Status,
		SentAt:          model.SentAt,
		SentVia:         model.SentVia,
		RejectionReason: model.RejectionReason,
		Revision:        model.Revision,
		Items:           make([]BudgetItem, 0),
		Links: BudgetLinks{
			Self:  fmt.Sprintf("%s/v1/budgets/%s", url, model.ID),
			Items: fmt.Sprintf("%s/v1/budgets/%s/items", url, model.ID),
		},
	}

	items, err := model.LineItems(db)
	if err != nil {
		return Budget{}, err
	}

	for _, item := range items {
		budget.Items = append(budget.Items, newBudgetItem(c, item))
	}

	breakdown, err := model.Breakdown(db)
	if err != nil {
		return Budget{}, err
	}
	budget.Breakdown = breakdown

	return budget, nil
}

type BudgetListResponse struct {
	Data       []Budget    `json:"data"`                                                          // List of Budgets
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type BudgetCreateResponse struct {
	Data  []BudgetResponse `json:"data"`                                                          // List of the created Budgets or their respective error
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (b *BudgetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetResponse struct {
	Data  *Budget `json:"data"`                                                          // Data for the Budget
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetQueryFilter struct {
	ClinicID  dt_uuid.UUID `form:"clinic"`                     // By ID of the Clinic
	PatientID dt_uuid.UUID `form:"patient"`                    // By ID of the Patient
	Status    string       `form:"status"`                     // By lifecycle status
	Note      string       `form:"note" filterField:"false"`   // By note
	Search    string       `form:"search" filterField:"false"` // By string in note
	Offset    uint         `form:"offset" filterField:"false"` // The offset of the first Budget returned. Defaults to 0.
	Limit     int          `form:"limit" filterField:"false"`  // Maximum number of Budgets to return. Defaults to 50.
}

func (f BudgetQueryFilter) model() (models.Budget, error) {
	return models.Budget{
		ClinicID:  f.ClinicID.UUID,
		PatientID: f.PatientID.UUID,
		Status:    models.BudgetStatus(f.Status),
	}, nil
}

// BudgetItemEditable represents all user configurable parameters
type BudgetItemEditable struct {
	ProcedureID *uuid.UUID      `json:"procedureId" example:"8a3e5c7f-6d2b-41a0-9ba7-772e5ab9d0ce"` // Catalog procedure to prefill from, optional
	Name        string          `json:"name" example:"Limpeza" default:""`                          // Name of the procedure, copied at creation
	Description string          `json:"description" example:"Profilaxia completa" default:""`       // Description, defaults to the name
	Quantity    int64           `json:"quantity" example:"2" default:"1"`                           // How often the procedure is performed
	UnitPrice   decimal.Decimal `json:"unitPrice" example:"250.00" default:"0"`                     // Price per unit, copied at creation
}

func (editable BudgetItemEditable) model(budgetID uuid.UUID) models.BudgetItem {
	return models.BudgetItem{
		BudgetID:    budgetID,
		ProcedureID: editable.ProcedureID,
		Name:        editable.Name,
		Description: editable.Description,
		Quantity:    editable.Quantity,
		UnitPrice:   editable.UnitPrice,
	}
}

type BudgetItemLinks struct {
	Self   string `json:"self" example:"https://example.com/api/v1/budgets/3b1e…/items/a3f1…"` // The item itself
	Budget string `json:"budget" example:"https://example.com/api/v1/budgets/3b1e…"`           // The budget the item belongs to
}

type BudgetItem struct {
	models.DefaultModel
	BudgetItemEditable
	BudgetID  uuid.UUID       `json:"budgetId" example:"3b1ea324-d438-4419-882a-2fc91d71772f"` // ID of the budget the item belongs to
	LineTotal decimal.Decimal `json:"lineTotal" example:"500.00"`                              // Quantity times unit price
	Links     BudgetItemLinks `json:"links"`
}

func newBudgetItem(c *gin.Context, model models.BudgetItem) BudgetItem {
	url := c.GetString(string(models.DBContextURL))

	return BudgetItem{
		DefaultModel: model.DefaultModel,
		BudgetItemEditable: BudgetItemEditable{
			ProcedureID: model.ProcedureID,
			Name:        model.Name,
			Description: model.Description,
			Quantity:    model.Quantity,
			UnitPrice:   model.UnitPrice,
		},
		BudgetID:  model.BudgetID,
		LineTotal: model.LineTotal().Round(2),
		Links: BudgetItemLinks{
			Self:   fmt.Sprintf("%s/v1/budgets/%s/items/%s", url, model.BudgetID, model.ID),
			Budget: fmt.Sprintf("%s/v1/budgets/%s", url, model.BudgetID),
		},
	}
}

type BudgetItemListResponse struct {
	Data  []BudgetItem `json:"data"`                                                          // List of items
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type BudgetItemCreateResponse struct {
	Data  []BudgetItemResponse `json:"data"`                                                          // List of the created items or their respective error
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (b *BudgetItemCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	b.Data = append(b.Data, BudgetItemResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type BudgetItemResponse struct {
	Data  *BudgetItem `json:"data"`                                                          // Data for the item
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
