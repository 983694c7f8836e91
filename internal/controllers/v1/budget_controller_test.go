package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/dentora/backend/internal/controllers/v1"
	"github.com/dentora/backend/internal/models"
	"github.com/dentora/backend/internal/money"
	"github.com/dentora/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetsCreateDefaults() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	assert.Equal(suite.T(), models.BudgetStatusDraft, budget.Data.Status)
	assert.Equal(suite.T(), money.DiscountPercentage, budget.Data.DiscountKind)
	assert.Equal(suite.T(), int64(1), budget.Data.InstallmentCount)
	assert.Equal(suite.T(), uint(0), budget.Data.Revision)
	assert.Empty(suite.T(), budget.Data.Items)
}

func (suite *TestSuiteStandard) TestBudgetsCreateForeignPatient() {
	clinic := createTestClinic(suite.T(), v1.ClinicEditable{})
	foreign := createTestPatient(suite.T(), v1.PatientEditable{})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/budgets", []v1.BudgetEditable{{
		ClinicID:  clinic.Data.ID,
		PatientID: foreign.Data.ID,
	}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrPatientNotInClinic.Error())
}

func (suite *TestSuiteStandard) TestBudgetsBreakdown() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{
		DiscountKind:     money.DiscountPercentage,
		DiscountValue:    decimal.NewFromInt(10),
		InstallmentCount: 3,
	})

	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Restauração", Quantity: 1, UnitPrice: decimal.NewFromInt(800)})
	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", Quantity: 2, UnitPrice: decimal.NewFromInt(200)})

	r := test.Request(suite.T(), http.MethodGet, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data.Items, 2)
	assert.Equal(suite.T(), "Restauração", response.Data.Items[0].Name)

	breakdown := response.Data.Breakdown
	assert.True(suite.T(), breakdown.Subtotal.Equal(decimal.NewFromInt(1200)), "Subtotal is %s", breakdown.Subtotal)
	assert.True(suite.T(), breakdown.DiscountAmount.Equal(decimal.NewFromInt(120)), "DiscountAmount is %s", breakdown.DiscountAmount)
	assert.True(suite.T(), breakdown.FinalTotal.Equal(decimal.NewFromInt(1080)), "FinalTotal is %s", breakdown.FinalTotal)
	assert.True(suite.T(), breakdown.InstallmentValue.Equal(decimal.NewFromInt(360)), "InstallmentValue is %s", breakdown.InstallmentValue)
}

func (suite *TestSuiteStandard) TestBudgetsItemFromCatalog() {
	clinic := createTestClinic(suite.T(), v1.ClinicEditable{})
	procedure := createTestProcedure(suite.T(), v1.ProcedureEditable{ClinicID: clinic.Data.ID, Name: "Clareamento", Description: "Sessão única", Price: decimal.NewFromInt(900)})
	budget := createTestBudget(suite.T(), v1.BudgetEditable{ClinicID: clinic.Data.ID})

	item := createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{ProcedureID: &procedure.Data.ID})

	assert.Equal(suite.T(), "Clareamento", item.Data.Name)
	assert.Equal(suite.T(), "Sessão única", item.Data.Description)
	assert.True(suite.T(), item.Data.UnitPrice.Equal(decimal.NewFromInt(900)))
	assert.Equal(suite.T(), int64(1), item.Data.Quantity)
}

func (suite *TestSuiteStandard) TestBudgetsItemFromForeignCatalog() {
	procedure := createTestProcedure(suite.T(), v1.ProcedureEditable{Name: "Clareamento"})
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Items, []v1.BudgetItemEditable{{ProcedureID: &procedure.Data.ID}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetItemCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Data[0].Error, models.ErrProcedureNotInClinic.Error())
}

func (suite *TestSuiteStandard) TestBudgetsUpdateWithRevision() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	// An update with the current revision works
	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"note":     "updated plan",
		"revision": 0,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.Equal(suite.T(), "updated plan", updated.Data.Note)
	assert.Equal(suite.T(), uint(1), updated.Data.Revision)

	// Replaying the same revision is rejected
	r = test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"note":     "stale edit",
		"revision": 0,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	var conflict v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &conflict)
	assert.Contains(suite.T(), *conflict.Error, models.ErrConcurrentModification.Error())
}

func (suite *TestSuiteStandard) TestBudgetsUpdateForeignClinic() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	other := createTestClinic(suite.T(), v1.ClinicEditable{})

	// Moving the budget to a clinic its patient does not belong to is refused
	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"clinicId": other.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, models.ErrPatientNotInClinic.Error())
}

func (suite *TestSuiteStandard) TestBudgetsSend() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	validUntil := time.Now().In(time.UTC).AddDate(0, 0, 14)
	r := test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"validUntil": validUntil.Format(time.RFC3339),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/send", v1.BudgetSendBody{Channel: models.SendChannelWhatsApp})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var sent v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &sent)
	assert.Equal(suite.T(), models.BudgetStatusSent, sent.Data.Status)
	assert.Equal(suite.T(), models.SendChannelWhatsApp, sent.Data.SentVia)
	assert.NotNil(suite.T(), sent.Data.SentAt)
}

func (suite *TestSuiteStandard) TestBudgetsSendGuards() {
	// Sending an empty budget fails
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/send", v1.BudgetSendBody{Channel: models.SendChannelEmail})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, models.ErrBudgetEmpty.Error())

	// Sending through an unknown channel fails
	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	r = test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/send", map[string]string{"channel": "telegram"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, models.ErrInvalidSendChannel.Error())
}

func (suite *TestSuiteStandard) TestBudgetsApprove() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/approve", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var approved v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &approved)
	assert.Equal(suite.T(), models.BudgetStatusApproved, approved.Data.Status)

	// A second approval is rejected
	r = test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/approve", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestBudgetsReject() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/reject", v1.BudgetRejectBody{Reason: "too expensive"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var rejected v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &rejected)
	assert.Equal(suite.T(), models.BudgetStatusRejected, rejected.Data.Status)
	assert.Equal(suite.T(), "too expensive", rejected.Data.RejectionReason)
}

func (suite *TestSuiteStandard) TestBudgetsRejectWithoutBody() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/reject", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var rejected v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &rejected)
	assert.Equal(suite.T(), models.BudgetStatusRejected, rejected.Data.Status)
}

func (suite *TestSuiteStandard) TestBudgetsLockedAfterApproval() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	item := createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	r := test.Request(suite.T(), http.MethodPost, budget.Data.Links.Self+"/approve", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// Changing the discount is locked
	r = test.Request(suite.T(), http.MethodPatch, budget.Data.Links.Self, map[string]any{
		"discountValue": 10,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Adding items is locked
	r = test.Request(suite.T(), http.MethodPost, budget.Data.Links.Items, []v1.BudgetItemEditable{{Name: "Extra", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Changing items is locked
	r = test.Request(suite.T(), http.MethodPatch, item.Data.Links.Self, map[string]any{
		"quantity": 5,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Deleting items is locked
	r = test.Request(suite.T(), http.MethodDelete, item.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Deleting the budget is locked
	r = test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestBudgetsDeleteDraft() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	item := createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	r := test.Request(suite.T(), http.MethodDelete, budget.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	// The item is gone together with the budget
	r = test.Request(suite.T(), http.MethodGet, item.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsItemOfOtherBudget() {
	first := createTestBudget(suite.T(), v1.BudgetEditable{})
	second := createTestBudget(suite.T(), v1.BudgetEditable{})
	item := createTestBudgetItem(suite.T(), first.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	// The item is not reachable through the other budget
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("%s/%s", second.Data.Links.Items, item.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestBudgetsGetFilter() {
	clinic := createTestClinic(suite.T(), v1.ClinicEditable{})
	patient := createTestPatient(suite.T(), v1.PatientEditable{ClinicID: clinic.Data.ID})

	b1 := createTestBudget(suite.T(), v1.BudgetEditable{ClinicID: clinic.Data.ID, PatientID: patient.Data.ID})
	_ = createTestBudget(suite.T(), v1.BudgetEditable{ClinicID: clinic.Data.ID, PatientID: patient.Data.ID})
	_ = createTestBudget(suite.T(), v1.BudgetEditable{})

	r := test.Request(suite.T(), http.MethodPost, b1.Data.Links.Self+"/approve", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Clinic", fmt.Sprintf("clinic=%s", clinic.Data.ID), 2},
		{"Patient", fmt.Sprintf("patient=%s", patient.Data.ID), 2},
		{"Patient Not Existing", fmt.Sprintf("patient=%s", uuid.New()), 0},
		{"Status draft", "status=draft", 2},
		{"Status approved", "status=approved", 1},
		{"Status sent", "status=sent", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/budgets?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.BudgetListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}
}

// TestBudgetsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestBudgetsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestBudget(t, v1.BudgetEditable{ClinicID: uuid.New(), PatientID: uuid.New()}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/budgets", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.BudgetListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}
