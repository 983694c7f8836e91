package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/dentora/backend/internal/controllers/v1"
	"github.com/dentora/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCleanup() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})
	_ = createTestProcedure(suite.T(), v1.ProcedureEditable{})

	tests := []string{
		"http://example.com/v1/clinics",
		"http://example.com/v1/patients",
		"http://example.com/v1/procedures",
		"http://example.com/v1/budgets",
	}

	// Delete all data
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify that all resources are deleted
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(t, http.MethodGet, tt, "")
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}
			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"no confirmation", "http://example.com/v1"},
		{"wrong confirmation", "http://example.com/v1?confirm=on-second-thought-no"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, tt.path, "")
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDBClosed() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
