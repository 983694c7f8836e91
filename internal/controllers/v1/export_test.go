package v1_test

import (
	"encoding/json"
	"net/http"

	v1 "github.com/dentora/backend/internal/controllers/v1"
	"github.com/dentora/backend/internal/models"
	"github.com/dentora/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExportOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestExport() {
	budget := createTestBudget(suite.T(), v1.BudgetEditable{})
	_ = createTestBudgetItem(suite.T(), budget.Data.ID, v1.BudgetItemEditable{Name: "Limpeza", UnitPrice: decimal.NewFromInt(200)})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ExportResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "GNU Terry Pratchett", response.Clacks)
	assert.NotEmpty(suite.T(), response.Version)
	assert.False(suite.T(), response.CreationTime.IsZero())

	// One key per registered model
	assert.Len(suite.T(), response.Data, len(models.Registry))

	var budgets []map[string]any
	require.Contains(suite.T(), response.Data, "Budget")
	require.Nil(suite.T(), json.Unmarshal(response.Data["Budget"], &budgets))
	assert.Len(suite.T(), budgets, 1)

	var items []map[string]any
	require.Contains(suite.T(), response.Data, "BudgetItem")
	require.Nil(suite.T(), json.Unmarshal(response.Data["BudgetItem"], &items))
	assert.Len(suite.T(), items, 1)
}

func (suite *TestSuiteStandard) TestExportDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/export", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
