package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/dentora/backend/internal/controllers/v1"
	"github.com/dentora/backend/internal/permissions"
	"github.com/dentora/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestPermissionsOptions() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/permissions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestPermissionsWithoutRole() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/permissions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.PermissionsResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Contains(suite.T(), *response.Error, "role")
}

func (suite *TestSuiteStandard) TestPermissionsGet() {
	tests := []struct {
		role    string
		section permissions.Section
		view    bool
		edit    bool
		delete  bool
	}{
		{"admin", permissions.SectionSettings, true, true, true},
		{"dentista", permissions.SectionSettings, true, true, true},
		{"recepcionista", permissions.SectionSettings, false, false, false},
		{"recepcionista", permissions.SectionPatients, true, true, false},
		{"recepcionista", permissions.SectionBudgets, true, false, false},
		{"financeiro", permissions.SectionReports, true, false, false},
		{"financeiro", permissions.SectionBudgets, true, true, false},
		{"financeiro", permissions.SectionPatients, false, false, false},
		// Unknown roles fall back to the receptionist set
		{"estagiario", permissions.SectionSettings, false, false, false},
		{"estagiario", permissions.SectionPatients, true, true, false},
	}

	for _, tt := range tests {
		suite.T().Run(tt.role+" "+string(tt.section), func(t *testing.T) {
			r := test.Request(t, http.MethodGet, "http://example.com/v1/permissions?role="+tt.role, "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.PermissionsResponse
			test.DecodeResponse(t, &r, &response)
			require.NotNil(t, response.Data)

			// Every section appears in the response
			assert.Len(t, response.Data.Sections, len(permissions.Sections))

			section := response.Data.Sections[tt.section]
			assert.Equal(t, tt.view, section.View, "view")
			assert.Equal(t, tt.edit, section.Edit, "edit")
			assert.Equal(t, tt.delete, section.Delete, "delete")
		})
	}
}
