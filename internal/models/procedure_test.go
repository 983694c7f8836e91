package models_test

import (
	"github.com/dentora/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestProcedureValidation() {
	clinic := suite.createTestClinic(models.Clinic{})

	tests := []struct {
		name      string
		procedure models.Procedure
		err       error
	}{
		{"Empty name", models.Procedure{Name: "  "}, models.ErrProcedureNameRequired},
		{"Negative price", models.Procedure{Name: "Limpeza", Price: decimal.NewFromInt(-10)}, models.ErrInvalidPrice},
	}

	for _, tt := range tests {
		procedure := tt.procedure
		procedure.ClinicID = clinic.ID

		err := models.DB.Create(&procedure).Error
		assert.ErrorIs(suite.T(), err, tt.err, "Test %s: got %v", tt.name, err)
	}
}

func (suite *TestSuiteStandard) TestProcedureNameUniquePerClinic() {
	clinic := suite.createTestClinic(models.Clinic{})
	_ = suite.createTestProcedure(models.Procedure{ClinicID: clinic.ID, Name: "Limpeza"})

	duplicate := models.Procedure{ClinicID: clinic.ID, Name: "Limpeza"}
	err := models.DB.Create(&duplicate).Error
	assert.ErrorIs(suite.T(), err, models.ErrProcedureNameNotUnique)

	// The same name is fine in another clinic
	other := suite.createTestClinic(models.Clinic{})
	require.NoError(suite.T(), models.DB.Create(&models.Procedure{ClinicID: other.ID, Name: "Limpeza"}).Error)
}

func (suite *TestSuiteStandard) TestProcedureArchive() {
	procedure := suite.createTestProcedure(models.Procedure{Name: "Limpeza"})
	assert.False(suite.T(), procedure.Archived)

	err := models.DB.Model(&procedure).Select("", "Archived").Updates(models.Procedure{Archived: true}).Error
	require.NoError(suite.T(), err)

	var reloaded models.Procedure
	require.NoError(suite.T(), models.DB.First(&reloaded, procedure.ID).Error)
	assert.True(suite.T(), reloaded.Archived)
}
