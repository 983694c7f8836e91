package models_test

import (
	"time"

	"github.com/dentora/backend/internal/models"
	"github.com/dentora/backend/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestBudgetDefaults() {
	budget := suite.createTestBudget(models.Budget{})

	assert.Equal(suite.T(), models.BudgetStatusDraft, budget.Status)
	assert.Equal(suite.T(), money.DiscountPercentage, budget.DiscountKind)
	assert.Equal(suite.T(), int64(1), budget.InstallmentCount)
}

func (suite *TestSuiteStandard) TestBudgetStatusOnCreate() {
	clinic := suite.createTestClinic(models.Clinic{})
	patient := suite.createTestPatient(models.Patient{ClinicID: clinic.ID})

	budget := models.Budget{
		ClinicID:  clinic.ID,
		PatientID: patient.ID,
		Status:    models.BudgetStatusApproved,
	}

	err := models.DB.Create(&budget).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetStatusOnCreate)
}

func (suite *TestSuiteStandard) TestBudgetPatientInClinic() {
	clinic := suite.createTestClinic(models.Clinic{})
	otherPatient := suite.createTestPatient(models.Patient{})

	budget := models.Budget{
		ClinicID:  clinic.ID,
		PatientID: otherPatient.ID,
	}

	err := models.DB.Create(&budget).Error
	assert.ErrorIs(suite.T(), err, models.ErrPatientNotInClinic)
}

func (suite *TestSuiteStandard) TestBudgetInvalidDiscount() {
	clinic := suite.createTestClinic(models.Clinic{})
	patient := suite.createTestPatient(models.Patient{ClinicID: clinic.ID})

	tests := []struct {
		name   string
		budget models.Budget
		err    error
	}{
		{
			"Unknown kind",
			models.Budget{DiscountKind: "rebate", DiscountValue: decimal.NewFromInt(10)},
			money.ErrInvalidDiscountKind,
		},
		{
			"Negative value",
			models.Budget{DiscountKind: money.DiscountFixed, DiscountValue: decimal.NewFromInt(-10)},
			money.ErrInvalidDiscountValue,
		},
		{
			"Percentage above 100",
			models.Budget{DiscountKind: money.DiscountPercentage, DiscountValue: decimal.NewFromInt(110)},
			money.ErrInvalidDiscountPercentage,
		},
		{
			"Negative installments",
			models.Budget{InstallmentCount: -3},
			money.ErrInvalidInstallmentCount,
		},
	}

	for _, tt := range tests {
		budget := tt.budget
		budget.ClinicID = clinic.ID
		budget.PatientID = patient.ID

		err := models.DB.Create(&budget).Error
		assert.ErrorIs(suite.T(), err, tt.err, "Test %s: got %v", tt.name, err)
	}
}

func (suite *TestSuiteStandard) TestBudgetSend() {
	validUntil := time.Now().In(time.UTC).AddDate(0, 0, 14)
	budget := suite.createTestBudget(models.Budget{ValidUntil: &validUntil})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(100)})

	// Adding the item bumped the revision, work with the current state
	require.NoError(suite.T(), models.DB.First(&budget, budget.ID).Error)

	err := budget.Send(models.DB, models.SendChannelWhatsApp)
	require.NoError(suite.T(), err)

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)

	assert.Equal(suite.T(), models.BudgetStatusSent, reloaded.Status)
	assert.Equal(suite.T(), models.SendChannelWhatsApp, reloaded.SentVia)
	require.NotNil(suite.T(), reloaded.SentAt)
	assert.Equal(suite.T(), uint(2), reloaded.Revision)
}

func (suite *TestSuiteStandard) TestBudgetSendGuards() {
	// A budget without items cannot be sent
	validUntil := time.Now().In(time.UTC).AddDate(0, 0, 14)
	empty := suite.createTestBudget(models.Budget{ValidUntil: &validUntil})
	assert.ErrorIs(suite.T(), empty.Send(models.DB, models.SendChannelEmail), models.ErrBudgetEmpty)

	// A budget without a validity date cannot be sent
	noDate := suite.createTestBudget(models.Budget{})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: noDate.ID, UnitPrice: decimal.NewFromInt(100)})
	assert.ErrorIs(suite.T(), noDate.Send(models.DB, models.SendChannelEmail), models.ErrValidUntilRequired)

	// A budget that already expired cannot be sent
	past := time.Now().In(time.UTC).AddDate(0, 0, -7)
	expired := suite.createTestBudget(models.Budget{ValidUntil: &past})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: expired.ID, UnitPrice: decimal.NewFromInt(100)})
	assert.ErrorIs(suite.T(), expired.Send(models.DB, models.SendChannelEmail), models.ErrValidUntilPast)

	// The channel needs to be known
	budget := suite.createTestBudget(models.Budget{ValidUntil: &validUntil})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(100)})
	assert.ErrorIs(suite.T(), budget.Send(models.DB, "telegram"), models.ErrInvalidSendChannel)
}

func (suite *TestSuiteStandard) TestBudgetApproveFromDraft() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), budget.Approve(models.DB))

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), models.BudgetStatusApproved, reloaded.Status)
}

func (suite *TestSuiteStandard) TestBudgetRejectWithReason() {
	budget := suite.createTestBudget(models.Budget{})

	require.NoError(suite.T(), budget.Reject(models.DB, "too expensive"))

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), models.BudgetStatusRejected, reloaded.Status)
	assert.Equal(suite.T(), "too expensive", reloaded.RejectionReason)
}

func (suite *TestSuiteStandard) TestBudgetClinicChangeIntegrity() {
	clinic := suite.createTestClinic(models.Clinic{})
	patient := suite.createTestPatient(models.Patient{ClinicID: clinic.ID})
	budget := suite.createTestBudget(models.Budget{ClinicID: clinic.ID, PatientID: patient.ID})

	// Moving the budget to a clinic its patient does not belong to is refused
	otherClinic := suite.createTestClinic(models.Clinic{})
	err := budget.Update(models.DB, []any{"ClinicID"}, models.Budget{ClinicID: otherClinic.ID})
	assert.ErrorIs(suite.T(), err, models.ErrPatientNotInClinic)

	// Moving clinic and patient together is allowed
	otherPatient := suite.createTestPatient(models.Patient{ClinicID: otherClinic.ID})
	require.NoError(suite.T(), models.DB.First(&budget, budget.ID).Error)
	err = budget.Update(models.DB, []any{"ClinicID", "PatientID"}, models.Budget{ClinicID: otherClinic.ID, PatientID: otherPatient.ID})
	require.NoError(suite.T(), err)

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), otherClinic.ID, reloaded.ClinicID)
	assert.Equal(suite.T(), otherPatient.ID, reloaded.PatientID)
}

func (suite *TestSuiteStandard) TestBudgetClinicLockedWhenTerminal() {
	budget := suite.createTestBudget(models.Budget{})
	require.NoError(suite.T(), budget.Approve(models.DB))

	otherClinic := suite.createTestClinic(models.Clinic{})

	var approved models.Budget
	require.NoError(suite.T(), models.DB.First(&approved, budget.ID).Error)

	err := approved.Update(models.DB, []any{"ClinicID"}, models.Budget{ClinicID: otherClinic.ID})
	assert.ErrorIs(suite.T(), err, models.ErrBudgetLocked)
}

func (suite *TestSuiteStandard) TestBudgetTerminalIsFinal() {
	budget := suite.createTestBudget(models.Budget{})
	require.NoError(suite.T(), budget.Approve(models.DB))

	var approved models.Budget
	require.NoError(suite.T(), models.DB.First(&approved, budget.ID).Error)

	assert.ErrorIs(suite.T(), approved.Approve(models.DB), models.ErrInvalidTransition)
	assert.ErrorIs(suite.T(), approved.Reject(models.DB, ""), models.ErrInvalidTransition)
	assert.ErrorIs(suite.T(), approved.Send(models.DB, models.SendChannelEmail), models.ErrInvalidTransition)
}

func (suite *TestSuiteStandard) TestBudgetLockedAfterApproval() {
	budget := suite.createTestBudget(models.Budget{})
	item := suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(100)})

	require.NoError(suite.T(), models.DB.First(&budget, budget.ID).Error)
	require.NoError(suite.T(), budget.Approve(models.DB))

	var approved models.Budget
	require.NoError(suite.T(), models.DB.First(&approved, budget.ID).Error)

	// Discount changes are locked
	err := approved.Update(models.DB, []any{"DiscountValue"}, models.Budget{DiscountValue: decimal.NewFromInt(10)})
	assert.ErrorIs(suite.T(), err, models.ErrBudgetLocked)

	// New items are locked
	newItem := models.BudgetItem{BudgetID: budget.ID, Name: "Extra", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}
	assert.ErrorIs(suite.T(), models.DB.Create(&newItem).Error, models.ErrBudgetLocked)

	// Changing existing items is locked
	err = models.DB.Model(&item).Select("", "Quantity").Updates(models.BudgetItem{Quantity: 5}).Error
	assert.ErrorIs(suite.T(), err, models.ErrBudgetLocked)

	// Removing items is locked
	assert.ErrorIs(suite.T(), models.DB.Delete(&item).Error, models.ErrBudgetLocked)

	// The item count is unchanged
	items, err := approved.LineItems(models.DB)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 1)
}

func (suite *TestSuiteStandard) TestBudgetDeleteLockedWhenTerminal() {
	budget := suite.createTestBudget(models.Budget{})
	require.NoError(suite.T(), budget.Reject(models.DB, ""))

	var rejected models.Budget
	require.NoError(suite.T(), models.DB.First(&rejected, budget.ID).Error)

	assert.ErrorIs(suite.T(), models.DB.Delete(&rejected).Error, models.ErrBudgetLocked)
}

func (suite *TestSuiteStandard) TestBudgetDeleteRemovesItems() {
	budget := suite.createTestBudget(models.Budget{})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(100)})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(200)})

	require.NoError(suite.T(), models.DB.Delete(&budget).Error)

	var count int64
	require.NoError(suite.T(), models.DB.Model(&models.BudgetItem{}).Where("budget_id = ?", budget.ID).Count(&count).Error)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TestSuiteStandard) TestBudgetConcurrentModification() {
	budget := suite.createTestBudget(models.Budget{})

	// Two clients load the same budget
	var first, second models.Budget
	require.NoError(suite.T(), models.DB.First(&first, budget.ID).Error)
	require.NoError(suite.T(), models.DB.First(&second, budget.ID).Error)

	// The first write wins
	require.NoError(suite.T(), first.Update(models.DB, []any{"Note"}, models.Budget{Note: "first"}))

	// The second write is rejected
	err := second.Update(models.DB, []any{"Note"}, models.Budget{Note: "second"})
	assert.ErrorIs(suite.T(), err, models.ErrConcurrentModification)

	// After reloading, the change can be applied
	require.NoError(suite.T(), models.DB.First(&second, budget.ID).Error)
	require.NoError(suite.T(), second.Update(models.DB, []any{"Note"}, models.Budget{Note: "second"}))

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), "second", reloaded.Note)
	assert.Equal(suite.T(), uint(2), reloaded.Revision)
}

func (suite *TestSuiteStandard) TestBudgetItemChangesBumpRevision() {
	budget := suite.createTestBudget(models.Budget{})
	item := suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, UnitPrice: decimal.NewFromInt(100)})

	var reloaded models.Budget
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), uint(1), reloaded.Revision)

	// A client that loaded the budget before the item was added is rejected
	err := budget.Update(models.DB, []any{"Note"}, models.Budget{Note: "cheaper filling"})
	assert.ErrorIs(suite.T(), err, models.ErrConcurrentModification)

	// Changing the item bumps the revision again
	require.NoError(suite.T(), models.DB.Model(&item).Select("", "Quantity").Updates(models.BudgetItem{Quantity: 2}).Error)
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), uint(2), reloaded.Revision)

	// So does removing it
	require.NoError(suite.T(), models.DB.Delete(&item).Error)
	require.NoError(suite.T(), models.DB.First(&reloaded, budget.ID).Error)
	assert.Equal(suite.T(), uint(3), reloaded.Revision)
}

func (suite *TestSuiteStandard) TestBudgetBreakdown() {
	budget := suite.createTestBudget(models.Budget{
		DiscountKind:     money.DiscountPercentage,
		DiscountValue:    decimal.NewFromInt(10),
		InstallmentCount: 3,
	})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(800)})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(200)})

	breakdown, err := budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), breakdown.Subtotal.Equal(decimal.NewFromInt(1200)), "Subtotal is %s", breakdown.Subtotal)
	assert.True(suite.T(), breakdown.DiscountAmount.Equal(decimal.NewFromInt(120)), "DiscountAmount is %s", breakdown.DiscountAmount)
	assert.True(suite.T(), breakdown.FinalTotal.Equal(decimal.NewFromInt(1080)), "FinalTotal is %s", breakdown.FinalTotal)
	assert.Equal(suite.T(), "360.00", breakdown.InstallmentValue.StringFixed(2))
}

func (suite *TestSuiteStandard) TestBudgetBreakdownFixedDiscountClamped() {
	budget := suite.createTestBudget(models.Budget{
		DiscountKind:  money.DiscountFixed,
		DiscountValue: decimal.NewFromInt(1500),
	})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(800)})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(200)})

	breakdown, err := budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), breakdown.DiscountAmount.Equal(decimal.NewFromInt(1200)), "DiscountAmount is %s", breakdown.DiscountAmount)
	assert.True(suite.T(), breakdown.FinalTotal.IsZero(), "FinalTotal is %s", breakdown.FinalTotal)
}

// TestBudgetBreakdownIdempotent verifies that reading the breakdown twice
// without intervening changes yields identical values.
func (suite *TestSuiteStandard) TestBudgetBreakdownIdempotent() {
	budget := suite.createTestBudget(models.Budget{
		DiscountKind:  money.DiscountPercentage,
		DiscountValue: decimal.NewFromFloat(7.5),
	})
	_ = suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 3, UnitPrice: decimal.NewFromFloat(133.33)})

	first, err := budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)

	second, err := budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first, second)
}

// TestBudgetBreakdownFollowsItems verifies that mutating items is
// immediately visible in the breakdown without any explicit refresh.
func (suite *TestSuiteStandard) TestBudgetBreakdownFollowsItems() {
	budget := suite.createTestBudget(models.Budget{})
	item := suite.createTestBudgetItem(models.BudgetItem{BudgetID: budget.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(100)})

	breakdown, err := budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), breakdown.Subtotal.Equal(decimal.NewFromInt(100)))

	require.NoError(suite.T(), models.DB.Model(&item).Select("", "Quantity").Updates(models.BudgetItem{Quantity: 4}).Error)

	breakdown, err = budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), breakdown.Subtotal.Equal(decimal.NewFromInt(400)), "Subtotal is %s", breakdown.Subtotal)

	require.NoError(suite.T(), models.DB.Delete(&item).Error)

	breakdown, err = budget.Breakdown(models.DB)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), breakdown.Subtotal.IsZero())
}

func (suite *TestSuiteStandard) TestBudgetStatusCanTransitionTo() {
	tests := []struct {
		from    models.BudgetStatus
		to      models.BudgetStatus
		allowed bool
	}{
		{models.BudgetStatusDraft, models.BudgetStatusSent, true},
		{models.BudgetStatusDraft, models.BudgetStatusApproved, true},
		{models.BudgetStatusDraft, models.BudgetStatusRejected, true},
		{models.BudgetStatusSent, models.BudgetStatusApproved, true},
		{models.BudgetStatusSent, models.BudgetStatusRejected, true},
		{models.BudgetStatusSent, models.BudgetStatusDraft, false},
		{models.BudgetStatusApproved, models.BudgetStatusDraft, false},
		{models.BudgetStatusApproved, models.BudgetStatusSent, false},
		{models.BudgetStatusApproved, models.BudgetStatusRejected, false},
		{models.BudgetStatusRejected, models.BudgetStatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(suite.T(), tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
