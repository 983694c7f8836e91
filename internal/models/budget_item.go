package models

import (
	"encoding/json"
	"strings"

	"github.com/dentora/backend/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetItem is one procedure entry within a budget.
//
// The line total is not a field, see LineTotal. The name, description and
// unit price are copies taken when the item is created: the catalog can
// change without altering quoted budgets.
type BudgetItem struct {
	DefaultModel
	Budget      Budget `json:"-"`
	BudgetID    uuid.UUID
	Procedure   Procedure `json:"-"`
	ProcedureID *uuid.UUID // Catalog entry the item was created from, if any
	Name        string
	Description string
	Quantity    int64           `gorm:"default:1"`
	UnitPrice   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// LineTotal is quantity × unit price. It is computed on every call, never
// stored, so it cannot diverge from its inputs.
func (i BudgetItem) LineTotal() decimal.Decimal {
	return money.Line{Quantity: i.Quantity, UnitPrice: i.UnitPrice}.Total()
}

func (i *BudgetItem) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Description = strings.TrimSpace(i.Description)

	// The description defaults to the procedure name
	if i.Description == "" {
		i.Description = i.Name
	}

	// Ensure that the Procedure ID is nil and not a pointer to a nil UUID
	// when it is not set
	if i.ProcedureID != nil && *i.ProcedureID == uuid.Nil {
		i.ProcedureID = nil
	}

	return nil
}

func (i *BudgetItem) BeforeCreate(tx *gorm.DB) error {
	_ = i.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*BudgetItem)

	if strings.TrimSpace(toSave.Name) == "" {
		return ErrItemNameRequired
	}

	if toSave.Quantity < 1 {
		return ErrInvalidQuantity
	}

	if toSave.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	return i.checkBudget(tx, toSave.BudgetID)
}

func (i *BudgetItem) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(BudgetItem)

	if tx.Statement.Changed("Name") && strings.TrimSpace(toSave.Name) == "" {
		return ErrItemNameRequired
	}

	if tx.Statement.Changed("Quantity") && toSave.Quantity < 1 {
		return ErrInvalidQuantity
	}

	if tx.Statement.Changed("UnitPrice") && toSave.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}

	return i.checkBudget(tx, i.BudgetID)
}

// BeforeDelete refuses to remove items from budgets that can no longer be
// edited.
func (i *BudgetItem) BeforeDelete(tx *gorm.DB) error {
	return i.checkBudget(tx, i.BudgetID)
}

// AfterCreate bumps the owning budget's revision. Adding, changing or
// removing an item is a modification of the budget, so editors doing
// compare-and-swap on the revision they read get rejected after item churn.
func (i *BudgetItem) AfterCreate(tx *gorm.DB) error {
	return i.touchBudget(tx)
}

func (i *BudgetItem) AfterUpdate(tx *gorm.DB) error {
	return i.touchBudget(tx)
}

func (i *BudgetItem) AfterDelete(tx *gorm.DB) error {
	return i.touchBudget(tx)
}

// touchBudget increments the revision of the budget the item belongs to.
// The budget hooks are skipped: the lock and transition checks already ran
// in the item hooks, and a plain column bump is no status change.
func (i *BudgetItem) touchBudget(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&Budget{}).
		Where("id = ?", i.BudgetID).
		Update("revision", gorm.Expr("revision + 1")).Error
}

// checkBudget verifies that the budget the item belongs to exists and is
// still editable.
func (i *BudgetItem) checkBudget(tx *gorm.DB, id uuid.UUID) error {
	var budget Budget
	err := tx.First(&budget, id).Error
	if err != nil {
		return err
	}

	if budget.Status.Terminal() {
		return ErrBudgetLocked
	}

	return nil
}

// Export returns all budget items on this instance for export
func (BudgetItem) Export() (json.RawMessage, error) {
	var items []BudgetItem
	err := DB.Unscoped().Where(&BudgetItem{}).Find(&items).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&items)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
