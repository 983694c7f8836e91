package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Procedure is a catalog entry for a treatment the clinic offers. The price
// is the clinic's list price and is copied into budget items when they are
// created, so later catalog changes never alter existing budgets.
type Procedure struct {
	DefaultModel
	Clinic      Clinic `json:"-"`
	ClinicID    uuid.UUID `gorm:"uniqueIndex:procedure_name_clinic"`
	Name        string    `gorm:"uniqueIndex:procedure_name_clinic"`
	Description string
	Price       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived    bool
}

var ErrProcedureNameRequired = errors.New("a procedure needs a name")

func (p *Procedure) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)

	return nil
}

func (p *Procedure) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Procedure)
	if strings.TrimSpace(toSave.Name) == "" {
		return ErrProcedureNameRequired
	}

	if toSave.Price.IsNegative() {
		return ErrInvalidPrice
	}

	return p.checkIntegrity(tx, *toSave)
}

func (p *Procedure) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Procedure)

	if tx.Statement.Changed("Name") && strings.TrimSpace(toSave.Name) == "" {
		return ErrProcedureNameRequired
	}

	if tx.Statement.Changed("Price") && toSave.Price.IsNegative() {
		return ErrInvalidPrice
	}

	if tx.Statement.Changed("ClinicID") {
		err := p.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the clinic the procedure references exists.
func (p *Procedure) checkIntegrity(tx *gorm.DB, toSave Procedure) error {
	return tx.First(&Clinic{}, toSave.ClinicID).Error
}

// Export returns all procedures on this instance for export
func (Procedure) Export() (json.RawMessage, error) {
	var procedures []Procedure
	err := DB.Unscoped().Where(&Procedure{}).Find(&procedures).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&procedures)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
