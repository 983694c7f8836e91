package models

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a person treated at a clinic. Budgets reference patients by ID
// only, they never copy patient data.
type Patient struct {
	DefaultModel
	Clinic   Clinic `json:"-"`
	ClinicID uuid.UUID
	Name     string
	Phone    string
	Email    string
	Note     string
}

var ErrPatientNameRequired = errors.New("a patient needs a name")

func (p *Patient) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Note = strings.TrimSpace(p.Note)

	return nil
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	_ = p.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Patient)
	if strings.TrimSpace(toSave.Name) == "" {
		return ErrPatientNameRequired
	}

	return p.checkIntegrity(tx, *toSave)
}

func (p *Patient) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Patient)

	if tx.Statement.Changed("Name") && strings.TrimSpace(toSave.Name) == "" {
		return ErrPatientNameRequired
	}

	if tx.Statement.Changed("ClinicID") {
		err := p.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the clinic the patient references exists.
func (p *Patient) checkIntegrity(tx *gorm.DB, toSave Patient) error {
	return tx.First(&Clinic{}, toSave.ClinicID).Error
}

// Export returns all patients on this instance for export
func (Patient) Export() (json.RawMessage, error) {
	var patients []Patient
	err := DB.Unscoped().Where(&Patient{}).Find(&patients).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&patients)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
