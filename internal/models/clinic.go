package models

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Clinic is one tenant of the backend. Every patient, procedure and budget
// belongs to exactly one clinic, and all list endpoints scope by it.
type Clinic struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex"`
	Note     string
	Currency string // ISO 4217 code used for all monetary values of the clinic
}

func (c *Clinic) BeforeSave(_ *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Note = strings.TrimSpace(c.Note)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))

	if c.Currency == "" {
		c.Currency = "BRL"
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		return ErrClinicCurrencyInvalid
	}

	return nil
}

func (c *Clinic) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Clinic)

	if tx.Statement.Changed("Currency") {
		code := strings.ToUpper(strings.TrimSpace(toSave.Currency))
		if _, err := currency.ParseISO(code); err != nil {
			return ErrClinicCurrencyInvalid
		}

		tx.Statement.SetColumn("Currency", code)
	}

	return nil
}

// Export returns all clinics on this instance for export
func (Clinic) Export() (json.RawMessage, error) {
	var clinics []Clinic
	err := DB.Unscoped().Where(&Clinic{}).Find(&clinics).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&clinics)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
