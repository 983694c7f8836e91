package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dentora/backend/internal/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// BudgetStatus is the lifecycle status of a budget.
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusSent     BudgetStatus = "sent"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusRejected BudgetStatus = "rejected"
)

// budgetTransitions lists the allowed target statuses per status.
//
// A draft can be approved or rejected without being sent first, mirroring
// budgets that are discussed with the patient in person and never leave
// the clinic.
var budgetTransitions = map[BudgetStatus][]BudgetStatus{
	BudgetStatusDraft: {BudgetStatusSent, BudgetStatusApproved, BudgetStatusRejected},
	BudgetStatusSent:  {BudgetStatusApproved, BudgetStatusRejected},
}

// Terminal reports whether the status ends the budget's lifecycle.
func (s BudgetStatus) Terminal() bool {
	return s == BudgetStatusApproved || s == BudgetStatusRejected
}

// CanTransitionTo reports whether the status change is allowed.
func (s BudgetStatus) CanTransitionTo(target BudgetStatus) bool {
	return slices.Contains(budgetTransitions[s], target)
}

// SendChannel is the channel a budget was handed to the patient through.
// Delivery itself happens outside of the backend, callers record the channel
// here after dispatching.
type SendChannel string

const (
	SendChannelWhatsApp SendChannel = "whatsapp"
	SendChannelEmail    SendChannel = "email"
	SendChannelLink     SendChannel = "link"
)

func (c SendChannel) Valid() bool {
	return c == SendChannelWhatsApp || c == SendChannelEmail || c == SendChannelLink
}

// Budget is a price quote for a patient covering one or more procedures.
//
// Subtotal, discount amount, final total and installment value are not
// fields: they are computed from the item rows on every read, see
// Breakdown. This way no code path can forget to refresh a stored total.
type Budget struct {
	DefaultModel
	Clinic           Clinic `json:"-"`
	ClinicID         uuid.UUID
	Patient          Patient `json:"-"`
	PatientID        uuid.UUID
	Status           BudgetStatus       `gorm:"default:draft"`
	DiscountKind     money.DiscountKind `gorm:"default:percentage"`
	DiscountValue    decimal.Decimal    `gorm:"type:DECIMAL(20,8)"`
	ValidUntil       *time.Time
	InstallmentCount int64 `gorm:"default:1"`
	SentAt           *time.Time
	SentVia          SendChannel
	RejectionReason  string
	Note             string

	// Revision is bumped on every update. Writers filter on the revision
	// they loaded, so two concurrent edits can never interleave.
	Revision uint `gorm:"default:0"`

	Items []BudgetItem `json:"-"`
}

// DiscountSpec returns the budget's discount for calculations.
func (b Budget) DiscountSpec() money.DiscountSpec {
	return money.DiscountSpec{
		Kind:  b.DiscountKind,
		Value: b.DiscountValue,
	}
}

func (b *Budget) BeforeSave(_ *gorm.DB) error {
	b.Note = strings.TrimSpace(b.Note)
	b.RejectionReason = strings.TrimSpace(b.RejectionReason)

	return nil
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Budget)

	if toSave.Status == "" {
		toSave.Status = BudgetStatusDraft
	}

	if toSave.Status != BudgetStatusDraft {
		return ErrBudgetStatusOnCreate
	}

	if toSave.DiscountKind == "" {
		toSave.DiscountKind = money.DiscountPercentage
	}

	if toSave.InstallmentCount == 0 {
		toSave.InstallmentCount = 1
	}

	if toSave.InstallmentCount < 1 {
		return money.ErrInvalidInstallmentCount
	}

	err := toSave.DiscountSpec().Validate()
	if err != nil {
		return err
	}

	return b.checkIntegrity(tx, *toSave)
}

// BeforeUpdate is the single enforcement point for the budget lifecycle:
// it validates status transitions, locks terminal budgets and validates
// changed values. All updates go through it, including the ones issued by
// Send, Approve and Reject.
func (b *Budget) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Budget)

	if tx.Statement.Changed("Status") {
		if !b.Status.CanTransitionTo(toSave.Status) {
			return ErrInvalidTransition
		}

		if toSave.Status == BudgetStatusSent {
			err := b.checkSendable(tx, toSave)
			if err != nil {
				return err
			}
		}
	}

	if b.Status.Terminal() {
		if tx.Statement.Changed("DiscountKind", "DiscountValue", "InstallmentCount", "ValidUntil", "ClinicID", "PatientID", "Note", "RejectionReason") {
			return ErrBudgetLocked
		}
	}

	if tx.Statement.Changed("DiscountKind", "DiscountValue") {
		spec := b.DiscountSpec()
		if tx.Statement.Changed("DiscountKind") {
			spec.Kind = toSave.DiscountKind
		}
		if tx.Statement.Changed("DiscountValue") {
			spec.Value = toSave.DiscountValue
		}

		err := spec.Validate()
		if err != nil {
			return err
		}
	}

	if tx.Statement.Changed("InstallmentCount") && toSave.InstallmentCount < 1 {
		return money.ErrInvalidInstallmentCount
	}

	if tx.Statement.Changed("ClinicID", "PatientID") {
		if !tx.Statement.Changed("ClinicID") {
			toSave.ClinicID = b.ClinicID
		}
		if !tx.Statement.Changed("PatientID") {
			toSave.PatientID = b.PatientID
		}

		err := b.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// BeforeDelete refuses to delete budgets that reached a terminal status:
// an approved or rejected budget is part of the patient's record.
func (b *Budget) BeforeDelete(_ *gorm.DB) error {
	if b.Status.Terminal() {
		return ErrBudgetLocked
	}

	return nil
}

// AfterDelete removes the budget's items together with the budget. The item
// hooks are skipped here: they would refuse the batch delete because the
// budget itself is already gone.
func (b *Budget) AfterDelete(tx *gorm.DB) error {
	return tx.Session(&gorm.Session{SkipHooks: true}).Where("budget_id = ?", b.ID).Delete(&BudgetItem{}).Error
}

// checkIntegrity verifies that the patient exists and belongs to the
// budget's clinic.
func (b *Budget) checkIntegrity(tx *gorm.DB, toSave Budget) error {
	var patient Patient
	err := tx.First(&patient, toSave.PatientID).Error
	if err != nil {
		return err
	}

	if patient.ClinicID != toSave.ClinicID {
		return ErrPatientNotInClinic
	}

	return nil
}

// checkSendable verifies the guards for the draft → sent transition.
func (b *Budget) checkSendable(tx *gorm.DB, toSave Budget) error {
	var count int64
	err := tx.Model(&BudgetItem{}).Where("budget_id = ?", b.ID).Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return ErrBudgetEmpty
	}

	validUntil := b.ValidUntil
	if tx.Statement.Changed("ValidUntil") {
		validUntil = toSave.ValidUntil
	}

	if validUntil == nil {
		return ErrValidUntilRequired
	}

	today := time.Now().In(time.UTC).Truncate(24 * time.Hour)
	if validUntil.Before(today) {
		return ErrValidUntilPast
	}

	return nil
}

// Update applies the given fields to the budget, enforcing the optimistic
// concurrency contract: the write only happens if the budget still has the
// revision the caller loaded.
func (b *Budget) Update(db *gorm.DB, fields []any, data Budget) error {
	data.Revision = b.Revision + 1
	fields = append(fields, "Revision")

	res := db.Model(b).Where("revision = ?", b.Revision).Select("", fields...).Updates(data)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}

	return nil
}

// Send transitions the budget to sent and records the channel it was
// dispatched through. Callers invoke this after handing the budget to the
// patient, delivery is not the backend's concern.
func (b *Budget) Send(db *gorm.DB, channel SendChannel) error {
	if !channel.Valid() {
		return ErrInvalidSendChannel
	}

	if !b.Status.CanTransitionTo(BudgetStatusSent) {
		return ErrInvalidTransition
	}

	now := time.Now().In(time.UTC)
	return b.Update(db, []any{"Status", "SentAt", "SentVia"}, Budget{
		Status:  BudgetStatusSent,
		SentAt:  &now,
		SentVia: channel,
	})
}

// Approve transitions the budget to its approved terminal status.
func (b *Budget) Approve(db *gorm.DB) error {
	if !b.Status.CanTransitionTo(BudgetStatusApproved) {
		return ErrInvalidTransition
	}

	return b.Update(db, []any{"Status"}, Budget{Status: BudgetStatusApproved})
}

// Reject transitions the budget to its rejected terminal status. The reason
// is free text and stored for the record only.
func (b *Budget) Reject(db *gorm.DB, reason string) error {
	if !b.Status.CanTransitionTo(BudgetStatusRejected) {
		return ErrInvalidTransition
	}

	return b.Update(db, []any{"Status", "RejectionReason"}, Budget{
		Status:          BudgetStatusRejected,
		RejectionReason: reason,
	})
}

// LineItems returns the budget's items in insertion order, which is also
// the display order.
func (b Budget) LineItems(db *gorm.DB) ([]BudgetItem, error) {
	var items []BudgetItem
	err := db.Where(&BudgetItem{BudgetID: b.ID}).Order("created_at ASC, id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Breakdown is the computed money side of a budget.
type Breakdown struct {
	Subtotal         decimal.Decimal `json:"subtotal" example:"1200"`         // Sum of all line totals
	DiscountAmount   decimal.Decimal `json:"discountAmount" example:"120"`    // Amount the discount reduces the subtotal by
	FinalTotal       decimal.Decimal `json:"finalTotal" example:"1080"`       // Subtotal minus discount, never negative
	InstallmentValue decimal.Decimal `json:"installmentValue" example:"360"`  // Final total split into equal installments
	InstallmentCount int64           `json:"installmentCount" example:"3"`    // Number of installments
}

// Breakdown calculates subtotal, discount amount, final total and
// installment value from the current item rows. The values are always
// computed fresh, they are never stored.
//
// Rounding to two decimal places (half up) happens here since this is a
// presentation boundary.
func (b Budget) Breakdown(db *gorm.DB) (Breakdown, error) {
	items, err := b.LineItems(db)
	if err != nil {
		return Breakdown{}, err
	}

	lines := make([]money.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, money.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}

	subtotal := money.Subtotal(lines)
	discountAmount := money.DiscountAmount(subtotal, b.DiscountSpec())
	finalTotal := money.FinalTotal(subtotal, discountAmount)

	installmentValue, err := money.InstallmentValue(finalTotal, b.InstallmentCount)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		Subtotal:         subtotal.Round(2),
		DiscountAmount:   discountAmount.Round(2),
		FinalTotal:       finalTotal.Round(2),
		InstallmentValue: installmentValue.Round(2),
		InstallmentCount: b.InstallmentCount,
	}, nil
}

// Export returns all budgets on this instance for export
func (Budget) Export() (json.RawMessage, error) {
	var budgets []Budget
	err := DB.Unscoped().Where(&Budget{}).Find(&budgets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&budgets)
	if err != nil {
		return json.RawMessage{}, err
	}

	return json.RawMessage(j), nil
}
