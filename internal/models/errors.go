package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Concurrency errors. Clients resolve these by reloading the resource
	// and reapplying the change, never by retrying blindly.
	ErrConcurrentModification = errors.New("the budget was changed by someone else while you were editing it. Please reload it and apply your change again")

	// Budget workflow errors
	ErrInvalidTransition    = errors.New("this status change is not allowed")
	ErrBudgetLocked         = errors.New("this budget has been approved or rejected and can no longer be changed")
	ErrBudgetEmpty          = errors.New("a budget needs at least one item before it can be sent")
	ErrValidUntilRequired   = errors.New("the budget needs a validity date before it can be sent")
	ErrValidUntilPast       = errors.New("the validity date of the budget must not be in the past")
	ErrInvalidSendChannel   = errors.New("the send channel must be one of: whatsapp, email, link")
	ErrBudgetStatusOnCreate = errors.New("a budget always starts as a draft, the status cannot be set on creation")

	// Budget item errors
	ErrInvalidQuantity  = errors.New("the quantity of an item must be at least 1")
	ErrInvalidPrice     = errors.New("the unit price must not be negative")
	ErrItemNameRequired = errors.New("an item needs the name of the procedure it quotes")

	// Integrity errors
	ErrPatientNotInClinic     = errors.New("the patient does not belong to the specified clinic")
	ErrProcedureNotInClinic   = errors.New("the procedure does not belong to the budget's clinic")
	ErrClinicCurrencyInvalid  = errors.New("the currency must be a valid ISO 4217 code")
	ErrClinicNameNotUnique    = errors.New("the clinic name is already in use")
	ErrProcedureNameNotUnique = errors.New("the procedure name is already in use for this clinic")
)
