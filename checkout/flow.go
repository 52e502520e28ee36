// Package checkout drives a shopper from cart review through shipping
// capture and payment selection to order submission. One linear flow is held
// per user; every network step runs strictly sequentially within it.
package checkout

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// Stage is the flow position. Forward transitions are guarded; backward
// transitions are free and keep previously entered values.
type Stage string

const (
	StageCart     Stage = "cart"
	StageShipping Stage = "shipping"
	StagePayment  Stage = "payment"
)

var (
	ErrNotAuthenticated = errors.New("checkout: not authenticated")
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrWrongStage       = errors.New("checkout: operation not valid in current stage")
	ErrSubmitInFlight   = errors.New("checkout: a submission is already in progress")
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// ShippingForm is the delivery block captured between cart and payment.
type ShippingForm struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Note     string `json:"note"`
}

// FieldErrors maps form field names to validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid shipping form: " + strings.Join(parts, "; ")
}

// Validate applies the shipping form rules: full name and address required,
// phone exactly 10 digits, note free-form.
func (f ShippingForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "full name is required"
	}
	if !phonePattern.MatchString(f.Phone) {
		errs["phone"] = "phone must be exactly 10 digits"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "address is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Flow is one shopper's checkout position plus the form values entered so
// far. All mutation goes through Manager, which owns the locking around
// network steps; Flow only guards its own fields.
type Flow struct {
	mu         sync.Mutex
	stage      Stage
	shipping   ShippingForm
	submitting bool
}

func newFlow() *Flow {
	return &Flow{stage: StageCart}
}

// State is a snapshot of the flow for rendering.
type State struct {
	Stage    Stage        `json:"stage"`
	Shipping ShippingForm `json:"shipping"`
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{Stage: f.stage, Shipping: f.shipping}
}

// SubmitShipping validates the form and advances shipping -> payment.
// Invalid input leaves the stage unchanged and reports per-field errors.
func (f *Flow) SubmitShipping(form ShippingForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageShipping {
		return ErrWrongStage
	}
	if errs := form.Validate(); errs != nil {
		return errs
	}
	f.shipping = form
	f.stage = StagePayment
	return nil
}

// Back steps the flow one stage toward the cart. It is unguarded and keeps
// the entered shipping values for when the shopper returns.
func (f *Flow) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.stage {
	case StagePayment:
		f.stage = StageShipping
	case StageShipping:
		f.stage = StageCart
	}
}

func (f *Flow) advanceToShipping(prefill ShippingForm) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shipping.FullName == "" && f.shipping.Phone == "" {
		f.shipping.FullName = prefill.FullName
		f.shipping.Phone = prefill.Phone
	}
	f.stage = StageShipping
}

func (f *Flow) stageIs(s Stage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage == s
}

// beginSubmit flips the re-entrancy guard; a second submission while one is
// outstanding is refused at this layer, not by the store.
func (f *Flow) beginSubmit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StagePayment {
		return ErrWrongStage
	}
	if f.submitting {
		return ErrSubmitInFlight
	}
	f.submitting = true
	return nil
}

func (f *Flow) endSubmit(succeeded bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if succeeded {
		f.stage = StageCart
		f.shipping = ShippingForm{}
	}
}
