package checkout

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

// Field identifies a checkout form field.
type Field string

const (
	FieldFirstName     Field = "firstName"
	FieldLastName      Field = "lastName"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldAddress       Field = "address"
	FieldCity          Field = "city"
	FieldState         Field = "state"
	FieldZip           Field = "zip"
	FieldCountry       Field = "country"
	FieldPaymentMethod Field = "paymentMethod"
	FieldCardName      Field = "cardName"
	FieldCardNumber    Field = "cardNumber"
	FieldExpiration    Field = "expiration"
	FieldCVV           Field = "cvv"
	FieldPaymentProof  Field = "paymentProof"
)

// FieldErrors maps each invalid field to a localized message. Empty means valid.
type FieldErrors map[Field]string

var (
	emailPattern      = regexp.MustCompile(`\S+@\S+\.\S+`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	expirationPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

type message int

const (
	msgRequired message = iota
	msgInvalidEmail
	msgInvalidCardNumber
	msgInvalidExpiration
	msgInvalidCVV
	msgProofRequired
	msgUnknownMethod
)

var messages = map[message]i18n.Text{
	msgRequired:          {En: "This field is required", Es: "Este campo es requerido"},
	msgInvalidEmail:      {En: "Invalid email format", Es: "Formato de correo electrónico inválido"},
	msgInvalidCardNumber: {En: "Card number must have 16 digits", Es: "El número de tarjeta debe tener 16 dígitos"},
	msgInvalidExpiration: {En: "Expiration must be MM/YY", Es: "La fecha de vencimiento debe ser MM/AA"},
	msgInvalidCVV:        {En: "CVV must have 3 or 4 digits", Es: "El CVV debe tener 3 o 4 dígitos"},
	msgProofRequired:     {En: "Please upload your proof of payment", Es: "Por favor sube tu comprobante de pago"},
	msgUnknownMethod:     {En: "Select a valid payment method", Es: "Selecciona un método de pago válido"},
}

// Validator checks shipping and payment details against the payment directory.
type Validator struct {
	methods *payment.Directory
}

func NewValidator(methods *payment.Directory) *Validator {
	return &Validator{methods: methods}
}

// Validate runs every applicable rule and returns all failures at once.
// proofAttached reports whether a proof of payment upload accompanies the request.
func (v *Validator) Validate(shipping domain.ShippingInfo, info payment.Info, proofAttached bool, lang i18n.Language) FieldErrors {
	errs := FieldErrors{}
	add := func(f Field, m message) { errs[f] = messages[m].In(lang) }

	required := []struct {
		field Field
		value string
	}{
		{FieldFirstName, shipping.FirstName},
		{FieldLastName, shipping.LastName},
		{FieldEmail, shipping.Email},
		{FieldPhone, shipping.Phone},
		{FieldAddress, shipping.Address},
		{FieldCity, shipping.City},
		{FieldState, shipping.State},
		{FieldZip, shipping.Zip},
		{FieldCountry, shipping.Country},
	}
	for _, r := range required {
		if blank(r.value) {
			add(r.field, msgRequired)
		}
	}
	if !blank(shipping.Email) && !emailPattern.MatchString(shipping.Email) {
		add(FieldEmail, msgInvalidEmail)
	}

	method, ok := v.methods.Lookup(info.Method)
	if !ok {
		add(FieldPaymentMethod, msgUnknownMethod)
		return errs
	}
	if method.RequiresProof && !proofAttached {
		add(FieldPaymentProof, msgProofRequired)
	}

	if info.Method == payment.CreditCard {
		if blank(info.CardName) {
			add(FieldCardName, msgRequired)
		}
		switch {
		case blank(info.CardNumber):
			add(FieldCardNumber, msgRequired)
		case !cardNumberPattern.MatchString(stripSpaces(info.CardNumber)):
			add(FieldCardNumber, msgInvalidCardNumber)
		}
		switch {
		case blank(info.Expiration):
			add(FieldExpiration, msgRequired)
		case !expirationPattern.MatchString(info.Expiration):
			add(FieldExpiration, msgInvalidExpiration)
		}
		switch {
		case blank(info.CVV):
			add(FieldCVV, msgRequired)
		case !cvvPattern.MatchString(info.CVV):
			add(FieldCVV, msgInvalidCVV)
		}
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
