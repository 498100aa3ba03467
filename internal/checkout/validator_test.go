package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/aurora-storefront/internal/i18n"
	"github.com/jcmexdev/aurora-storefront/internal/order/domain"
	"github.com/jcmexdev/aurora-storefront/internal/payment"
)

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com", Phone: "+58 412 0000000",
		Address: "Av. Libertador 1", City: "Caracas", State: "Distrito Capital", Zip: "1050", Country: "Venezuela",
	}
}

func validCard() payment.Info {
	return payment.Info{
		Method:     payment.CreditCard,
		CardName:   "Ana Perez",
		CardNumber: "4111 1111 1111 1111",
		Expiration: "07/26",
		CVV:        "123",
	}
}

func newTestValidator() *Validator {
	return NewValidator(payment.DefaultDirectory())
}

func TestValidate_Valid(t *testing.T) {
	v := newTestValidator()
	assert.Empty(t, v.Validate(validShipping(), validCard(), false, i18n.English))
	assert.Empty(t, v.Validate(validShipping(), payment.Info{Method: payment.USDCash}, false, i18n.English))
}

func TestValidate_EachShippingFieldIsRequired(t *testing.T) {
	v := newTestValidator()
	clearers := map[Field]func(*domain.ShippingInfo){
		FieldFirstName: func(s *domain.ShippingInfo) { s.FirstName = "" },
		FieldLastName:  func(s *domain.ShippingInfo) { s.LastName = "  " },
		FieldEmail:     func(s *domain.ShippingInfo) { s.Email = "" },
		FieldPhone:     func(s *domain.ShippingInfo) { s.Phone = "" },
		FieldAddress:   func(s *domain.ShippingInfo) { s.Address = "\t" },
		FieldCity:      func(s *domain.ShippingInfo) { s.City = "" },
		FieldState:     func(s *domain.ShippingInfo) { s.State = "" },
		FieldZip:       func(s *domain.ShippingInfo) { s.Zip = "" },
		FieldCountry:   func(s *domain.ShippingInfo) { s.Country = "" },
	}
	for field, clear := range clearers {
		t.Run(string(field), func(t *testing.T) {
			shipping := validShipping()
			clear(&shipping)

			errs := v.Validate(shipping, validCard(), false, i18n.English)
			require.Len(t, errs, 1)
			assert.Equal(t, "This field is required", errs[field])
		})
	}
}

func TestValidate_Email(t *testing.T) {
	v := newTestValidator()
	for _, email := range []string{"plainaddress", "a@b", "@example.com", "user@.com"} {
		shipping := validShipping()
		shipping.Email = email
		errs := v.Validate(shipping, validCard(), false, i18n.English)
		assert.Contains(t, errs, FieldEmail, email)
	}

	shipping := validShipping()
	shipping.Email = "first.last+tag@mail.example.co"
	assert.Empty(t, v.Validate(shipping, validCard(), false, i18n.English))
}

func TestValidate_CreditCard(t *testing.T) {
	v := newTestValidator()
	tests := []struct {
		name  string
		edit  func(*payment.Info)
		field Field
		ok    bool
	}{
		{name: "spaced number", edit: func(p *payment.Info) { p.CardNumber = "4111 1111 1111 1111" }, ok: true},
		{name: "plain number", edit: func(p *payment.Info) { p.CardNumber = "4111111111111111" }, ok: true},
		{name: "short number", edit: func(p *payment.Info) { p.CardNumber = "1234" }, field: FieldCardNumber},
		{name: "letters in number", edit: func(p *payment.Info) { p.CardNumber = "4111 1111 1111 111a" }, field: FieldCardNumber},
		{name: "missing number", edit: func(p *payment.Info) { p.CardNumber = "" }, field: FieldCardNumber},
		{name: "missing name", edit: func(p *payment.Info) { p.CardName = " " }, field: FieldCardName},
		{name: "expiration", edit: func(p *payment.Info) { p.Expiration = "07/26" }, ok: true},
		{name: "expiration without calendar check", edit: func(p *payment.Info) { p.Expiration = "13/99" }, ok: true},
		{name: "short month", edit: func(p *payment.Info) { p.Expiration = "7/26" }, field: FieldExpiration},
		{name: "missing expiration", edit: func(p *payment.Info) { p.Expiration = "" }, field: FieldExpiration},
		{name: "cvv 3", edit: func(p *payment.Info) { p.CVV = "123" }, ok: true},
		{name: "cvv 4", edit: func(p *payment.Info) { p.CVV = "1234" }, ok: true},
		{name: "cvv 2", edit: func(p *payment.Info) { p.CVV = "12" }, field: FieldCVV},
		{name: "cvv 5", edit: func(p *payment.Info) { p.CVV = "12345" }, field: FieldCVV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validCard()
			tt.edit(&info)
			errs := v.Validate(validShipping(), info, false, i18n.English)
			if tt.ok {
				assert.Empty(t, errs)
				return
			}
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidate_CardFieldsIgnoredForOtherMethods(t *testing.T) {
	v := newTestValidator()
	info := payment.Info{Method: payment.BolivaresCash, CardNumber: "1234", CVV: "1"}
	assert.Empty(t, v.Validate(validShipping(), info, false, i18n.English))
}

func TestValidate_ProofRequired(t *testing.T) {
	v := newTestValidator()
	for _, m := range payment.DefaultDirectory().All() {
		t.Run(string(m.Type), func(t *testing.T) {
			info := payment.Info{Method: m.Type}
			if m.Type == payment.CreditCard {
				info = validCard()
			}

			without := v.Validate(validShipping(), info, false, i18n.English)
			with := v.Validate(validShipping(), info, true, i18n.English)
			if m.RequiresProof {
				assert.Contains(t, without, FieldPaymentProof)
			} else {
				assert.NotContains(t, without, FieldPaymentProof)
			}
			assert.Empty(t, with)
		})
	}
}

func TestValidate_UnknownMethod(t *testing.T) {
	errs := newTestValidator().Validate(validShipping(), payment.Info{Method: "cheque"}, true, i18n.English)
	assert.Contains(t, errs, FieldPaymentMethod)
}

func TestValidate_CollectsEveryError(t *testing.T) {
	info := validCard()
	info.CardNumber = "1"
	info.CVV = ""

	errs := newTestValidator().Validate(domain.ShippingInfo{Email: "nope"}, info, false, i18n.Spanish)
	assert.Len(t, errs, 11)
	assert.Equal(t, "Este campo es requerido", errs[FieldFirstName])
	assert.Equal(t, "Formato de correo electrónico inválido", errs[FieldEmail])
	assert.Equal(t, "El número de tarjeta debe tener 16 dígitos", errs[FieldCardNumber])
	assert.Equal(t, "Este campo es requerido", errs[FieldCVV])
}
