package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/aurora-storefront/internal/i18n"
)

func TestDefaultDirectory_CoversEveryMethod(t *testing.T) {
	d := DefaultDirectory()

	require.Len(t, d.All(), len(MethodTypes()))
	for _, mt := range MethodTypes() {
		info, ok := d.Lookup(mt)
		require.True(t, ok, mt)
		assert.NotEmpty(t, info.Name.En, mt)
		assert.NotEmpty(t, info.Name.Es, mt)
		assert.NotEmpty(t, info.Instructions.In(i18n.Spanish), mt)
	}
}

func TestDefaultDirectory_ProofRequirements(t *testing.T) {
	d := DefaultDirectory()

	want := map[MethodType]bool{
		CreditCard:        false,
		BankTransfer:      true,
		Crypto:            true,
		Zelle:             true,
		PagoMovil:         true,
		Binance:           true,
		BolivaresCash:     false,
		USDCash:           false,
		BolivaresTransfer: true,
	}
	for mt, requires := range want {
		info, _ := d.Lookup(mt)
		assert.Equal(t, requires, info.RequiresProof, mt)
	}

	zelle, _ := d.Lookup(Zelle)
	assert.Equal(t, "email@store.com", zelle.AccountInfo)
}

func TestLoadDirectory_Errors(t *testing.T) {
	_, err := LoadDirectory([]byte(`methods: [{type: paypal}]`))
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = LoadDirectory([]byte(`methods: [{type: zelle}, {type: zelle}]`))
	assert.Error(t, err)

	_, err = LoadDirectory([]byte(`methods: {`))
	assert.Error(t, err)
}

func TestDirectory_LookupUnknown(t *testing.T) {
	d, err := NewDirectory([]MethodInfo{{Type: Zelle, RequiresProof: true}})
	require.NoError(t, err)

	_, ok := d.Lookup(CreditCard)
	assert.False(t, ok)
}
