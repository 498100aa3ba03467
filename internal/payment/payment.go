// Package payment is the static directory of accepted payment methods and the
// payment details a customer submits at checkout.
package payment

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/aurora-storefront/internal/i18n"
)

var ErrUnknownMethod = errors.New("unknown payment method")

// MethodType identifies a payment method.
type MethodType string

const (
	CreditCard        MethodType = "creditCard"
	BankTransfer      MethodType = "bankTransfer"
	Crypto            MethodType = "crypto"
	Zelle             MethodType = "zelle"
	PagoMovil         MethodType = "pagoMovil"
	Binance           MethodType = "binance"
	BolivaresCash     MethodType = "bolivaresCash"
	USDCash           MethodType = "usdCash"
	BolivaresTransfer MethodType = "bolivaresTransfer"
)

// MethodTypes returns every known method type.
func MethodTypes() []MethodType {
	return []MethodType{
		CreditCard, BankTransfer, Crypto, Zelle, PagoMovil,
		Binance, BolivaresCash, USDCash, BolivaresTransfer,
	}
}

// Valid reports whether t is a known method type.
func (t MethodType) Valid() bool {
	for _, known := range MethodTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// MethodInfo describes how a method is presented and whether it needs a proof
// of payment upload.
type MethodInfo struct {
	Type          MethodType `json:"type" yaml:"type"`
	Name          i18n.Text  `json:"name" yaml:"name"`
	Instructions  i18n.Text  `json:"instructions" yaml:"instructions"`
	AccountInfo   string     `json:"account_info,omitempty" yaml:"account_info"`
	RequiresProof bool       `json:"requires_proof" yaml:"requires_proof"`
}

// Info is the payment data submitted with an order.
type Info struct {
	Method        MethodType `json:"method"`
	CardName      string     `json:"card_name,omitempty"`
	CardNumber    string     `json:"card_number,omitempty"`
	Expiration    string     `json:"expiration,omitempty"`
	CVV           string     `json:"cvv,omitempty"`
	ProofImageURL string     `json:"proof_image_url,omitempty"`
}

// Directory is an ordered, read-only set of payment methods.
type Directory struct {
	methods []MethodInfo
	byType  map[MethodType]int
}

//go:embed methods.yaml
var defaultMethods []byte

// LoadDirectory parses a YAML method list. Types must be known and unique.
func LoadDirectory(data []byte) (*Directory, error) {
	var file struct {
		Methods []MethodInfo `yaml:"methods"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("payment: parse directory: %w", err)
	}
	return NewDirectory(file.Methods)
}

// NewDirectory builds a directory from methods.
func NewDirectory(methods []MethodInfo) (*Directory, error) {
	d := &Directory{byType: make(map[MethodType]int, len(methods))}
	for _, m := range methods {
		if !m.Type.Valid() {
			return nil, fmt.Errorf("payment: %q: %w", m.Type, ErrUnknownMethod)
		}
		if _, dup := d.byType[m.Type]; dup {
			return nil, fmt.Errorf("payment: duplicate method %q", m.Type)
		}
		d.byType[m.Type] = len(d.methods)
		d.methods = append(d.methods, m)
	}
	return d, nil
}

// DefaultDirectory returns the embedded directory. It panics if the embedded
// file is malformed, which is a build defect.
func DefaultDirectory() *Directory {
	d, err := LoadDirectory(defaultMethods)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup resolves the descriptor for t.
func (d *Directory) Lookup(t MethodType) (MethodInfo, bool) {
	i, ok := d.byType[t]
	if !ok {
		return MethodInfo{}, false
	}
	return d.methods[i], true
}

// All returns every method in directory order.
func (d *Directory) All() []MethodInfo {
	return append([]MethodInfo(nil), d.methods...)
}
