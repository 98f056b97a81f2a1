// Package domain holds the operator-company identity used on invoice
// headers and archive names.
package domain

import "errors"

var ErrUnknownCompany = errors.New("company not found in directory")

// Company is one operator the pipeline can bill for. TaxID is the
// Colombian NIT with its check digit, kept formatted as issued.
type Company struct {
	Name      string   `mapstructure:"name"`
	TaxID     string   `mapstructure:"nit"`
	Contracts []string `mapstructure:"contracts"`
}

// HasContract reports whether the contract number belongs to this company.
func (c Company) HasContract(contract string) bool {
	for _, candidate := range c.Contracts {
		if candidate == contract {
			return true
		}
	}
	return false
}
