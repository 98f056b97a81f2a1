package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/config"
)

func TestDirectoryBuiltIn(t *testing.T) {
	dir, err := NewDirectory(&config.Config{}, zap.NewNop())
	require.NoError(t, err)

	company, err := dir.ByName("acertar empresarial sas")
	require.NoError(t, err, "name lookup is case-insensitive")
	assert.Equal(t, "901.008.683-5", company.TaxID)
	assert.True(t, company.HasContract("C1914"))

	byContract, err := dir.ByContract("C2099")
	require.NoError(t, err)
	assert.Equal(t, "ODESSA SAS", byContract.Name)

	_, err = dir.ByName("NO EXISTE")
	assert.ErrorIs(t, err, domain.ErrUnknownCompany)

	assert.NotEmpty(t, dir.List())
}

func TestDirectoryOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.yaml")
	override := `companies:
  - name: "OPERADOR PRUEBA"
    nit: "900.000.000-1"
    contracts: ["C0001"]
`
	require.NoError(t, os.WriteFile(path, []byte(override), 0o644))

	cfg := &config.Config{}
	cfg.Company.DirectoryFile = path

	dir, err := NewDirectory(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, dir.List(), 1)

	company, err := dir.ByContract("C0001")
	require.NoError(t, err)
	assert.Equal(t, "OPERADOR PRUEBA", company.Name)
}
