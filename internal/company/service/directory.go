package service

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/andeslabs/facturador/internal/company/domain"
	"github.com/andeslabs/facturador/internal/config"
)

//go:embed companies.yaml
var defaultDirectory []byte

// Directory resolves operator companies by name or contract number. The
// built-in directory ships with the binary; deployments can point
// company.directory_file at their own YAML to replace it.
type Directory interface {
	ByName(name string) (domain.Company, error)
	ByContract(contract string) (domain.Company, error)
	List() []domain.Company
}

type directory struct {
	companies []domain.Company
	logger    *zap.Logger
}

func NewDirectory(cfg *config.Config, logger *zap.Logger) (Directory, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path := cfg.Company.DirectoryFile; path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read company directory %s: %w", path, err)
		}
	} else if err := v.ReadConfig(bytes.NewReader(defaultDirectory)); err != nil {
		return nil, fmt.Errorf("read built-in company directory: %w", err)
	}

	var payload struct {
		Companies []domain.Company `mapstructure:"companies"`
	}
	if err := v.Unmarshal(&payload); err != nil {
		return nil, fmt.Errorf("unmarshal company directory: %w", err)
	}
	if len(payload.Companies) == 0 {
		return nil, fmt.Errorf("company directory is empty")
	}

	logger = logger.Named("company.directory")
	logger.Info("company directory loaded", zap.Int("companies", len(payload.Companies)))
	return &directory{companies: payload.Companies, logger: logger}, nil
}

func (d *directory) ByName(name string) (domain.Company, error) {
	wanted := strings.TrimSpace(name)
	for _, c := range d.companies {
		if strings.EqualFold(c.Name, wanted) {
			return c, nil
		}
	}
	return domain.Company{}, fmt.Errorf("%w: %s", domain.ErrUnknownCompany, name)
}

func (d *directory) ByContract(contract string) (domain.Company, error) {
	wanted := strings.TrimSpace(contract)
	for _, c := range d.companies {
		if c.HasContract(wanted) {
			return c, nil
		}
	}
	return domain.Company{}, fmt.Errorf("%w: contract %s", domain.ErrUnknownCompany, contract)
}

func (d *directory) List() []domain.Company {
	out := make([]domain.Company, len(d.companies))
	copy(out, d.companies)
	return out
}
