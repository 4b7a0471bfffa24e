package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	OracleModeManual = "manual"
	OracleModeHTTP   = "http"
)

type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	Environment   string `toml:"Environment"`

	// TokenDecimals is the precision of the locally hosted token ledger.
	// It must not exceed the oracle feed's 8 decimals or the engine will
	// refuse to construct.
	TokenDecimals uint8 `toml:"TokenDecimals"`

	// OracleMode selects the price source: "manual" serves OraclePrice
	// verbatim, "http" polls OracleURL.
	OracleMode  string `toml:"OracleMode"`
	OracleURL   string `toml:"OracleURL"`
	OraclePrice string `toml:"OraclePrice"`

	// CustodyAddress is the hex address holding staked deposits on the
	// token ledger.
	CustodyAddress string `toml:"CustodyAddress"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddress:  ":8645",
		DataDir:        "./data",
		Environment:    "local",
		TokenDecimals:  8,
		OracleMode:     OracleModeManual,
		OraclePrice:    "200000000000", // $2000.00000000 at 8 feed decimals
		CustodyAddress: "0x0000000000000000000000000000000000000101",
	}
}

// Load reads the configuration at path, writing a commented default file on
// first run.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = def.ListenAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = def.DataDir
	}
	if strings.TrimSpace(cfg.OracleMode) == "" {
		cfg.OracleMode = def.OracleMode
	}
	// A zero-decimal ledger is never intended; treat 0 as unset.
	if cfg.TokenDecimals == 0 {
		cfg.TokenDecimals = def.TokenDecimals
	}
	if strings.TrimSpace(cfg.OraclePrice) == "" {
		cfg.OraclePrice = def.OraclePrice
	}
	if strings.TrimSpace(cfg.CustodyAddress) == "" {
		cfg.CustodyAddress = def.CustodyAddress
	}
}

// Validate rejects configurations the daemon cannot start with.
func Validate(cfg *Config) error {
	switch cfg.OracleMode {
	case OracleModeManual:
		if _, ok := new(big.Int).SetString(strings.TrimSpace(cfg.OraclePrice), 10); !ok {
			return fmt.Errorf("config: OraclePrice %q is not a base-10 integer", cfg.OraclePrice)
		}
	case OracleModeHTTP:
		if strings.TrimSpace(cfg.OracleURL) == "" {
			return fmt.Errorf("config: OracleURL required when OracleMode is %q", OracleModeHTTP)
		}
	default:
		return fmt.Errorf("config: unknown OracleMode %q", cfg.OracleMode)
	}
	if !strings.HasPrefix(strings.TrimSpace(cfg.CustodyAddress), "0x") {
		return fmt.Errorf("config: CustodyAddress must be a 0x hex address")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
