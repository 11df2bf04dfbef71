// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Chain selects the Solana cluster and how transactions are confirmed.
type Chain struct {
	Cluster    string `yaml:"cluster"`    // mainnet-beta|devnet|local
	RpcURL     string `yaml:"rpc_url"`    // overrides the cluster default when set
	Commitment string `yaml:"commitment"` // processed|confirmed|finalized
}

// Endpoint resolves the RPC endpoint for the configured cluster.
func (c Chain) Endpoint() (string, error) {
	if c.RpcURL != "" {
		return c.RpcURL, nil
	}
	switch c.Cluster {
	case "mainnet-beta":
		return "https://ssc-dao.genesysgo.net/", nil
	case "devnet":
		return "https://api.devnet.solana.com", nil
	case "local":
		return "http://127.0.0.1:8899", nil
	default:
		return "", fmt.Errorf("cluster not supported: %s", c.Cluster)
	}
}

// Orderbook points at the off-chain matching service.
type Orderbook struct {
	BaseURL string `yaml:"base_url"`
}

// Swap carries the deployment addresses and order-math defaults.
type Swap struct {
	UsdcAddress    string  `yaml:"usdc_address"`
	SolverWallet   string  `yaml:"solver_wallet"`
	Slippage       float64 `yaml:"slippage"`         // fraction, e.g. 0.05
	MaxInputAmount float64 `yaml:"max_input_amount"` // 0 means unlimited
	OrderLimit     int     `yaml:"order_limit"`      // rows fetched by the orders view
}

// Wallet stores encrypted or env-backed signing material metadata.
type Wallet struct {
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App       App       `yaml:"app"`
	Chain     Chain     `yaml:"chain"`
	Orderbook Orderbook `yaml:"orderbook"`
	Swap      Swap      `yaml:"swap"`
	Wallet    Wallet    `yaml:"wallet"`
}

const (
	defaultSlippage   = 0.05
	defaultOrderLimit = 5
)

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if config.Swap.Slippage == 0 {
		config.Swap.Slippage = defaultSlippage
	}
	if config.Swap.OrderLimit == 0 {
		config.Swap.OrderLimit = defaultOrderLimit
	}
	if config.Chain.Commitment == "" {
		config.Chain.Commitment = "confirmed"
	}
	return &config, nil
}
