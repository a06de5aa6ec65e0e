package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfence/chainarb/pkg/types"
)

// ChainConfig holds per-chain connection and contract parameters.
type ChainConfig struct {
	ID             types.ChainID
	RPCURL         string
	RouterAddress  string // V2-style swap router used for price quotes
	StableAddress  string // stable reference asset the oracle prices against
	StableDecimals uint8
	NativeSymbol   string
}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Chains
	ChainA ChainConfig
	ChainB ChainConfig

	// RPC behavior
	RPCTimeout         time.Duration
	PriceRetryAttempts int
	PriceRetryDelay    time.Duration

	// Bridge / guardian network
	GuardianAPIURL      string
	GuardianWSURL       string // optional push feed; empty disables
	BridgeBaseFeeNative float64
	BridgeFeeBps        float64
	BridgeTransferSecs  int
	BridgeTimeoutMult   int
	BridgePollInitial   time.Duration
	BridgePollMax       time.Duration

	// Tokens
	TokenFile string // optional JSON file extending the built-in registry

	// Monitor
	WatchTokens      []string
	MinProfitPercent float64
	MonitorInterval  time.Duration
	NotionalAmount   float64

	// Trader
	TraderMode   string // "paper" or "live"
	TraderAPIURL string
	AutoExecute  bool // execute monitor findings without operator action

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Chain defaults: Ethereum mainnet (Uniswap V2 router, USDC) and
		// Polygon (QuickSwap router, USDC).
		ChainA: ChainConfig{
			ID:             types.ChainID(getEnvOrDefault("CHAIN_A_ID", string(types.ChainEthereum))),
			RPCURL:         getEnvOrDefault("CHAIN_A_RPC_URL", "https://eth.llamarpc.com"),
			RouterAddress:  getEnvOrDefault("CHAIN_A_ROUTER", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"),
			StableAddress:  getEnvOrDefault("CHAIN_A_STABLE", "0xA0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"),
			StableDecimals: uint8(getIntOrDefault("CHAIN_A_STABLE_DECIMALS", 6)),
			NativeSymbol:   getEnvOrDefault("CHAIN_A_NATIVE", "ETH"),
		},
		ChainB: ChainConfig{
			ID:             types.ChainID(getEnvOrDefault("CHAIN_B_ID", string(types.ChainPolygon))),
			RPCURL:         getEnvOrDefault("CHAIN_B_RPC_URL", "https://polygon-rpc.com"),
			RouterAddress:  getEnvOrDefault("CHAIN_B_ROUTER", "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"),
			StableAddress:  getEnvOrDefault("CHAIN_B_STABLE", "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
			StableDecimals: uint8(getIntOrDefault("CHAIN_B_STABLE_DECIMALS", 6)),
			NativeSymbol:   getEnvOrDefault("CHAIN_B_NATIVE", "MATIC"),
		},

		// RPC defaults
		RPCTimeout:         getDurationOrDefault("RPC_TIMEOUT", 10*time.Second),
		PriceRetryAttempts: getIntOrDefault("PRICE_RETRY_ATTEMPTS", 3),
		PriceRetryDelay:    getDurationOrDefault("PRICE_RETRY_DELAY", 500*time.Millisecond),

		// Bridge defaults
		GuardianAPIURL:      getEnvOrDefault("GUARDIAN_API_URL", "https://guardian.bridge.example.com"),
		GuardianWSURL:       os.Getenv("GUARDIAN_WS_URL"),
		BridgeBaseFeeNative: getFloat64OrDefault("BRIDGE_BASE_FEE_NATIVE", 0.5),
		BridgeFeeBps:        getFloat64OrDefault("BRIDGE_FEE_BPS", 10.0),
		BridgeTransferSecs:  getIntOrDefault("BRIDGE_TRANSFER_SECONDS", 180),
		BridgeTimeoutMult:   getIntOrDefault("BRIDGE_TIMEOUT_MULTIPLIER", 10),
		BridgePollInitial:   getDurationOrDefault("BRIDGE_POLL_INITIAL_DELAY", 2*time.Second),
		BridgePollMax:       getDurationOrDefault("BRIDGE_POLL_MAX_DELAY", 30*time.Second),

		// Token registry
		TokenFile: os.Getenv("TOKEN_FILE"),

		// Monitor defaults
		WatchTokens:     splitList(getEnvOrDefault("WATCH_TOKENS", "WETH,WBTC")),
		MinProfitPercent: getFloat64OrDefault("MIN_PROFIT_PERCENT", 0.5),
		MonitorInterval:  getDurationOrDefault("MONITOR_INTERVAL", 30*time.Second),
		NotionalAmount:   getFloat64OrDefault("NOTIONAL_AMOUNT", 1000.0),

		// Trader defaults
		TraderMode:   getEnvOrDefault("TRADER_MODE", "paper"),
		TraderAPIURL: getEnvOrDefault("TRADER_API_URL", "http://localhost:8001"),
		AutoExecute:  getBoolOrDefault("AUTO_EXECUTE", false),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "chainarb"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "chainarb123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "chainarb"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.ChainA.RPCURL == "" || c.ChainB.RPCURL == "" {
		return fmt.Errorf("both chain RPC URLs must be set")
	}

	if c.ChainA.ID == c.ChainB.ID {
		return fmt.Errorf("chain IDs must differ, both are %q", c.ChainA.ID)
	}

	if c.GuardianAPIURL == "" {
		return fmt.Errorf("GUARDIAN_API_URL cannot be empty")
	}

	if c.MinProfitPercent < 0 {
		return fmt.Errorf("MIN_PROFIT_PERCENT cannot be negative, got %f", c.MinProfitPercent)
	}

	if c.NotionalAmount <= 0 {
		return fmt.Errorf("NOTIONAL_AMOUNT must be positive, got %f", c.NotionalAmount)
	}

	if c.BridgeTimeoutMult < 1 {
		return fmt.Errorf("BRIDGE_TIMEOUT_MULTIPLIER must be >= 1, got %d", c.BridgeTimeoutMult)
	}

	if len(c.WatchTokens) == 0 {
		return fmt.Errorf("WATCH_TOKENS cannot be empty")
	}

	if c.TraderMode != "paper" && c.TraderMode != "live" {
		return fmt.Errorf("TRADER_MODE must be 'paper' or 'live', got %q", c.TraderMode)
	}

	return nil
}

// Chains returns both chain configs keyed by chain ID.
func (c *Config) Chains() map[types.ChainID]ChainConfig {
	return map[types.ChainID]ChainConfig{
		c.ChainA.ID: c.ChainA,
		c.ChainB.ID: c.ChainB,
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
