package bitcoin

import (
	"fmt"

	"github.com/spf13/viper"
)

// NetworkConfig selects the target Bitcoin network and carries a
// MaxReorgDepth field. The keeper reads only Network; the header chain's
// reorg allowance comes from the MaxReorgDepth recorded in the module's
// HeaderChainMeta state, not from this field. The deposit confirmation
// floor is a governable constant (constants.MinDepositConfirmations), not
// a node config field, since every validator must apply the same value.
type NetworkConfig struct {
	Network       string `mapstructure:"network" json:"network"` // "bitcoin" | "testnet" | "regtest"
	MaxReorgDepth uint32 `mapstructure:"max_reorg_depth" json:"max_reorg_depth"` // 0 = unlimited
}

// FeeConfig is the named fee-policy struct design note §9 asks for in place
// of magic numbers: the relay-fee floor of §4.E and the deposit fee of §4.D.
// The keeper does not read these fields; it resolves both values from the
// governable constants constants.MinRelayFee and constants.DepositFee.
type FeeConfig struct {
	MinRelayFee int64 `mapstructure:"min_relay_fee" json:"min_relay_fee"`
	DepositFee  int64 `mapstructure:"deposit_fee" json:"deposit_fee"`
}

// Config is the full bitcoin-facing configuration surface, loaded the same
// way the teacher's bitcoind-client config was: viper over a JSON file with
// environment overrides.
type Config struct {
	Network NetworkConfig `mapstructure:"network" json:"network"`
	Fee     FeeConfig     `mapstructure:"fee" json:"fee"`
}

// GetConfig loads Config from ./config.json, with environment variable
// overrides, matching bitcoin.GetConfig's original viper wiring.
func GetConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("json")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &cfg, nil
}
