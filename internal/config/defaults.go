package config

// Aptos devnet endpoints used when nothing else is configured.
const (
	DefaultRestURL   = "https://fullnode.devnet.aptoslabs.com/v1"
	DefaultFaucetURL = "https://faucet.devnet.aptoslabs.com"
)

// Core backends.
const (
	// BackendGo is the in-process core.
	BackendGo = "go"
	// BackendRust is the native core linked through cgo.
	BackendRust = "rustcore"
)

// DefaultBalanceResource is the account resource holding the coin balance.
const DefaultBalanceResource = "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.corecall",
		Network: NetworkConfig{
			RestURL:         DefaultRestURL,
			FaucetURL:       DefaultFaucetURL,
			BalanceResource: DefaultBalanceResource,
			RequestsPerSec:  5,
			TimeoutSeconds:  30,
		},
		Core: CoreConfig{
			Backend:          BackendGo,
			Workers:          8,
			MemoryLock:       true,
			CallTimeoutSecs:  60,
			CloseTimeoutSecs: 10,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.corecall/corecall.log",
		},
	}
}
