package envelope

import "fmt"

// Op identifies the populated variant of an envelope. Its value is the
// protobuf field number of that variant in both Request and Response.
type Op int32

// Operations served by the wallet core.
const (
	OpUnknown                 Op = 0
	OpCreateAccount           Op = 1
	OpCreateWallet            Op = 2
	OpFundWallet              Op = 3
	OpGetWalletBalance        Op = 4
	OpGetWalletTransactions   Op = 5
	OpCreateWalletTransaction Op = 6
	OpSignWalletTransaction   Op = 7
	OpSubmitWalletTransaction Op = 8
	OpGetSyncBacktrace        Op = 9
	OpGetAsyncBacktrace       Op = 10
	OpGreeting                Op = 11
	OpSleep                   Op = 12
)

//nolint:gochecknoglobals // Lookup table for Op names
var opNames = map[Op]string{
	OpCreateAccount:           "create_account",
	OpCreateWallet:            "create_wallet",
	OpFundWallet:              "fund_wallet",
	OpGetWalletBalance:        "get_wallet_balance",
	OpGetWalletTransactions:   "get_wallet_transactions",
	OpCreateWalletTransaction: "create_wallet_transaction",
	OpSignWalletTransaction:   "sign_wallet_transaction",
	OpSubmitWalletTransaction: "submit_wallet_transaction",
	OpGetSyncBacktrace:        "get_sync_backtrace",
	OpGetAsyncBacktrace:       "get_async_backtrace",
	OpGreeting:                "greeting",
	OpSleep:                   "sleep",
}

// String returns the wire name of the operation.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int32(o))
}

// Ops returns every known operation in tag order.
func Ops() []Op {
	ops := make([]Op, 0, len(opNames))
	for op := OpCreateAccount; op <= OpSleep; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ParseOp resolves an operation by its wire name.
func ParseOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return OpUnknown, false
}
