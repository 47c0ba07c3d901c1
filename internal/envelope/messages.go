package envelope

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Transaction is an on-chain transaction summary.
type Transaction struct {
	Type           string `json:"type,omitempty"`
	Hash           string `json:"hash"`
	SequenceNumber string `json:"sequence_number,omitempty"`
}

func (m *Transaction) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Type)
	b = appendString(b, 2, m.Hash)
	return appendString(b, 3, m.SequenceNumber)
}

func (m *Transaction) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Type)
	case 2:
		return consumeString(typ, b, &m.Hash)
	case 3:
		return consumeString(typ, b, &m.SequenceNumber)
	}
	return unknownField, nil
}

// SignedPayload pairs a signer's public key with its signature, both hex.
type SignedPayload struct {
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

func (m *SignedPayload) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.PublicKey)
	return appendString(b, 2, m.Signature)
}

func (m *SignedPayload) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.PublicKey)
	case 2:
		return consumeString(typ, b, &m.Signature)
	}
	return unknownField, nil
}

func appendTransactions(b []byte, num protowire.Number, txs []*Transaction) []byte {
	for _, tx := range txs {
		b = appendMessage(b, num, tx)
	}
	return b
}

func consumeTransaction(typ protowire.Type, b []byte, dst *[]*Transaction) (int, error) {
	tx := &Transaction{}
	n, err := consumeMessage(typ, b, tx)
	if n > 0 && err == nil {
		*dst = append(*dst, tx)
	}
	return n, err
}

// CreateAccountRequest creates an ed25519 account. A non-empty Mnemonic
// restores the account instead of generating one; a non-zero FundAmount asks
// the faucet to fund it.
type CreateAccountRequest struct {
	FundAmount uint64
	Mnemonic   string
}

// Op implements RequestBody.
func (*CreateAccountRequest) Op() Op { return OpCreateAccount }

func (m *CreateAccountRequest) appendFields(b []byte) []byte {
	b = appendUint64(b, 1, m.FundAmount)
	return appendString(b, 2, m.Mnemonic)
}

func (m *CreateAccountRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeUint64(typ, b, &m.FundAmount)
	case 2:
		return consumeString(typ, b, &m.Mnemonic)
	}
	return unknownField, nil
}

// CreateAccountResponse describes a new account. Keypair is the hex encoded
// 64-byte ed25519 private key.
type CreateAccountResponse struct {
	Address             string         `json:"address"`
	PublicKey           string         `json:"public_key"`
	Keypair             string         `json:"keypair"`
	Mnemonic            string         `json:"mnemonic"`
	FundingTransactions []*Transaction `json:"funding_transactions,omitempty"`
}

func (m *CreateAccountResponse) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Address)
	b = appendString(b, 2, m.PublicKey)
	b = appendString(b, 3, m.Keypair)
	b = appendString(b, 4, m.Mnemonic)
	return appendTransactions(b, 5, m.FundingTransactions)
}

func (m *CreateAccountResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Address)
	case 2:
		return consumeString(typ, b, &m.PublicKey)
	case 3:
		return consumeString(typ, b, &m.Keypair)
	case 4:
		return consumeString(typ, b, &m.Mnemonic)
	case 5:
		return consumeTransaction(typ, b, &m.FundingTransactions)
	}
	return unknownField, nil
}

// CreateWalletRequest derives a shared wallet from hex public keys.
type CreateWalletRequest struct {
	PublicKeys []string
}

// Op implements RequestBody.
func (*CreateWalletRequest) Op() Op { return OpCreateWallet }

func (m *CreateWalletRequest) appendFields(b []byte) []byte {
	return appendStrings(b, 1, m.PublicKeys)
}

func (m *CreateWalletRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeRepeatedString(typ, b, &m.PublicKeys)
	}
	return unknownField, nil
}

// CreateWalletResponse carries the shared wallet address.
type CreateWalletResponse struct {
	Address string `json:"address"`
}

func (m *CreateWalletResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Address)
}

func (m *CreateWalletResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Address)
	}
	return unknownField, nil
}

// FundWalletRequest mints Amount coins into Address through the faucet.
type FundWalletRequest struct {
	Address string
	Amount  uint64
}

// Op implements RequestBody.
func (*FundWalletRequest) Op() Op { return OpFundWallet }

func (m *FundWalletRequest) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Address)
	return appendUint64(b, 2, m.Amount)
}

func (m *FundWalletRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Address)
	case 2:
		return consumeUint64(typ, b, &m.Amount)
	}
	return unknownField, nil
}

// FundWalletResponse lists the faucet transactions.
type FundWalletResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

func (m *FundWalletResponse) appendFields(b []byte) []byte {
	return appendTransactions(b, 1, m.Transactions)
}

func (m *FundWalletResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeTransaction(typ, b, &m.Transactions)
	}
	return unknownField, nil
}

// GetWalletBalanceRequest queries the coin balance of Address.
type GetWalletBalanceRequest struct {
	Address string
}

// Op implements RequestBody.
func (*GetWalletBalanceRequest) Op() Op { return OpGetWalletBalance }

func (m *GetWalletBalanceRequest) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Address)
}

func (m *GetWalletBalanceRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Address)
	}
	return unknownField, nil
}

// GetWalletBalanceResponse carries a balance in the chain's base unit.
type GetWalletBalanceResponse struct {
	Balance uint64 `json:"balance"`
}

func (m *GetWalletBalanceResponse) appendFields(b []byte) []byte {
	return appendUint64(b, 1, m.Balance)
}

func (m *GetWalletBalanceResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeUint64(typ, b, &m.Balance)
	}
	return unknownField, nil
}

// GetWalletTransactionsRequest lists the transactions sent by Address.
type GetWalletTransactionsRequest struct {
	Address string
}

// Op implements RequestBody.
func (*GetWalletTransactionsRequest) Op() Op { return OpGetWalletTransactions }

func (m *GetWalletTransactionsRequest) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Address)
}

func (m *GetWalletTransactionsRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Address)
	}
	return unknownField, nil
}

// GetWalletTransactionsResponse lists account transactions.
type GetWalletTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

func (m *GetWalletTransactionsResponse) appendFields(b []byte) []byte {
	return appendTransactions(b, 1, m.Transactions)
}

func (m *GetWalletTransactionsResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeTransaction(typ, b, &m.Transactions)
	}
	return unknownField, nil
}

// CreateWalletTransactionRequest builds an unsigned coin transfer.
type CreateWalletTransactionRequest struct {
	Amount      uint64
	AddressFrom string
	AddressTo   string
}

// Op implements RequestBody.
func (*CreateWalletTransactionRequest) Op() Op { return OpCreateWalletTransaction }

func (m *CreateWalletTransactionRequest) appendFields(b []byte) []byte {
	b = appendUint64(b, 1, m.Amount)
	b = appendString(b, 2, m.AddressFrom)
	return appendString(b, 3, m.AddressTo)
}

func (m *CreateWalletTransactionRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeUint64(typ, b, &m.Amount)
	case 2:
		return consumeString(typ, b, &m.AddressFrom)
	case 3:
		return consumeString(typ, b, &m.AddressTo)
	}
	return unknownField, nil
}

// CreateWalletTransactionResponse carries the unsigned transaction as JSON.
type CreateWalletTransactionResponse struct {
	Transaction string `json:"transaction"`
}

func (m *CreateWalletTransactionResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Transaction)
}

func (m *CreateWalletTransactionResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Transaction)
	}
	return unknownField, nil
}

// SignWalletTransactionRequest signs a transaction with a hex keypair.
type SignWalletTransactionRequest struct {
	Transaction string
	Keypair     string
}

// Op implements RequestBody.
func (*SignWalletTransactionRequest) Op() Op { return OpSignWalletTransaction }

func (m *SignWalletTransactionRequest) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Transaction)
	return appendString(b, 2, m.Keypair)
}

func (m *SignWalletTransactionRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Transaction)
	case 2:
		return consumeString(typ, b, &m.Keypair)
	}
	return unknownField, nil
}

// SignWalletTransactionResponse carries a 0x-prefixed hex signature.
type SignWalletTransactionResponse struct {
	Signature string `json:"signature"`
}

func (m *SignWalletTransactionResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Signature)
}

func (m *SignWalletTransactionResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Signature)
	}
	return unknownField, nil
}

// SubmitWalletTransactionRequest submits a transaction with its signatures.
type SubmitWalletTransactionRequest struct {
	Transaction    string
	SignedPayloads []*SignedPayload
}

// Op implements RequestBody.
func (*SubmitWalletTransactionRequest) Op() Op { return OpSubmitWalletTransaction }

func (m *SubmitWalletTransactionRequest) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Transaction)
	for _, p := range m.SignedPayloads {
		b = appendMessage(b, 2, p)
	}
	return b
}

func (m *SubmitWalletTransactionRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Transaction)
	case 2:
		p := &SignedPayload{}
		n, err := consumeMessage(typ, b, p)
		if n > 0 && err == nil {
			m.SignedPayloads = append(m.SignedPayloads, p)
		}
		return n, err
	}
	return unknownField, nil
}

// SubmitWalletTransactionResponse carries the pending transaction.
type SubmitWalletTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

func (m *SubmitWalletTransactionResponse) appendFields(b []byte) []byte {
	if m.Transaction == nil {
		return b
	}
	return appendMessage(b, 1, m.Transaction)
}

func (m *SubmitWalletTransactionResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		m.Transaction = &Transaction{}
		return consumeMessage(typ, b, m.Transaction)
	}
	return unknownField, nil
}

// SyncBacktraceRequest asks the core for a backtrace captured on the
// blocking path.
type SyncBacktraceRequest struct{}

// Op implements RequestBody.
func (*SyncBacktraceRequest) Op() Op { return OpGetSyncBacktrace }

func (*SyncBacktraceRequest) appendFields(b []byte) []byte { return b }

func (*SyncBacktraceRequest) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return unknownField, nil
}

// AsyncBacktraceRequest asks the core for a backtrace captured on one of its
// worker goroutines.
type AsyncBacktraceRequest struct{}

// Op implements RequestBody.
func (*AsyncBacktraceRequest) Op() Op { return OpGetAsyncBacktrace }

func (*AsyncBacktraceRequest) appendFields(b []byte) []byte { return b }

func (*AsyncBacktraceRequest) consumeField(protowire.Number, protowire.Type, []byte) (int, error) {
	return unknownField, nil
}

// BacktraceResponse answers both backtrace requests.
type BacktraceResponse struct {
	Text string `json:"text"`
}

func (m *BacktraceResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Text)
}

func (m *BacktraceResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Text)
	}
	return unknownField, nil
}

// GreetingRequest is a synchronous liveness probe.
type GreetingRequest struct {
	Verb string
	Name string
}

// Op implements RequestBody.
func (*GreetingRequest) Op() Op { return OpGreeting }

func (m *GreetingRequest) appendFields(b []byte) []byte {
	b = appendString(b, 1, m.Verb)
	return appendString(b, 2, m.Name)
}

func (m *GreetingRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch num {
	case 1:
		return consumeString(typ, b, &m.Verb)
	case 2:
		return consumeString(typ, b, &m.Name)
	}
	return unknownField, nil
}

// GreetingResponse carries the greeting.
type GreetingResponse struct {
	Text string `json:"text"`
}

func (m *GreetingResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Text)
}

func (m *GreetingResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Text)
	}
	return unknownField, nil
}

// SleepRequest parks a core worker for Millis milliseconds.
type SleepRequest struct {
	Millis uint64
}

// Op implements RequestBody.
func (*SleepRequest) Op() Op { return OpSleep }

func (m *SleepRequest) appendFields(b []byte) []byte {
	return appendUint64(b, 1, m.Millis)
}

func (m *SleepRequest) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeUint64(typ, b, &m.Millis)
	}
	return unknownField, nil
}

// SleepResponse reports the completed sleep.
type SleepResponse struct {
	Text string `json:"text"`
}

func (m *SleepResponse) appendFields(b []byte) []byte {
	return appendString(b, 1, m.Text)
}

func (m *SleepResponse) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	if num == 1 {
		return consumeString(typ, b, &m.Text)
	}
	return unknownField, nil
}
