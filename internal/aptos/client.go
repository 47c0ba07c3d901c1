package aptos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// Transaction defaults.
const (
	DefaultMaxGasAmount    = 1000
	DefaultGasUnitPrice    = 1
	DefaultGasCurrencyCode = "XUS"
	DefaultExpiry          = 10 * time.Minute

	// CoinType is the native coin moved by transfers.
	CoinType = "0x1::aptos_coin::AptosCoin"
	// DefaultBalanceResource is the account resource that holds the balance.
	DefaultBalanceResource = "0x1::coin::CoinStore<" + CoinType + ">"
)

// AccountInfo is the node's view of an account.
type AccountInfo struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// Transaction identifies a transaction on chain.
type Transaction struct {
	Type           string `json:"type"`
	Hash           string `json:"hash"`
	SequenceNumber string `json:"sequence_number"`
}

// Resource is one typed resource stored under an account.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// coinStore is the data of a CoinStore resource.
type coinStore struct {
	Coin struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// UnsignedTransaction is the JSON form of a transaction before signing.
type UnsignedTransaction struct {
	Sender                  string `json:"sender"`
	SequenceNumber          string `json:"sequence_number"`
	MaxGasAmount            string `json:"max_gas_amount"`
	GasUnitPrice            string `json:"gas_unit_price"`
	GasCurrencyCode         string `json:"gas_currency_code"`
	ExpirationTimestampSecs string `json:"expiration_timestamp_secs"`
	Payload                 any    `json:"payload"`
}

// EntryFunctionPayload calls a Move entry function.
type EntryFunctionPayload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// TransferPayload moves amount of the native coin to to.
func TransferPayload(to string, amount uint64) *EntryFunctionPayload {
	return &EntryFunctionPayload{
		Type:          "entry_function_payload",
		Function:      "0x1::coin::transfer",
		TypeArguments: []string{CoinType},
		Arguments:     []any{to, strconv.FormatUint(amount, 10)},
	}
}

// Client is an Aptos full node REST client.
type Client struct {
	transport
	now func() time.Time
}

// NewClient creates a client for the node API rooted at baseURL.
func NewClient(baseURL string, opts *ClientOptions) *Client {
	c := &Client{
		transport: newTransport(endpointREST, strings.TrimRight(baseURL, "/"), DefaultRetryConfig(), opts),
		now:       time.Now,
	}
	if opts != nil && opts.Now != nil {
		c.now = opts.Now
	}
	return c
}

// GetAccount returns the sequence number and authentication key of addr.
func (c *Client) GetAccount(ctx context.Context, addr string) (*AccountInfo, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}
	var info AccountInfo
	if err := c.do(ctx, http.MethodGet, "/accounts/"+addr, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetAccountResource returns the resource of type resourceType held by addr.
func (c *Client) GetAccountResource(ctx context.Context, addr, resourceType string) (*Resource, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}
	var r Resource
	path := "/accounts/" + addr + "/resource/" + url.PathEscape(resourceType)
	if err := c.do(ctx, http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetBalance returns the coin value held in resourceType by addr.
func (c *Client) GetBalance(ctx context.Context, addr, resourceType string) (uint64, error) {
	if resourceType == "" {
		resourceType = DefaultBalanceResource
	}
	r, err := c.GetAccountResource(ctx, addr, resourceType)
	if err != nil {
		return 0, err
	}
	var store coinStore
	if err := json.Unmarshal(r.Data, &store); err != nil {
		return 0, coreerr.Wrap(coreerr.ErrInvalidResponse, "coin store: %v", err)
	}
	balance, err := strconv.ParseUint(store.Coin.Value, 10, 64)
	if err != nil {
		return 0, coreerr.WithDetails(coreerr.ErrInvalidResponse, map[string]string{"value": store.Coin.Value})
	}
	return balance, nil
}

// GetAccountTransactions lists the transactions sent by addr.
func (c *Client) GetAccountTransactions(ctx context.Context, addr string) ([]Transaction, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/accounts/"+addr+"/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GenerateTransaction builds an unsigned transaction from sender carrying
// payload, using the sender's current sequence number and expiring
// DefaultExpiry from now. It returns the transaction as JSON text.
func (c *Client) GenerateTransaction(ctx context.Context, sender string, payload any) (string, error) {
	sender, err := NormalizeAddress(sender)
	if err != nil {
		return "", err
	}
	info, err := c.GetAccount(ctx, sender)
	if err != nil {
		return "", err
	}
	seq, err := strconv.ParseUint(info.SequenceNumber, 10, 64)
	if err != nil {
		return "", coreerr.WithDetails(coreerr.ErrInvalidSequenceNumber, map[string]string{
			"sequence_number": info.SequenceNumber,
		})
	}

	txn := UnsignedTransaction{
		Sender:                  sender,
		SequenceNumber:          strconv.FormatUint(seq, 10),
		MaxGasAmount:            strconv.Itoa(DefaultMaxGasAmount),
		GasUnitPrice:            strconv.Itoa(DefaultGasUnitPrice),
		GasCurrencyCode:         DefaultGasCurrencyCode,
		ExpirationTimestampSecs: strconv.FormatInt(c.now().Add(DefaultExpiry).Unix(), 10),
		Payload:                 payload,
	}
	b, err := json.Marshal(txn)
	if err != nil {
		return "", fmt.Errorf("encoding transaction: %w", err)
	}
	return string(b), nil
}

// signingMessage is the node's response to a signing message request.
type signingMessage struct {
	Message string `json:"message"`
}

// CreateSigningMessage asks the node for the bytes to sign for txn.
func (c *Client) CreateSigningMessage(ctx context.Context, txn string) ([]byte, error) {
	if !json.Valid([]byte(txn)) {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidTransaction, map[string]string{"reason": "not JSON"})
	}
	var sm signingMessage
	if err := c.do(ctx, http.MethodPost, "/transactions/signing_message", []byte(txn), &sm); err != nil {
		return nil, err
	}
	msg, err := decodeHex(sm.Message)
	if err != nil {
		return nil, coreerr.Wrap(coreerr.ErrInvalidResponse, "signing message: %v", err)
	}
	return msg, nil
}

// SignTransaction signs txn with account and returns the signature as
// 0x-prefixed hex.
func (c *Client) SignTransaction(ctx context.Context, account *Account, txn string) (string, error) {
	msg, err := c.CreateSigningMessage(ctx, txn)
	if err != nil {
		return "", err
	}
	sig, err := account.Sign(msg)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(sig), nil
}

// SubmitTransaction attaches signature to txn and submits it.
func (c *Client) SubmitTransaction(ctx context.Context, txn string, signature any) (*Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(txn), &fields); err != nil || fields == nil {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidTransaction, map[string]string{"reason": "not a JSON object"})
	}
	sig, err := json.Marshal(signature)
	if err != nil {
		return nil, fmt.Errorf("encoding signature: %w", err)
	}
	fields["signature"] = sig

	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding transaction: %w", err)
	}
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", body, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransaction looks up a transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(hash), nil, &tx); err != nil {
		if isNotFound(err) {
			return nil, coreerr.WithDetails(coreerr.ErrTransactionNotFound, map[string]string{"hash": hash})
		}
		return nil, err
	}
	return &tx, nil
}
