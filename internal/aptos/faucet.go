package aptos

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	coreerr "github.com/mrz1836/corecall/pkg/errors"
)

// FaucetClient mints devnet coins into accounts.
type FaucetClient struct {
	transport
}

// NewFaucetClient creates a faucet client rooted at baseURL. Minting is not
// idempotent, so it is never retried unless opts asks for it.
func NewFaucetClient(baseURL string, opts *ClientOptions) *FaucetClient {
	return &FaucetClient{
		transport: newTransport(endpointFaucet, strings.TrimRight(baseURL, "/"), NoRetry(), opts),
	}
}

// Fund creates the account behind authKey if needed and mints amount coins
// into it. It returns the hashes of the transactions the faucet submitted.
func (f *FaucetClient) Fund(ctx context.Context, authKey string, amount uint64) ([]string, error) {
	key, err := NormalizeAddress(authKey)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, coreerr.WithDetails(coreerr.ErrInvalidInput, map[string]string{"amount": "0"})
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("auth_key", stripHexPrefix(key))

	var hashes []string
	if err := f.do(ctx, http.MethodPost, "/mint?"+q.Encode(), nil, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}
