package core

import (
	"context"

	"github.com/mrz1836/corecall/internal/aptos"
	"github.com/mrz1836/corecall/internal/envelope"
)

func (c *Core) account(mnemonic string) (*aptos.Account, error) {
	opt := aptos.WithMemoryLock(c.lockMemory)
	if mnemonic == "" {
		return aptos.GenerateAccount(opt)
	}
	return aptos.AccountFromMnemonic(mnemonic, opt)
}

func (c *Core) createAccount(ctx context.Context, req *envelope.CreateAccountRequest) (*envelope.CreateAccountResponse, error) {
	acct, err := c.account(req.Mnemonic)
	if err != nil {
		return nil, err
	}
	defer acct.Destroy()

	resp := &envelope.CreateAccountResponse{
		Address:   acct.Address(),
		PublicKey: acct.PublicKeyHex(),
		Keypair:   acct.KeypairHex(),
		Mnemonic:  acct.Mnemonic(),
	}
	if req.FundAmount == 0 {
		return resp, nil
	}

	hashes, err := c.faucet.Fund(ctx, acct.AuthKey(), req.FundAmount)
	if err != nil {
		return nil, err
	}
	resp.FundingTransactions = hashTransactions(hashes)
	return resp, nil
}

func (c *Core) createWallet(req *envelope.CreateWalletRequest) (*envelope.CreateWalletResponse, error) {
	addr, err := aptos.SharedWalletAddress(req.PublicKeys, len(req.PublicKeys))
	if err != nil {
		return nil, err
	}
	return &envelope.CreateWalletResponse{Address: addr}, nil
}

func (c *Core) fundWallet(ctx context.Context, req *envelope.FundWalletRequest) (*envelope.FundWalletResponse, error) {
	hashes, err := c.faucet.Fund(ctx, req.Address, req.Amount)
	if err != nil {
		return nil, err
	}
	return &envelope.FundWalletResponse{Transactions: hashTransactions(hashes)}, nil
}

func (c *Core) walletBalance(ctx context.Context, req *envelope.GetWalletBalanceRequest) (*envelope.GetWalletBalanceResponse, error) {
	balance, err := c.node.GetBalance(ctx, req.Address, c.balanceResource)
	if err != nil {
		return nil, err
	}
	return &envelope.GetWalletBalanceResponse{Balance: balance}, nil
}

func (c *Core) walletTransactions(ctx context.Context, req *envelope.GetWalletTransactionsRequest) (*envelope.GetWalletTransactionsResponse, error) {
	txs, err := c.node.GetAccountTransactions(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	resp := &envelope.GetWalletTransactionsResponse{Transactions: make([]*envelope.Transaction, len(txs))}
	for i, tx := range txs {
		resp.Transactions[i] = toEnvelope(tx)
	}
	return resp, nil
}

func (c *Core) createTransaction(ctx context.Context, req *envelope.CreateWalletTransactionRequest) (*envelope.CreateWalletTransactionResponse, error) {
	to, err := aptos.NormalizeAddress(req.AddressTo)
	if err != nil {
		return nil, err
	}
	txn, err := c.node.GenerateTransaction(ctx, req.AddressFrom, aptos.TransferPayload(to, req.Amount))
	if err != nil {
		return nil, err
	}
	return &envelope.CreateWalletTransactionResponse{Transaction: txn}, nil
}

func (c *Core) signTransaction(ctx context.Context, req *envelope.SignWalletTransactionRequest) (*envelope.SignWalletTransactionResponse, error) {
	acct, err := aptos.AccountFromKeypair(req.Keypair, aptos.WithMemoryLock(c.lockMemory))
	if err != nil {
		return nil, err
	}
	defer acct.Destroy()

	sig, err := c.node.SignTransaction(ctx, acct, req.Transaction)
	if err != nil {
		return nil, err
	}
	return &envelope.SignWalletTransactionResponse{Signature: sig}, nil
}

func (c *Core) submitTransaction(ctx context.Context, req *envelope.SubmitWalletTransactionRequest) (*envelope.SubmitWalletTransactionResponse, error) {
	payloads := make([]aptos.SignedPayload, 0, len(req.SignedPayloads))
	for _, p := range req.SignedPayloads {
		if p == nil {
			continue
		}
		payloads = append(payloads, aptos.SignedPayload{PublicKey: p.PublicKey, Signature: p.Signature})
	}
	auth, err := aptos.SignatureFor(payloads)
	if err != nil {
		return nil, err
	}
	tx, err := c.node.SubmitTransaction(ctx, req.Transaction, auth)
	if err != nil {
		return nil, err
	}
	return &envelope.SubmitWalletTransactionResponse{Transaction: toEnvelope(*tx)}, nil
}

func toEnvelope(tx aptos.Transaction) *envelope.Transaction {
	return &envelope.Transaction{Type: tx.Type, Hash: tx.Hash, SequenceNumber: tx.SequenceNumber}
}

func hashTransactions(hashes []string) []*envelope.Transaction {
	txs := make([]*envelope.Transaction, len(hashes))
	for i, h := range hashes {
		txs[i] = &envelope.Transaction{Hash: h}
	}
	return txs
}
