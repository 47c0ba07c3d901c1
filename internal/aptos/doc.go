// Package aptos talks to an Aptos full node and faucet and holds the key
// material the wallet core signs with.
//
// Addresses, public keys and signatures travel as 0x-prefixed lowercase hex.
// A single-key account's address is its authentication key,
// SHA3-256(public key || 0x00). A shared wallet's address is
// SHA3-256(public keys... || threshold || 0x01).
package aptos
