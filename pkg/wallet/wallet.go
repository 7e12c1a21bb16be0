package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrNullEntropySource ...
	ErrNullEntropySource = errors.New("entropy source must not be null")
	// ErrEntropyExhausted is returned when the entropy source keeps producing
	// values outside of the curve's scalar range.
	ErrEntropyExhausted = errors.New(
		"entropy source did not produce a valid private key",
	)
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New(
		"private key must be a 32 byte scalar in the range [1, n-1]",
	)
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New(
		"address must be a 20 byte array in hex format",
	)
	// ErrInvalidAddressChecksum ...
	ErrInvalidAddressChecksum = errors.New("address has an invalid checksum")
)

// Wallet is a throw-away key pair together with the account address derived
// from its public key. It is never persisted.
type Wallet struct {
	privateKey *btcec.PrivateKey
	publicKey  *btcec.PublicKey
	address    common.Address
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	Entropy EntropySource
}

func (o NewWalletOpts) validate() error {
	if o.Entropy == nil {
		return ErrNullEntropySource
	}
	return nil
}

// NewWallet generates a fresh key pair from the given entropy source.
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	prvkey, pubkey, err := GenerateKeyPair(opts.Entropy)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		privateKey: prvkey,
		publicKey:  pubkey,
		address:    PublicKeyAddress(pubkey),
	}, nil
}

// NewWalletFromKeyOpts is the struct given to the NewWalletFromKey method
type NewWalletFromKeyOpts struct {
	PrivateKey []byte
}

func (o NewWalletFromKeyOpts) validate() error {
	if !IsValidPrivateKey(o.PrivateKey) {
		return ErrInvalidPrivateKey
	}
	return nil
}

// NewWalletFromKey restores the wallet of the given private key.
func NewWalletFromKey(opts NewWalletFromKeyOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	prvkey, pubkey := btcec.PrivKeyFromBytes(opts.PrivateKey)
	return &Wallet{
		privateKey: prvkey,
		publicKey:  pubkey,
		address:    PublicKeyAddress(pubkey),
	}, nil
}

// Address returns the account address of the wallet.
func (w *Wallet) Address() common.Address {
	return w.address
}

// PrivateKeyHex returns the 32-byte private scalar in hex format.
func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.privateKey.Serialize())
}

// PublicKeyHex returns the uncompressed public key in hex format.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.publicKey.SerializeUncompressed())
}

// SigningKey returns the private key in the format expected by transaction
// signers.
func (w *Wallet) SigningKey() (*ecdsa.PrivateKey, error) {
	return crypto.ToECDSA(w.privateKey.Serialize())
}
