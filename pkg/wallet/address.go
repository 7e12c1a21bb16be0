package wallet

import (
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyAddress derives the account address of the given public key: the
// last 20 bytes of the Keccak-256 digest of the uncompressed serialization
// without its 0x04 prefix.
func PublicKeyAddress(pubkey *btcec.PublicKey) common.Address {
	uncompressed := pubkey.SerializeUncompressed()
	hash := crypto.Keccak256(uncompressed[1:])
	return common.BytesToAddress(hash[12:])
}

// ParseAddress parses a 0x-prefixed hex address. Mixed-case addresses must
// carry a valid EIP-55 checksum.
func ParseAddress(addr string) (common.Address, error) {
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return common.Address{}, ErrInvalidAddress
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, ErrInvalidAddress
	}

	address := common.HexToAddress(addr)
	digits := addr[2:]
	isMixedCase := strings.ToLower(digits) != digits &&
		strings.ToUpper(digits) != digits
	if isMixedCase && address.Hex()[2:] != digits {
		return common.Address{}, ErrInvalidAddressChecksum
	}
	return address, nil
}
