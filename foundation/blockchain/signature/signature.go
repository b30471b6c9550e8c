// Package signature provides helper functions for handling the blockchain
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ErrInvalidSignature is returned when a signature does not match the data
// and the public key it is checked against.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Hash returns a unique hex string for the set of values. Each value is
// marshaled to JSON on its own and the encodings are sorted before hashing,
// so the order the values are provided in does not change the result.
func Hash(values ...any) string {
	parts := make([]string, len(values))
	for i, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return ZeroHash
		}
		parts[i] = string(data)
	}
	sort.Strings(parts)

	hash := sha256.Sum256([]byte(strings.Join(parts, " ")))
	return hexutil.Encode(hash[:])
}

// LeadingZeroBits returns the number of leading zero bits in the hex-encoded
// hash. An invalid hash has no leading zero bits.
func LeadingZeroBits(hash string) uint {
	data, err := hexutil.Decode(hash)
	if err != nil {
		return 0
	}

	var bits uint
	for _, b := range data {
		if b == 0 {
			bits += 8
			continue
		}
		for mask := byte(0x80); mask != 0 && b&mask == 0; mask >>= 1 {
			bits++
		}
		break
	}

	return bits
}

// Sign uses the specified private key to sign the data. The signature is
// returned hex-encoded in the [R|S|V] format.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	return hexutil.Encode(sig), nil
}

// Verify checks the signature was produced over the value by the private key
// belonging to the specified address.
func Verify(value any, address string, sig string) error {
	publicKey, err := hexutil.Decode(address)
	if err != nil {
		return fmt.Errorf("%w: address: %s", ErrInvalidSignature, err)
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil {
		return fmt.Errorf("%w: decode: %s", ErrInvalidSignature, err)
	}

	if len(sigBytes) != crypto.SignatureLength {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sigBytes))
	}

	data, err := stamp(value)
	if err != nil {
		return err
	}

	// The recovery id is not needed since the public key is known.
	rs := sigBytes[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(publicKey, data, rs) {
		return ErrInvalidSignature
	}

	return nil
}

// Address returns the hex-encoded uncompressed public key which is the
// address used to identify a wallet on the chain.
func Address(publicKey ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&publicKey))
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this data with
// the powchain stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// Marshal the data.
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	// Hash the data data into a 32 byte array. This will provide
	// a data length consistency with all data.
	txHash := crypto.Keccak256(v)

	// Convert the stamp into a slice of bytes. This stamp is
	// used so signatures we produce when signing data
	// are always unique to this blockchain.
	stamp := []byte("\x19Powchain Signed Message:\n32")

	// Hash the stamp and txHash together in a final 32 byte array
	// that represents the data.
	data := crypto.Keccak256(stamp, txHash)

	return data, nil
}
