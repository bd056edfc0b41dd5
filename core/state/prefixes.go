package state

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

var (
	tokenPrefix   = []byte("token:")
	balancePrefix = []byte("balance:")
	paramPrefix   = []byte("param:")
	vaultPrefix   = []byte("fraction/vault:")
	kycPrefix     = []byte("kyc:")

	vaultListKey = ethcrypto.Keccak256([]byte("fraction/vault-list"))
)

func tokenLineKey(id string) []byte {
	buf := make([]byte, len(tokenPrefix)+len(id))
	copy(buf, tokenPrefix)
	copy(buf[len(tokenPrefix):], id)
	return ethcrypto.Keccak256(buf)
}

func balanceKey(line string, addr [20]byte) []byte {
	buf := make([]byte, len(balancePrefix)+len(line)+1+len(addr))
	copy(buf, balancePrefix)
	copy(buf[len(balancePrefix):], line)
	buf[len(balancePrefix)+len(line)] = ':'
	copy(buf[len(balancePrefix)+len(line)+1:], addr[:])
	return ethcrypto.Keccak256(buf)
}

func paramKey(name string) []byte {
	buf := make([]byte, len(paramPrefix)+len(name))
	copy(buf, paramPrefix)
	copy(buf[len(paramPrefix):], name)
	return ethcrypto.Keccak256(buf)
}

func vaultKey(assetID string) []byte {
	buf := make([]byte, len(vaultPrefix)+len(assetID))
	copy(buf, vaultPrefix)
	copy(buf[len(vaultPrefix):], assetID)
	return ethcrypto.Keccak256(buf)
}

func kycKey(addr [20]byte) []byte {
	buf := make([]byte, len(kycPrefix)+len(addr))
	copy(buf, kycPrefix)
	copy(buf[len(kycPrefix):], addr[:])
	return ethcrypto.Keccak256(buf)
}
