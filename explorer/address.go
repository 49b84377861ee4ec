package explorer

import "github.com/synnergy-chain/explorer/chain"

// synthesizeAccountAddress derives an Address from an account-input's
// AccountId and the chain's configured discrimination. Production and test
// addresses for the same account id must differ so that the two cannot be
// confused by an address-indexed query; the discrimination is stamped into
// the first byte, followed by the first 31 bytes of the account id.
func synthesizeAccountAddress(id chain.AccountId, discrimination chain.Discrimination) chain.Address {
	var out chain.Address
	out[0] = byte(discrimination)
	copy(out[1:], id[:len(out)-1])
	return out
}
