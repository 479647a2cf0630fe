package ledger

import (
	"bytes"

	"github.com/gaze-network/nft-minter/common"
)

// Account is a ledger record addressed by a public key and owned by a program.
// Only the owner program may change Data or debit Lamports.
type Account struct {
	Address  common.PublicKey
	Owner    common.PublicKey
	Lamports uint64
	Data     []byte
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	return &Account{
		Address:  a.Address,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Data:     bytes.Clone(a.Data),
	}
}

// IsUninitialized reports whether the account holds allocated but never written data.
func (a *Account) IsUninitialized() bool {
	for _, b := range a.Data {
		if b != 0 {
			return false
		}
	}
	return true
}
