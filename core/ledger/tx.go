package ledger

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"time"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/mr-tron/base58"
)

// Tx is a unit of work over the ledger. Programs read and write accounts through it and
// check signatures against its signer set. Nothing is visible outside until Commit.
type Tx struct {
	store    StoreTx
	rent     Rent
	nonce    []byte
	feePayer types.Account
	signers  map[common.PublicKey]struct{}
	written  []common.PublicKey
	done     bool
}

// Receipt describes a committed unit of work.
type Receipt struct {
	// Signature is the base58 ed25519 signature of the fee payer over the written accounts.
	Signature   string
	Accounts    []common.PublicKey
	CommittedAt time.Time
}

// Begin starts a unit of work. Every signer proves possession of its private key; the
// first signer pays fees and signs the receipt.
func Begin(ctx context.Context, store Store, rent Rent, signers ...types.Account) (*Tx, error) {
	if len(signers) == 0 {
		return nil, errors.Wrap(errs.UnauthorizedSignature, "at least one signer is required to pay fees")
	}

	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "can't generate unit of work nonce")
	}

	tx := &Tx{
		rent:     rent,
		nonce:    nonce,
		feePayer: signers[0],
		signers:  make(map[common.PublicKey]struct{}, len(signers)),
	}
	for _, signer := range signers {
		if err := verifySigner(signer, nonce); err != nil {
			return nil, errors.WithStack(err)
		}
		tx.signers[signer.PublicKey] = struct{}{}
	}

	storeTx, err := store.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't begin store transaction")
	}
	tx.store = storeTx
	return tx, nil
}

func verifySigner(signer types.Account, challenge []byte) error {
	if len(signer.PrivateKey) != ed25519.PrivateKeySize {
		return errors.Wrapf(errs.UnauthorizedSignature, "signer %s has no usable private key", signer.PublicKey.ToBase58())
	}
	if !ed25519.Verify(signer.PublicKey.Bytes(), challenge, signer.Sign(challenge)) {
		return errors.Wrapf(errs.UnauthorizedSignature, "signature of %s does not verify", signer.PublicKey.ToBase58())
	}
	return nil
}

// Rent returns the rent sysvar of the ledger.
func (t *Tx) Rent() Rent {
	return t.rent
}

// IsSigner reports whether key signed the unit of work, either as a wallet or as a
// program-derived address inside InvokeSigned.
func (t *Tx) IsSigner(key common.PublicKey) bool {
	_, ok := t.signers[key]
	return ok
}

// InvokeSigned runs fn with the address derived from seeds and programID counted as a
// signer. The signature does not outlive fn.
func (t *Tx) InvokeSigned(ctx context.Context, programID common.PublicKey, seeds [][]byte, fn func(ctx context.Context) error) error {
	pda, err := solcommon.CreateProgramAddress(seeds, programID)
	if err != nil {
		return errors.Wrapf(errs.UnauthorizedSignature, "seeds do not derive an address of program %s: %v", programID.ToBase58(), err)
	}
	if t.IsSigner(pda) {
		return fn(ctx)
	}

	t.signers[pda] = struct{}{}
	defer delete(t.signers, pda)
	return fn(ctx)
}

// GetAccount returns errs.NotFound if the account does not exist.
func (t *Tx) GetAccount(ctx context.Context, address common.PublicKey) (*Account, error) {
	if t.done {
		return nil, errors.New("unit of work is already finished")
	}
	account, err := t.store.GetAccount(ctx, address)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return account, nil
}

// Exists reports whether an account is allocated at address.
func (t *Tx) Exists(ctx context.Context, address common.PublicKey) (bool, error) {
	_, err := t.GetAccount(ctx, address)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}

// PutAccount stages a write of account.
func (t *Tx) PutAccount(ctx context.Context, account *Account) error {
	if t.done {
		return errors.New("unit of work is already finished")
	}
	if err := t.store.PutAccount(ctx, account); err != nil {
		return errors.Wrapf(err, "can't write account %s", account.Address.ToBase58())
	}
	for _, written := range t.written {
		if written == account.Address {
			return nil
		}
	}
	t.written = append(t.written, account.Address)
	return nil
}

// Credit adds lamports to the account at address, allocating an empty system account if needed.
func (t *Tx) Credit(ctx context.Context, address common.PublicKey, lamports uint64) (*Account, error) {
	account, err := t.GetAccount(ctx, address)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			return nil, errors.WithStack(err)
		}
		account = &Account{Address: address, Owner: common.SystemProgramID}
	}
	balance, err := checkedAdd(account.Lamports, lamports)
	if err != nil {
		return nil, errors.Wrapf(err, "credit %d lamports to %s", lamports, address.ToBase58())
	}
	account.Lamports = balance
	if err := t.PutAccount(ctx, account); err != nil {
		return nil, errors.WithStack(err)
	}
	return account, nil
}

// Commit makes every staged write visible at once.
func (t *Tx) Commit(ctx context.Context) (*Receipt, error) {
	if t.done {
		return nil, errors.New("unit of work is already finished")
	}
	t.done = true

	if err := t.store.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "can't commit unit of work")
	}

	digest := sha256.New()
	digest.Write(t.nonce)
	for _, address := range t.written {
		digest.Write(address.Bytes())
	}

	return &Receipt{
		Signature:   base58.Encode(t.feePayer.Sign(digest.Sum(nil))),
		Accounts:    t.written,
		CommittedAt: time.Now(),
	}, nil
}

// Rollback discards every staged write. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.store.Rollback(ctx); err != nil {
		return errors.Wrap(err, "can't rollback unit of work")
	}
	return nil
}
