package minter

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/pkg/httpclient"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
)

// DefaultVerifyURITimeout bounds a single off-chain metadata fetch.
const DefaultVerifyURITimeout = 10 * time.Second

// URIVerifier checks the off-chain metadata a mint points to.
type URIVerifier interface {
	Verify(ctx context.Context, params MintParams) error
}

// offchainMetadata is the subset of the off-chain JSON document the verifier compares.
type offchainMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type httpURIVerifier struct {
	timeout time.Duration
}

// NewURIVerifier returns a verifier that fetches the uri and requires a JSON document whose
// name and symbol equal the requested ones.
func NewURIVerifier(timeout time.Duration) URIVerifier {
	if timeout <= 0 {
		timeout = DefaultVerifyURITimeout
	}
	return &httpURIVerifier{timeout: timeout}
}

func (v *httpURIVerifier) Verify(ctx context.Context, params MintParams) error {
	client, err := httpclient.New(params.URI, httpclient.Config{
		Timeout: v.timeout,
	})
	if err != nil {
		return errors.Wrapf(errs.InvalidArgument, "invalid metadata uri %q: %v", params.URI, err)
	}

	resp, err := client.Get(ctx, "", httpclient.RequestOptions{})
	if err != nil {
		return errors.Wrapf(errs.ExternalServiceFailure, "can't fetch metadata uri: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.Wrapf(errs.ExternalServiceFailure, "metadata uri responded with status %d", resp.StatusCode())
	}

	var document offchainMetadata
	if err := resp.UnmarshalBody(&document); err != nil {
		return errors.Wrapf(errs.InvalidArgument, "metadata uri is not a json document: %v", err)
	}
	if document.Name != params.Name || document.Symbol != params.Symbol {
		return errors.Wrapf(errs.InvalidArgument, "off-chain metadata %q/%q does not match %q/%q", document.Name, document.Symbol, params.Name, params.Symbol)
	}

	logger.DebugContext(ctx, "verified metadata uri", slogx.String("uri", params.URI))
	return nil
}
