package minter

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetadataServer(t *testing.T) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/1.json", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": relic.Name, "symbol": relic.Symbol, "image": "https://example.test/1.png"})
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return c.SendString("hello")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return fmt.Sprintf("http://%s", ln.Addr().String())
}

func TestURIVerifier(t *testing.T) {
	ctx := context.Background()
	baseURL := newMetadataServer(t)
	verifier := NewURIVerifier(5 * time.Second)

	type testcase struct {
		name      string
		params    MintParams
		errorKind error
	}
	testcases := []testcase{
		{
			name:   "matching document",
			params: MintParams{Name: relic.Name, Symbol: relic.Symbol, URI: baseURL + "/1.json"},
		},
		{
			name:      "name differs",
			params:    MintParams{Name: "Relic #2", Symbol: relic.Symbol, URI: baseURL + "/1.json"},
			errorKind: errs.InvalidArgument,
		},
		{
			name:      "not a json document",
			params:    MintParams{Name: relic.Name, Symbol: relic.Symbol, URI: baseURL + "/plain"},
			errorKind: errs.InvalidArgument,
		},
		{
			name:      "missing document",
			params:    MintParams{Name: relic.Name, Symbol: relic.Symbol, URI: baseURL + "/2.json"},
			errorKind: errs.ExternalServiceFailure,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			err := verifier.Verify(ctx, tc.params)
			if tc.errorKind != nil {
				assert.ErrorIs(t, err, tc.errorKind)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMintAssetVerifiesURI(t *testing.T) {
	ctx := context.Background()
	baseURL := newMetadataServer(t)
	env := newLocalEnvironment(t)
	base, _ := newWalletMinter(t, env, env)
	minter := NewMinter(env, Options{
		Authority:   base.authority,
		Payer:       base.payer,
		URIVerifier: NewURIVerifier(5 * time.Second),
	})

	_, err := minter.Mint(ctx, MintParams{Name: "Other", Symbol: relic.Symbol, URI: baseURL + "/1.json"})
	assert.ErrorIs(t, err, errs.InvalidArgument)

	result, err := minter.Mint(ctx, MintParams{Name: relic.Name, Symbol: relic.Symbol, URI: baseURL + "/1.json"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Identity.Supply)
}
