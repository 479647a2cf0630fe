package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/common/errs"
	"github.com/gaze-network/nft-minter/internal/keysource"
	"github.com/spf13/cobra"
)

type generateKeypairCmdOptions struct {
	Path string
	Name string
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a new ed25519 keypair in solana-keygen format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save to key pair file`)
	flags.StringVar(&opts.Name, "name", "id.json", `Key pair file name`)

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generating key pair\n")
	account := types.NewAccount()

	keypair, err := keysource.ToJSON(account)
	if err != nil {
		return errors.Wrap(err, "encode key pair")
	}
	fmt.Fprintf(out, "Public key: %s\n", account.PublicKey.ToBase58())

	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return errors.Wrap(errs.SomethingWentWrong, "create directory")
	}

	keypairPath := path.Join(opts.Path, opts.Name)
	if _, err := os.Stat(keypairPath); err == nil {
		fmt.Fprintf(out, "Existing key pair found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing key pair: ", keypairPath)
		var ans string
		fmt.Scanln(&ans)
		if ans != "replace" {
			fmt.Fprintf(out, "Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(keypairPath, keypair, 0o600); err != nil {
		return errors.Wrap(err, "write key pair file")
	}
	fmt.Fprintf(out, "Key pair saved at %s\n", keypairPath)
	return nil
}
