package common

import "github.com/blocto/solana-go-sdk/rpc"

// Network is a Solana cluster.
type Network string

const (
	NetworkMainnet  Network = "mainnet-beta"
	NetworkDevnet   Network = "devnet"
	NetworkTestnet  Network = "testnet"
	NetworkLocalnet Network = "localnet"
)

var rpcEndpoints = map[Network]string{
	NetworkMainnet:  rpc.MainnetRPCEndpoint,
	NetworkDevnet:   rpc.DevnetRPCEndpoint,
	NetworkTestnet:  rpc.TestnetRPCEndpoint,
	NetworkLocalnet: rpc.LocalnetRPCEndpoint,
}

func (n Network) IsSupported() bool {
	_, ok := rpcEndpoints[n]
	return ok
}

// RPCEndpoint returns the public JSON-RPC endpoint of the cluster.
func (n Network) RPCEndpoint() string {
	return rpcEndpoints[n]
}

func (n Network) String() string {
	return string(n)
}
