package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"net/http"
	"sync"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/gorilla/websocket"
	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"

	"github.com/sweepd/sweepd/internal/core/domain"
	"github.com/sweepd/sweepd/internal/core/ports"
)

// backend is the subset of the node API used by the client. *ethclient.Client
// satisfies it.
type backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(
		ctx context.Context, account common.Address, blockNumber *big.Int,
	) (*big.Int, error)
	EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// Client is a ports.Ledger backed by a JSON-RPC connection to an Ethereum
// node. The underlying rpc client multiplexes concurrent requests over the
// same connection, therefore a Client can be shared among workers.
type Client struct {
	cfg     Config
	backend backend

	lock    sync.RWMutex
	chainID *big.Int
}

// Dial connects to the node described by cfg and performs a handshake by
// fetching the chain id. Any failure is returned as a connection error.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	endpoint, err := cfg.URL()
	if err != nil {
		return nil, domain.NewConnectionError("dial", err)
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.handshakeTimeout(),
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	opts := []rpc.ClientOption{
		rpc.WithWebsocketDialer(dialer),
		rpc.WithHeaders(cfg.headers()),
	}

	rpcClient, err := rpc.DialOptions(ctx, endpoint, opts...)
	if err != nil {
		return nil, domain.NewConnectionError("dial", err)
	}

	client := newClient(cfg, ethclient.NewClient(rpcClient))
	if _, err := client.getChainID(ctx); err != nil {
		client.Close()
		return nil, domain.NewConnectionError("handshake", err)
	}

	log.WithField("chain_id", client.chainID.String()).Debug(
		"connected to node",
	)
	return client, nil
}

func newClient(cfg Config, b backend) *Client {
	return &Client{cfg: cfg, backend: b}
}

// Balance returns the balance of the given address at the latest block.
func (c *Client) Balance(
	ctx context.Context, addr common.Address,
) (*uint256.Int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	wei, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, domain.NewQueryError("balance", err)
	}

	balance, err := domain.BalanceFromBig(wei)
	if err != nil {
		return nil, domain.NewQueryError("balance", err)
	}
	return balance, nil
}

// EstimateFee quotes the gas needed by a plain value transfer and the current
// gas price.
func (c *Client) EstimateFee(
	ctx context.Context, from common.Address, intent domain.TransferIntent,
) (domain.FeeEstimate, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	to := intent.Destination
	msg := geth.CallMsg{
		From:  from,
		To:    &to,
		Value: toBig(intent.Amount),
	}

	gasUnits, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return domain.FeeEstimate{}, domain.NewQueryError("estimate gas", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return domain.FeeEstimate{}, domain.NewQueryError("gas price", err)
	}
	unitPrice, err := domain.BalanceFromBig(gasPrice)
	if err != nil {
		return domain.FeeEstimate{}, domain.NewQueryError("gas price", err)
	}

	return domain.FeeEstimate{GasUnits: gasUnits, UnitPrice: unitPrice}, nil
}

// SignAndBroadcast signs a legacy value transfer with the pending nonce of the
// key's account and the given fee, then submits it to the node.
func (c *Client) SignAndBroadcast(
	ctx context.Context, key *ecdsa.PrivateKey,
	intent domain.TransferIntent, fee domain.FeeEstimate,
) (string, error) {
	if key == nil {
		return "", domain.NewSigningError("sign", fmt.Errorf("missing private key"))
	}
	if intent.Amount == nil || intent.Amount.IsZero() {
		return "", domain.NewSigningError("sign", domain.ErrNothingToSweep)
	}
	if fee.UnitPrice == nil {
		return "", domain.NewSigningError("sign", domain.ErrNilFeePrice)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	chainID, err := c.getChainID(ctx)
	if err != nil {
		return "", domain.NewQueryError("chain id", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return "", domain.NewQueryError("nonce", err)
	}

	to := intent.Destination
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: fee.UnitPrice.ToBig(),
		Gas:      fee.GasUnits,
		To:       &to,
		Value:    intent.Amount.ToBig(),
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return "", domain.NewSigningError("sign", err)
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return "", domain.NewBroadcastError("send", err)
	}

	return signedTx.Hash().Hex(), nil
}

// Close closes the connection with the node.
func (c *Client) Close() {
	c.backend.Close()
}

// ChainID returns the chain id cached at handshake.
func (c *Client) ChainID() *big.Int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.chainID == nil {
		return nil
	}
	return new(big.Int).Set(c.chainID)
}

func (c *Client) getChainID(ctx context.Context) (*big.Int, error) {
	c.lock.RLock()
	chainID := c.chainID
	c.lock.RUnlock()
	if chainID != nil {
		return chainID, nil
	}

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	c.lock.Lock()
	c.chainID = chainID
	c.lock.Unlock()
	return chainID, nil
}

func (c *Client) withTimeout(
	ctx context.Context,
) (context.Context, context.CancelFunc) {
	if c.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

func toBig(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}

var _ ports.Ledger = (*Client)(nil)
