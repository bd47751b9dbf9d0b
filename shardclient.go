// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shardclient reads contract state from a sharded ledger and tracks submitted
// transactions until the contract they create is visible.
//
// A Client wires a shard query engine to a transaction poller:
//
//	client, err := shardclient.New(
//		shardclient.WithNetwork(shardclient.NetworkTestnet),
//		shardclient.WithSubmitter(submitter),
//	)
//	session, err := client.Deploy(ctx, factoryAddr, "deploy_ballot", contracts.Ballot, args...)
//	status, err := session.Wait(ctx)
//	ballot, _, err := client.FetchContract(ctx, contracts.Ballot, status.Address)
package shardclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/contracts"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/blinklabs-io/shardclient/shard"
)

// ErrNoSubmitter is returned by operations that send transactions when the client was
// created without a submitter
var ErrNoSubmitter = errors.New("no submitter configured")

type Client struct {
	network        Network
	baseURL        string
	shards         []ledger.ShardId
	httpClient     *http.Client
	requestTimeout time.Duration
	pollerOpts     []poller.OptionFunc
	submitter      ledger.Submitter
	logger         *slog.Logger
	shardClient    *shard.Client
	poller         *poller.Poller
}

// New returns a new Client with the specified options
func New(opts ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		network: NetworkInvalid,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.baseURL == "" {
		c.baseURL = c.network.BaseURL
	}
	if len(c.shards) == 0 {
		c.shards = c.network.Shards
	}
	if len(c.shards) == 0 {
		c.shards = ledger.DefaultShardPriority
	}
	if c.baseURL == "" {
		return nil, errors.New("no network or base URL specified")
	}
	shardOpts := []shard.ClientOptionFunc{
		shard.WithBaseURL(c.baseURL),
		shard.WithShards(c.shards...),
		shard.WithLogger(c.logger),
	}
	if c.httpClient != nil {
		shardOpts = append(shardOpts, shard.WithHTTPClient(c.httpClient))
	}
	if c.requestTimeout > 0 {
		shardOpts = append(shardOpts, shard.WithRequestTimeout(c.requestTimeout))
	}
	shardClient, err := shard.NewClient(shardOpts...)
	if err != nil {
		return nil, err
	}
	c.shardClient = shardClient
	// The shard priority and logger are defaults which explicit poller options override
	pollerOpts := append(
		[]poller.OptionFunc{
			poller.WithShards(c.shards...),
			poller.WithLogger(c.logger),
		},
		c.pollerOpts...,
	)
	c.poller = poller.New(c.shardClient, pollerOpts...)
	if err := c.poller.Config().Validate(); err != nil {
		return nil, fmt.Errorf("invalid poller config: %w", err)
	}
	return c, nil
}

// Network returns the network the client was created for
func (c *Client) Network() Network {
	return c.network
}

// BaseURL returns the reader node URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ShardClient returns the underlying shard query engine
func (c *Client) ShardClient() *shard.Client {
	return c.shardClient
}

// Poller returns the underlying transaction poller
func (c *Client) Poller() *poller.Poller {
	return c.poller
}

// FetchState returns the raw state of a contract
func (c *Client) FetchState(
	ctx context.Context,
	addr ledger.Address,
) (*shard.StateResult, error) {
	return c.shardClient.FetchState(ctx, addr, nil)
}

// FetchRecord returns the state of a contract decoded with the given schema
func (c *Client) FetchRecord(
	ctx context.Context,
	addr ledger.Address,
	schema *abi.Type,
) (*shard.RecordResult, error) {
	return c.shardClient.FetchRecord(ctx, addr, schema, nil)
}

// FetchContract returns the state of a known contract type. The address must have the
// kind prefix of the contract type
func (c *Client) FetchContract(
	ctx context.Context,
	contract *contracts.Contract,
	addr ledger.Address,
) (*abi.Record, ledger.ShardId, error) {
	if addr.Kind() != contract.Kind {
		return nil, 0, fmt.Errorf(
			"%w: %s is a %s address, %s contracts are %s",
			ledger.ErrInvalidAddress,
			addr,
			addr.Kind(),
			contract.Name,
			contract.Kind,
		)
	}
	res, err := c.shardClient.FetchRecord(ctx, addr, contract.State, nil)
	if err != nil {
		return nil, 0, err
	}
	rec := res.Record()
	if rec == nil {
		return nil, 0, fmt.Errorf("%s state is not a struct", contract.Name)
	}
	if res.Consumed != res.Size {
		c.logger.Warn(
			"trailing bytes after contract state",
			"component", "shardclient",
			"contract", contract.Name,
			"address", addr.String(),
			"shard", res.Shard.String(),
			"trailing", res.Size-res.Consumed,
		)
	}
	return rec, res.Shard, nil
}

// FetchTransaction returns the execution status of a transaction
func (c *Client) FetchTransaction(
	ctx context.Context,
	id ledger.TransactionId,
) (*shard.TransactionResult, error) {
	return c.shardClient.FetchTransaction(ctx, id, nil)
}

// RecordExists returns the first shard on which the contract is deployed
func (c *Client) RecordExists(
	ctx context.Context,
	addr ledger.Address,
) (ledger.ShardId, error) {
	return c.shardClient.RecordExists(ctx, addr, nil)
}

// Track starts polling a submitted transaction
func (c *Client) Track(
	ctx context.Context,
	pointer ledger.TransactionPointer,
	kind ledger.AddressKind,
) *poller.Session {
	return c.poller.Track(ctx, pointer, kind)
}

// Submit sends a payload with the configured submitter and tracks the transaction
func (c *Client) Submit(
	ctx context.Context,
	target ledger.Address,
	payload []byte,
	kind ledger.AddressKind,
) (*poller.Session, error) {
	if c.submitter == nil {
		return nil, ErrNoSubmitter
	}
	return poller.SubmitAndTrack(ctx, c.poller, c.submitter, target, payload, kind)
}

// Invoke encodes an action of a contract type, sends it to the contract at target and
// tracks the transaction until it is finalized
func (c *Client) Invoke(
	ctx context.Context,
	contract *contracts.Contract,
	target ledger.Address,
	action string,
	args ...any,
) (*poller.Session, error) {
	payload, err := contract.Encode(action, args...)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, target, payload, ledger.AddressKindNone)
}

// Deploy sends a factory action that creates a contract of the given type. The
// session succeeds once the created contract is visible, and its status then carries
// the contract address
func (c *Client) Deploy(
	ctx context.Context,
	factory ledger.Address,
	action string,
	created *contracts.Contract,
	args ...any,
) (*poller.Session, error) {
	payload, err := contracts.Factory.Encode(action, args...)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, factory, payload, created.Kind)
}
