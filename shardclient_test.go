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

package shardclient_test

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/blinklabs-io/shardclient"
	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/contracts"
	"github.com/blinklabs-io/shardclient/internal/test"
	"github.com/blinklabs-io/shardclient/internal/test/shardmock"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/blinklabs-io/shardclient/poller"
	"github.com/blinklabs-io/shardclient/shard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testTxId = "a3f1c2d4e5b60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00"

var (
	testFactory = test.MustAddress("02ffffffffffffffffffffffffffffffffffffffff")
	testOrg     = test.MustAddress("022c2353d9d52f50713581b9d5979997a84fdbf38d")
	testAdmin   = test.MustAddress("00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678")
)

// verifyNoLeaks checks that no poller session outlives the test. Idle HTTP
// keep-alive connections of the default transport are ignored
func verifyNoLeaks(t *testing.T) {
	goleak.VerifyNone(
		t,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

// recordingSubmitter returns a fixed pointer and keeps the submitted payloads
type recordingSubmitter struct {
	mutex    sync.Mutex
	pointer  ledger.TransactionPointer
	targets  []ledger.Address
	payloads [][]byte
}

func (s *recordingSubmitter) Submit(
	_ context.Context,
	target ledger.Address,
	payload []byte,
) (ledger.TransactionPointer, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.targets = append(s.targets, target)
	s.payloads = append(s.payloads, payload)
	return s.pointer, nil
}

func newTestClient(
	t *testing.T,
	node *shardmock.Node,
	opts ...shardclient.ClientOptionFunc,
) *shardclient.Client {
	t.Helper()
	opts = append(
		[]shardclient.ClientOptionFunc{
			shardclient.WithBaseURL(node.URL()),
			shardclient.WithPollerOptions(
				poller.WithBaseInterval(time.Millisecond),
				poller.WithMaxInterval(time.Millisecond),
				poller.WithMaxAttempts(20),
			),
		},
		opts...,
	)
	client, err := shardclient.New(opts...)
	require.NoError(t, err)
	return client
}

func testBallotState(t *testing.T) []byte {
	t.Helper()
	active, err := abi.NewEnumValue(contracts.BallotStatusType, "Active")
	require.NoError(t, err)
	state := abi.NewRecord(
		"BallotState",
		abi.FV("organization", testOrg),
		abi.FV("administrator", testAdmin),
		abi.FV("title", "Lunch"),
		abi.FV("description", ""),
		abi.FV("options", []string{"pizza", "sushi"}),
		abi.FV("startTime", uint64(1700000000000)),
		abi.FV("endTime", uint64(1700000600000)),
		abi.FV("status", active),
		abi.FV("voters", []ledger.Address{}),
		abi.FV("tally", nil),
	)
	data, err := abi.EncodeState(contracts.BallotStateType, state)
	require.NoError(t, err)
	return data
}

func TestNetworkByName(t *testing.T) {
	assert.Equal(t, shardclient.NetworkTestnet.BaseURL, shardclient.NetworkByName("testnet").BaseURL)
	assert.Equal(t, "mainnet", shardclient.NetworkByName("mainnet").String())
	invalid := shardclient.NetworkByName("devnet")
	assert.Equal(t, shardclient.NetworkInvalid.Name, invalid.Name)
	assert.False(t, invalid.Valid())
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := shardclient.New()
	assert.Error(t, err)
}

func TestNewFromNetwork(t *testing.T) {
	client, err := shardclient.New(shardclient.WithNetwork(shardclient.NetworkTestnet))
	require.NoError(t, err)
	assert.Equal(t, "https://node1.testnet.partisiablockchain.com", client.BaseURL())
	assert.Equal(t, []ledger.ShardId{2, 1, 0}, client.ShardClient().Shards())
	assert.Equal(t, []ledger.ShardId{2, 1, 0}, client.Poller().Config().Shards)

	client, err = shardclient.New(
		shardclient.WithNetwork(shardclient.NetworkTestnet),
		shardclient.WithBaseURL("http://localhost:8080"),
		shardclient.WithShards(0),
	)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", client.BaseURL())
	assert.Equal(t, []ledger.ShardId{0}, client.ShardClient().Shards())
}

func TestDeployAndFetch(t *testing.T) {
	defer verifyNoLeaks(t)
	node := shardmock.NewNode()
	defer node.Close()
	id := test.MustTransactionId(testTxId)
	ballotAddr, err := ledger.DeriveAddress(id, ledger.AddressKindZkContract)
	require.NoError(t, err)
	node.Script(shardmock.TransactionPath(1, id), shardmock.Transaction(id, true, true))
	node.Script(shardmock.StatePath(0, ballotAddr), shardmock.State(testBallotState(t)))

	submitter := &recordingSubmitter{
		pointer: ledger.TransactionPointer{Identifier: id, DestinationShard: 1},
	}
	client := newTestClient(t, node, shardclient.WithSubmitter(submitter))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session, err := client.Deploy(
		ctx,
		testFactory,
		"deploy_ballot",
		contracts.Ballot,
		[]string{"pizza", "sushi"},
		"Lunch",
		"",
		testOrg,
	)
	require.NoError(t, err)
	status, err := session.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, poller.StateSucceeded, status.State)
	assert.Equal(t, "03"+testTxId[24:], status.Address.String())

	require.Len(t, submitter.payloads, 1)
	assert.Equal(t, testFactory, submitter.targets[0])
	assert.Equal(t, "02", hex.EncodeToString(submitter.payloads[0][:1]))

	ballot, shardId, err := client.FetchContract(ctx, contracts.Ballot, status.Address)
	require.NoError(t, err)
	assert.Equal(t, ledger.ShardId(0), shardId)
	title, err := ballot.GetString("title")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", title)
	org, err := ballot.GetAddress("organization")
	require.NoError(t, err)
	assert.Equal(t, testOrg, org)
}

func TestInvoke(t *testing.T) {
	defer verifyNoLeaks(t)
	node := shardmock.NewNode()
	defer node.Close()
	id := test.MustTransactionId(testTxId)
	node.Script(shardmock.TransactionPath(2, id), shardmock.Transaction(id, true, true))

	submitter := &recordingSubmitter{
		pointer: ledger.TransactionPointer{Identifier: id, DestinationShard: 2},
	}
	client := newTestClient(t, node, shardclient.WithSubmitter(submitter))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	session, err := client.Invoke(ctx, contracts.Organization, testOrg, "add_member", testAdmin)
	require.NoError(t, err)
	status, err := session.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, poller.StateSucceeded, status.State)
	assert.True(t, status.Address.IsZero())
	require.Len(t, submitter.payloads, 1)
	assert.Equal(t, "02"+testAdmin.String(), hex.EncodeToString(submitter.payloads[0]))

	_, err = client.Invoke(ctx, contracts.Organization, testOrg, "no_such_action")
	assert.Error(t, err)
}

func TestSubmitWithoutSubmitter(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	client := newTestClient(t, node)
	_, err := client.Submit(context.Background(), testOrg, []byte{0x02}, ledger.AddressKindNone)
	assert.ErrorIs(t, err, shardclient.ErrNoSubmitter)
}

func TestFetchContractKindMismatch(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	client := newTestClient(t, node)
	_, _, err := client.FetchContract(context.Background(), contracts.Ballot, testOrg)
	assert.ErrorIs(t, err, ledger.ErrInvalidAddress)
	assert.Equal(t, 0, node.TotalRequests())
}

func TestFetchContractNoData(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	client := newTestClient(t, node)
	_, _, err := client.FetchContract(context.Background(), contracts.Organization, testOrg)
	var noData *shard.NoDataError
	require.True(t, errors.As(err, &noData))
	assert.Len(t, noData.Causes, 3)
	assert.True(t, noData.Has(shard.MissHTTPStatus))
}
