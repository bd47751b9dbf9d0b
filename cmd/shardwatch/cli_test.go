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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/shardclient/abi"
	"github.com/blinklabs-io/shardclient/cmd/common"
	"github.com/blinklabs-io/shardclient/contracts"
	"github.com/blinklabs-io/shardclient/internal/test"
	"github.com/blinklabs-io/shardclient/internal/test/shardmock"
	"github.com/blinklabs-io/shardclient/ledger"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTxId = "a3f1c2d4e5b60718293a4b5c6d7e8f90112233445566778899aabbccddeeff00"

var testOrg = test.MustAddress("022c2353d9d52f50713581b9d5979997a84fdbf38d")

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfigFixture points the CLI at the fake node and makes polling fast
func writeConfigFixture(t *testing.T, home string, node *shardmock.Node) {
	t.Helper()
	configDir := filepath.Join(home, ".config", "shardwatch")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	config := fmt.Sprintf(`base_url = "%s"

[poll]
base_interval = "1ms"
max_interval = "1ms"
max_attempts = 10
`, node.URL())
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o600))
}

func testOrganizationState(t *testing.T) []byte {
	t.Helper()
	state := abi.NewRecord(
		"OrganizationState",
		abi.FV("owner", testOrg),
		abi.FV("administrators", []ledger.Address{}),
		abi.FV("members", []ledger.Address{}),
		abi.FV("name", "Lunch club"),
		abi.FV("description", ""),
		abi.FV("profileImage", ""),
		abi.FV("bannerImage", ""),
		abi.FV("website", ""),
		abi.FV("xAccount", ""),
		abi.FV("discordServer", ""),
		abi.FV("ballots", []ledger.Address{}),
	)
	data, err := abi.EncodeState(contracts.OrganizationStateType, state)
	require.NoError(t, err)
	return data
}

func TestDerive(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "derive", testTxId, "--kind", "zk")
	require.NoError(t, err)
	assert.Equal(t, "036d7e8f90112233445566778899aabbccddeeff00\n", stdout)

	_, _, err = executeCLI(t, t.TempDir(), "derive", "abc")
	assert.ErrorIs(t, err, ledger.ErrInvalidTransactionId)
}

func TestTx(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	id := test.MustTransactionId(testTxId)
	node.Script(shardmock.TransactionPath(1, id), shardmock.Transaction(id, true, false))

	stdout, _, err := executeCLI(t, t.TempDir(), "tx", testTxId, "--base-url", node.URL(), "-o", "json")
	require.NoError(t, err)
	var tmp map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &tmp))
	assert.Equal(t, "Shard1", tmp["shard"])
	assert.Equal(t, true, tmp["success"])
	assert.Equal(t, false, tmp["finalized"])
	// Shard2 is tried first
	assert.Equal(t, 1, node.Requests(shardmock.TransactionPath(2, id)))
}

func TestOutputFromEnvironment(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	id := test.MustTransactionId(testTxId)
	node.Script(shardmock.TransactionPath(2, id), shardmock.Transaction(id, true, true))
	t.Setenv("SHARDWATCH_OUTPUT", "json")
	t.Setenv("SHARDWATCH_BASE_URL", node.URL())

	stdout, _, err := executeCLI(t, t.TempDir(), "tx", testTxId)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
}

func TestExists(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	node.Script(shardmock.StatePath(1, testOrg), shardmock.State([]byte{0x00}))

	stdout, _, err := executeCLI(t, t.TempDir(), "exists", testOrg.String(), "--base-url", node.URL())
	require.NoError(t, err)
	assert.Equal(t, "Shard1\n", stdout)

	_, _, err = executeCLI(
		t,
		t.TempDir(),
		"exists", testOrg.String(),
		"--base-url", node.URL(),
		"--shards", "2",
	)
	assert.Error(t, err)
}

func TestState(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	node.Script(shardmock.StatePath(0, testOrg), shardmock.State(testOrganizationState(t)))
	home := t.TempDir()
	writeConfigFixture(t, home, node)

	stdout, _, err := executeCLI(t, home, "state", testOrg.String(), "--contract", "organization")
	require.NoError(t, err)
	assert.Contains(t, stdout, "owner: "+testOrg.String()+"\n")
	assert.Contains(t, stdout, "name: Lunch club\n")
	assert.Contains(t, stdout, "members: []\n")

	stdout, _, err = executeCLI(t, home, "state", testOrg.String(), "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "shard: Shard0\n")

	_, _, err = executeCLI(t, home, "state", testOrg.String(), "--contract", "ballot")
	assert.ErrorIs(t, err, ledger.ErrInvalidAddress)
}

func TestWatch(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	id := test.MustTransactionId(testTxId)
	addr, err := ledger.DeriveAddress(id, ledger.AddressKindPublicContract)
	require.NoError(t, err)
	node.Script(
		shardmock.TransactionPath(2, id),
		shardmock.Transaction(id, true, false),
		shardmock.Transaction(id, true, true),
	)
	node.Script(
		shardmock.StatePath(2, addr),
		shardmock.ResponseNullState,
		shardmock.State(testOrganizationState(t)),
	)
	home := t.TempDir()
	writeConfigFixture(t, home, node)

	stdout, stderr, err := executeCLI(t, home, "watch", testTxId, "--kind", "public", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, stdout, "state: Succeeded\n")
	assert.Contains(t, stdout, "address: "+addr.String()+"\n")
	assert.Contains(t, stderr, "to=AwaitingReplication")
}

func TestWatchFailed(t *testing.T) {
	node := shardmock.NewNode()
	defer node.Close()
	okId := test.MustTransactionId(testTxId)
	failedId := test.MustTransactionId(strings.Repeat("ab", 32))
	node.Script(shardmock.TransactionPath(2, okId), shardmock.Transaction(okId, true, true))
	node.Script(shardmock.TransactionPath(2, failedId), shardmock.Transaction(failedId, false, true))
	home := t.TempDir()
	writeConfigFixture(t, home, node)

	stdout, _, err := executeCLI(t, home, "watch", okId.String(), failedId.String(), "-o", "json")
	require.Error(t, err)
	var statuses []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, "Succeeded", statuses[0]["state"])
	assert.Equal(t, "Failed", statuses[1]["state"])
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	stdout, _, err := executeCLI(t, home, "config", "init")
	require.NoError(t, err)
	path := filepath.Join(home, ".config", "shardwatch", "config.toml")
	assert.Equal(t, "wrote "+path+"\n", stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg common.Config
	require.NoError(t, toml.Unmarshal(data, &cfg))
	assert.Equal(t, common.DefaultConfig(), cfg)

	_, _, err = executeCLI(t, home, "config", "init")
	assert.Error(t, err)
	_, _, err = executeCLI(t, home, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShow(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "config", "show", "--network", "mainnet")
	require.NoError(t, err)
	var cfg common.Config
	require.NoError(t, toml.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "2s", cfg.Poll.BaseInterval)
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}
