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
	"fmt"

	"github.com/blinklabs-io/shardclient/contracts"
	"github.com/blinklabs-io/shardclient/ledger"
	"github.com/spf13/cobra"
)

func newStateCmd(a *app) *cobra.Command {
	var contractName string
	cmd := &cobra.Command{
		Use:   "state <address>",
		Short: "Fetch the state of a contract",
		Long: "Fetch the state of a contract from the first shard that has it. With " +
			"--contract, the state is decoded with the schema of that contract type.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := ledger.NewAddress(args[0])
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			if contractName == "" {
				res, err := client.FetchState(cmd.Context(), addr)
				if err != nil {
					return err
				}
				return a.render(cmd, res)
			}
			contract, ok := contracts.ByName(contractName)
			if !ok {
				return fmt.Errorf("unknown contract type %q", contractName)
			}
			rec, shardId, err := client.FetchContract(cmd.Context(), contract, addr)
			if err != nil {
				return err
			}
			a.logger.Info(
				"decoded contract state",
				"contract", contract.Name,
				"address", addr.String(),
				"shard", shardId.String(),
			)
			return a.render(cmd, rec)
		},
	}
	cmd.Flags().StringVar(&contractName, "contract", "", "contract type (ballot, organization or factory)")
	return cmd
}

func newTxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <id>",
		Short: "Fetch the execution status of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.NewTransactionId(args[0])
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			res, err := client.FetchTransaction(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.render(cmd, res)
		},
	}
}

func newExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <address>",
		Short: "Print the first shard on which a contract is deployed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := ledger.NewAddress(args[0])
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			shardId, err := client.RecordExists(cmd.Context(), addr)
			if err != nil {
				return err
			}
			return a.render(cmd, shardId)
		},
	}
}

func newDeriveCmd(a *app) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "derive <id>",
		Short: "Print the address of the contract created by a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ledger.NewTransactionId(args[0])
			if err != nil {
				return err
			}
			kind, err := ledger.AddressKindByName(kindName)
			if err != nil {
				return err
			}
			addr, err := ledger.DeriveAddress(id, kind)
			if err != nil {
				return err
			}
			return a.render(cmd, addr)
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "public", "contract kind (public, zk, system or governance)")
	return cmd
}
