// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the initial ledger from config.
package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

// AccountConfig describes one pre-funded genesis account.
type AccountConfig struct {
	Address    string            `yaml:"address"`
	PubKeyHash string            `yaml:"pubKeyHash,omitempty"`
	Balances   map[uint16]string `yaml:"balances,omitempty"`
	Nonce      uint32            `yaml:"nonce,omitempty"`
}

// Config is the genesis description. Account ids are assigned densely in
// listed order, starting at 0.
type Config struct {
	FeeCollector string          `yaml:"feeCollector"`
	Accounts     []AccountConfig `yaml:"accounts,omitempty"`
}

// Load reads a genesis config from a yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis config")
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "parse genesis config")
	}
	return &config, nil
}

// FeeCollectorAddress parses the configured fee collector address.
func (c *Config) FeeCollectorAddress() (planck.Address, error) {
	if c.FeeCollector == "" {
		return planck.Address{}, errors.New("feeCollector: missing")
	}
	addr, err := planck.ParseAddress(c.FeeCollector)
	if err != nil {
		return planck.Address{}, errors.WithMessage(err, "feeCollector")
	}
	return *addr, nil
}

// Build creates the genesis ledger.
func (c *Config) Build() (*state.Ledger, error) {
	if uint64(len(c.Accounts)) > uint64(planck.MaxAccountID)+1 {
		return nil, errors.New("too many genesis accounts")
	}

	ledger := state.NewLedger()
	for i, accConfig := range c.Accounts {
		addr, err := planck.ParseAddress(accConfig.Address)
		if err != nil {
			return nil, errors.WithMessagef(err, "account #%d address", i)
		}
		if _, _, ok := ledger.GetAccountByAddress(*addr); ok {
			return nil, errors.Errorf("account #%d: duplicate address %s", i, addr)
		}

		acc := state.NewAccount(*addr)
		acc.Nonce = planck.Nonce(accConfig.Nonce)
		if accConfig.PubKeyHash != "" {
			hash, err := planck.ParsePubKeyHash(accConfig.PubKeyHash)
			if err != nil {
				return nil, errors.WithMessagef(err, "account #%d pubKeyHash", i)
			}
			acc.PubKeyHash = hash
		}
		for token, raw := range accConfig.Balances {
			if planck.TokenID(token) > planck.MaxTokenID {
				return nil, errors.Errorf("account #%d: token %d out of range", i, token)
			}
			balance, ok := new(big.Int).SetString(raw, 10)
			if !ok || balance.Sign() < 0 {
				return nil, errors.Errorf("account #%d: invalid balance for token %d", i, token)
			}
			acc.SetBalance(planck.TokenID(token), balance)
		}
		ledger.InsertAccount(planck.AccountID(i), acc)
	}
	return ledger, nil
}

// GenesisUpdates derives the update log creating the genesis ledger, so that
// block 0 replays like any other block.
func GenesisUpdates(ledger *state.Ledger) []state.UpdateEntry {
	var entries []state.UpdateEntry
	ledger.ForEach(func(id planck.AccountID, acc *state.Account) bool {
		entries = append(entries, state.UpdateEntry{
			AccountID: id,
			Update:    state.CreateAccount{Address: acc.Address, Nonce: acc.Nonce},
		})
		if !acc.PubKeyHash.IsZero() {
			entries = append(entries, state.UpdateEntry{
				AccountID: id,
				Update: state.ChangePubKeyHash{
					NewHash:  acc.PubKeyHash,
					OldNonce: acc.Nonce,
					NewNonce: acc.Nonce,
				},
			})
		}
		for _, token := range acc.Tokens() {
			entries = append(entries, state.UpdateEntry{
				AccountID: id,
				Update: state.UpdateBalance{
					Token:      token,
					OldBalance: new(big.Int),
					NewBalance: acc.Balance(token),
					OldNonce:   acc.Nonce,
					NewNonce:   acc.Nonce,
				},
			})
		}
		return true
	})
	return entries
}
