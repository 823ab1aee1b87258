// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planck-zk/planck/planck"
	"github.com/planck-zk/planck/state"
)

const sampleConfig = `
feeCollector: "0x000000000000000000000000000000000000fee5"
accounts:
  - address: "0x0000000000000000000000000000000000000001"
    pubKeyHash: "0x0000000000000000000000000000000000000009"
    balances:
      0: "1000"
      2: "50"
  - address: "0x0000000000000000000000000000000000000002"
`

func TestLoadAndBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.Nil(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	config, err := Load(path)
	require.Nil(t, err)

	collector, err := config.FeeCollectorAddress()
	require.Nil(t, err)
	assert.Equal(t, planck.MustParseAddress("0x000000000000000000000000000000000000fee5"), collector)

	ledger, err := config.Build()
	require.Nil(t, err)
	assert.Equal(t, 2, ledger.AccountCount())
	assert.Equal(t, planck.AccountID(2), ledger.NextFreeID())

	acc, ok := ledger.GetAccount(0)
	require.True(t, ok)
	assert.Equal(t, int64(1000), acc.Balance(0).Int64())
	assert.Equal(t, int64(50), acc.Balance(2).Int64())
	assert.False(t, acc.PubKeyHash.IsZero())

	acc, ok = ledger.GetAccount(1)
	require.True(t, ok)
	assert.True(t, acc.PubKeyHash.IsZero())
}

func TestBuildRejectsBadConfig(t *testing.T) {
	config := &Config{Accounts: []AccountConfig{{Address: "nope"}}}
	_, err := config.Build()
	assert.NotNil(t, err)

	config = &Config{Accounts: []AccountConfig{
		{Address: "0x0000000000000000000000000000000000000001"},
		{Address: "0x0000000000000000000000000000000000000001"},
	}}
	_, err = config.Build()
	assert.NotNil(t, err)

	config = &Config{Accounts: []AccountConfig{{
		Address:  "0x0000000000000000000000000000000000000001",
		Balances: map[uint16]string{0: "-5"},
	}}}
	_, err = config.Build()
	assert.NotNil(t, err)
}

func TestGenesisUpdatesReplay(t *testing.T) {
	config := &Config{Accounts: []AccountConfig{
		{
			Address:    "0x0000000000000000000000000000000000000001",
			PubKeyHash: "0x0000000000000000000000000000000000000009",
			Balances:   map[uint16]string{0: "1000"},
		},
		{Address: "0x0000000000000000000000000000000000000002"},
	}}
	ledger, err := config.Build()
	require.Nil(t, err)

	replayed := state.NewLedger()
	require.Nil(t, state.ApplyUpdates(replayed, GenesisUpdates(ledger)))
	assert.True(t, ledger.Equal(replayed))
}
