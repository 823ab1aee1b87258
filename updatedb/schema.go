// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package updatedb

// account update log, one row per field-level change
const updateTableSchema = `
create table if not exists acc_update (
	blockNumber integer,
	updateIndex integer,
	accountID integer,
	kind integer,
	token integer,
	oldBalance blob,
	newBalance blob,
	oldNonce integer,
	newNonce integer,
	address blob(20),
	oldHash blob(20),
	newHash blob(20),
	primary key (blockNumber, updateIndex)
);

CREATE INDEX if not exists accountIndex on acc_update(accountID);
`

// executed transaction receipts
const receiptTableSchema = `
create table if not exists receipt (
	txHash blob(32) primary key,
	blockNumber integer,
	txIndex integer,
	kind integer
);

CREATE INDEX if not exists receiptBlockIndex on receipt(blockNumber);
`
