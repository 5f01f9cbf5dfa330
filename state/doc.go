// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides the storage every builtin program reads and writes.
//
// A Store holds the committed key/value state. A State is one transaction over it: writes are
// journaled in memory, can be reverted to a checkpoint, and reach the Store only when the
// State is staged and committed as a single kv batch. A State that is dropped without being
// committed leaves no trace.
package state
