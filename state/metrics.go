// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/nftstake/metrics"

var (
	metricCacheAccess = metrics.LazyLoadCounterVec("state_cache_access_count", []string{"result"})
	metricCommitSize  = metrics.LazyLoadHistogram("state_commit_keys", []int64{0, 1, 2, 4, 8, 16, 32, 64})
)
