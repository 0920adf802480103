// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package athena runs SQL against Amazon Athena and returns the rows as
// strings. A query is started with an idempotency token, polled until it
// reaches a terminal state and then paged through. Successful result sets
// are cached on disk through cacheutil.
package athena
