// Shipstats Core
// Copyright (c) 2026 The Shipstats Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Shipstats Core.
//
// Shipstats Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Shipstats Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Shipstats Core.  If not, see <http://www.gnu.org/licenses/>.

//go:build !deadlock

// Package syncutil holds the locks used across shipstats. Building with
// -tags=deadlock swaps them for go-deadlock, which reports lock-order
// inversions and locks held past LockTimeout.
package syncutil

import (
	"sync"
	"time"
)

// LockTimeout only applies to deadlock builds.
const LockTimeout = 30 * time.Second

const DeadlockEnabled = false

//nolint:gocritic // wraps sync.Mutex
type Mutex struct {
	sync.Mutex //nolint:forbidigo // the one place sync.Mutex is allowed
}

//nolint:gocritic // wraps sync.RWMutex
type RWMutex struct {
	sync.RWMutex //nolint:forbidigo // the one place sync.RWMutex is allowed
}
