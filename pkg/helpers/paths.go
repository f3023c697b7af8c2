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

package helpers

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/shipstats/shipstats-core/pkg/config"
)

// Dirs holds the directories shipstats reads and writes outside of its
// explicit inputs and outputs.
type Dirs struct {
	Config string
	Data   string
	Log    string
}

// userDirCache caches the result of HasUserDir to avoid repeated filesystem checks
var (
	userDirCache       string
	userDirCacheExists bool
	userDirOnce        sync.Once
)

// HasUserDir checks if a "user" directory exists next to the shipstats
// binary, or next to the path in SHIPSTATS_APP, and returns its absolute
// path. It holds every directory of a portable install. The result is
// cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		userDirCache, userDirCacheExists = findUserDir()
	})
	return userDirCache, userDirCacheExists
}

func findUserDir() (string, bool) {
	exePath := os.Getenv(config.AppEnv)
	if exePath == "" {
		var err error
		exePath, err = os.Executable()
		if err != nil {
			return "", false
		}
	}

	userDir := filepath.Join(filepath.Dir(exePath), config.UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

// DefaultDirs returns the XDG directories for shipstats, or subdirectories
// of the portable user directory when one exists.
func DefaultDirs() Dirs {
	if userDir, ok := HasUserDir(); ok {
		return Dirs{
			Config: userDir,
			Data:   userDir,
			Log:    filepath.Join(userDir, "logs"),
		}
	}
	return Dirs{
		Config: filepath.Join(xdg.ConfigHome, config.AppName),
		Data:   filepath.Join(xdg.DataHome, config.AppName),
		Log:    filepath.Join(xdg.StateHome, config.AppName),
	}
}
