// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package homedir

import (
	"os"
	"runtime"
)

// HomeDir returns the home directory for the current user.
func HomeDir() string {
	if runtime.GOOS == "windows" {
		if home := os.Getenv("HOME"); home != "" {
			return home
		}
		if home := os.Getenv("USERPROFILE"); home != "" {
			return home
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	return os.Getenv("HOME")
}
