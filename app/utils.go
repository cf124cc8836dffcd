// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wangtaoking1/wsprobe/flag"
	"github.com/wangtaoking1/wsprobe/utils/term"
)

var progressMessage = color.GreenString("==>")

// FormatExecName is formatted as an executable file name under different
// operating systems according to the given name.
func FormatExecName(name string) string {
	// Make case-insensitive and strip executable suffix if present
	if runtime.GOOS == "windows" {
		name = strings.ToLower(name)
		name = strings.TrimSuffix(name, ".exe")
	}

	return name
}

// addHelpFlag adds help flag to the specified FlagSet object.
func addHelpFlag(name string, fs *pflag.FlagSet) {
	fs.BoolP("help", "h", false, fmt.Sprintf("Help for %s.", name))
}

// addCmdTemplate prints flags in their named sections, wrapped to the
// terminal width. envHint is appended to the help output when not empty.
func addCmdTemplate(cmd *cobra.Command, namedFlagSets flag.NamedFlagSets, envHint string) {
	usageFmt := "Usage:\n  %s\n"
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprintf(cmd.OutOrStderr(), usageFmt, cmd.UseLine())
		flag.PrintSections(cmd.OutOrStderr(), namedFlagSets, cols)

		return nil
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n"+usageFmt, cmd.Long, cmd.UseLine())
		flag.PrintSections(out, namedFlagSets, cols)
		if envHint != "" {
			fmt.Fprintf(out, "\n%s\n", envHint)
		}
	})
}

func printWorkingDir(w io.Writer) {
	wd, _ := os.Getwd()
	fmt.Fprintf(w, "%v WorkingDir: %s\n", progressMessage, wd)
}
