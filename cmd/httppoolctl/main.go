// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Command httppoolctl drives a configured httppool.Pool against a target
// URL and reports how its transactions completed.  It exists to smoke-test
// a Config against a real endpoint outside of a larger service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "httppoolctl",
		Short: "Drive an httppool.Pool against a target URL",
	}

	root.AddCommand(newRunCommand())
	return root
}
