// ABOUTME: Entry point for the breather binary.
// ABOUTME: Executes the root Cobra command and drains pending journal writes on exit.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when a command fails; writes must still land.
	closeApp(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
