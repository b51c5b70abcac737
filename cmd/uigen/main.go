// Command uigen generates UI components by driving a language model that
// edits files in a sandboxed workspace. Without an API key it runs a scripted
// demo conversation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
