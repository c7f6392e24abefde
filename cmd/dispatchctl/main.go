// Command dispatchctl administers dispatch tariffs and prices jobs from the shell.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultStoreOpener).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
