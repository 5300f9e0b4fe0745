// ABOUTME: Entry point for the kost admin CLI
// ABOUTME: Manages rooms, tenants and payments of a boarding house from the terminal

package main

import (
	"fmt"
	"os"

	"github.com/sultankost/kost/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
