package main

import (
	"fmt"
	"os"

	"github.com/packlist/packlist/cmd/packlist"
	"github.com/packlist/packlist/pkg/style"
)

func main() {
	rootCmd := packlist.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
