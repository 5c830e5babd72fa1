package main

import (
	"fmt"
	"os"

	"league-registry/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	// Lambda starts the binary without arguments.
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" && len(os.Args) == 1 {
		cmd.SetArgs([]string{"serve"})
	}
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
