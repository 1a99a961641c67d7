package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/itam/pkg/apperrors"
	"github.com/vsinha/itam/pkg/interfaces/cli/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
}
