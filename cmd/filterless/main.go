package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/filterless"
	"github.com/peco/filterless/internal/util"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cli := filterless.NewCLI()
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		if util.IsIgnorableError(err) {
			return
		}

		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		st, _ := util.GetExitStatus(err)
		cancel()
		os.Exit(st)
	}
}
