package main

import (
	"context"
	"fmt"
	"os"

	"github.com/g960059/cch/internal/cli"
	"github.com/g960059/cch/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	c := cli.New(cfg, os.Stdout, os.Stderr)
	os.Exit(c.Execute(context.Background(), os.Args[1:]))
}
