package main

import (
	"fmt"
	"os"

	"github.com/hquan/docdesk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "docdesk:", err)
		os.Exit(1)
	}
}
