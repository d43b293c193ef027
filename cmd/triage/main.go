package main

import (
	"github.com/NVIDIA/triage/pkg/cli"
)

func main() {
	cli.Execute()
}
