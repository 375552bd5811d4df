package main

import (
	"github.com/clickonomy/clickonomy-go/internal/cli"
)

func main() {
	cli.Execute()
}
