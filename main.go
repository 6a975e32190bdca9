package main

import (
	"github.com/racman-io/racman/cmd"
)

func main() {
	cmd.Execute()
}
