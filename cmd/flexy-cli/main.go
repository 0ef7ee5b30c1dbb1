package main

import (
	"github.com/hemanthpathath/flexy-db/internal/cli"
)

func main() {
	cli.Execute()
}
