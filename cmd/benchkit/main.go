package main

import "github.com/mj-01/benchkit/internal/cli"

func main() {
	cli.Execute()
}
