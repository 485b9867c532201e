package main

import "github.com/letsssgooo/cbtquiz/internal/cli"

func main() {
	cli.Execute()
}
