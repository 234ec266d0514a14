package main

import "github.com/soverby/tempo/internal/cli"

func main() {
	cli.Execute()
}
