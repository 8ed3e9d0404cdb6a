package main

import "github.com/aalvaropc/railbook/internal/cli"

func main() {
	cli.Execute()
}
