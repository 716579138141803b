package main

import "github.com/fxrental/client/internal/cli"

func main() {
	cli.Execute()
}
