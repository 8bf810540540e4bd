package main

import "github.com/arialabs/aria/internal/cli"

func main() {
	cli.Execute()
}
