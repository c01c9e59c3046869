package main

import "github.com/JackStrawNYC/dead-air-sub002/internal/cli"

func main() {
	cli.Execute()
}
