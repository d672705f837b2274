package main

import "github.com/rpggio/temporal-xray/internal/cli"

func main() {
	cli.Execute()
}
