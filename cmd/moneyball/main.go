package main

import "github.com/jeyoh/moneyball/internal/cli"

func main() {
	cli.Execute()
}
