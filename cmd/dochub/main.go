package main

import "dochub/internal/cli"

func main() {
	cli.Execute()
}
