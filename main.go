package main

import "urlname/internal/cli"

func main() {
	cli.Execute()
}
