package main

import "github.com/Jelmerro/nus/internal/cli"

func main() {
	cli.Execute()
}
