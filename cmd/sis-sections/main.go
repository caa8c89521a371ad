package main

import "github.com/pfrederiksen/sis-sections/internal/cli"

func main() {
	cli.Execute()
}
