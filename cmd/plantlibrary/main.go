package main

import "github.com/gabmartin/plantlibrary/internal/cli"

func main() {
	cli.Execute()
}
