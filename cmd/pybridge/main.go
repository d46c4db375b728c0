package main

import "github.com/mvp-joe/pybridge/internal/cli"

func main() {
	cli.Execute()
}
