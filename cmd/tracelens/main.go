package main

import "github.com/mvp-joe/tracelens/internal/cli"

func main() {
	cli.Execute()
}
