package main

import (
	cmd "github.com/kerbaras/komgas/cmd/komgas"
)

func main() {
	cmd.Execute()
}
