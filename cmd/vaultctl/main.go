package main

import "github.com/vaultfile/vaultfile/cmd/vaultctl/cmd"

func main() {
	cmd.Execute()
}
