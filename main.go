package main

import "github.com/w3c-validators/w3c-validators/cmd"

func main() {
	cmd.Execute()
}
