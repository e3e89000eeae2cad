package main

import "github.com/andresmejia3/facewire/cmd"

func main() {
	cmd.Execute()
}
