package main

import "github.com/frahmantamala/ngo-donations/cmd"

func main() {
	cmd.Execute()
}
