package main

import "github.com/zinc-sig/syncd/cmd"

func main() {
	cmd.Execute()
}
