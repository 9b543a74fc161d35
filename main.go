package main

import "tierlist-client/cmd"

func main() {
	cmd.Run()
}
