package main

import "github.com/theirongolddev/outfit/cmd"

func main() {
	cmd.Execute()
}
