package main

import "github.com/quantfence/chainarb/cmd"

func main() {
	cmd.Execute()
}
