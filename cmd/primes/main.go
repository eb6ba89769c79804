package main

import "github.com/agpz23/offload/cmd/primes/cmd"

func main() {
	cmd.Execute()
}
