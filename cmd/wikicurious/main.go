package main

import cmd "github.com/rohmanhakim/wikicurious/internal/cli"

func main() {
	cmd.Execute()
}
