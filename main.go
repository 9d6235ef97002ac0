package main

import "eisenhower-matrix/cli"

func main() {
	cli.Execute()
}
