package main

import "test_capture/presentation/cli"

func main() {
	cli.Execute()
}
