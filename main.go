package main

import "librarian/cmd"

func main() {
	cmd.Execute()
}
