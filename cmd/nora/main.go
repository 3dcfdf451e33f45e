package main

import "github.com/norahairline/norahairline/internal/cmd"

func main() {
	cmd.Execute()
}
