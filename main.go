package main

import "github.com/alexiusacademia/wfbeam/cmd"

func main() {
	cmd.Execute()
}
