package main

import "github.com/dimasma0305/mlw/cmd"

func main() {
	cmd.Execute()
}
