package main

import "github.com/theopenlane/secdash/cmd"

func main() {
	cmd.Execute()
}
