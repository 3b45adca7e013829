package main

import "github.com/nikogura/cinescope/cmd"

func main() {
	cmd.Execute()
}
