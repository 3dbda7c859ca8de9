package main

import "github.com/theirongolddev/cashcal/cmd"

func main() {
	cmd.Execute()
}
