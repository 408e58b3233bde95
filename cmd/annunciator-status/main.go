package main

import "github.com/oshokin/annunciator/cmd/annunciator-status/cmd"

func main() {
	cmd.Execute()
}
