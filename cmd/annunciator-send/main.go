package main

import "github.com/oshokin/annunciator/cmd/annunciator-send/cmd"

func main() {
	cmd.Execute()
}
