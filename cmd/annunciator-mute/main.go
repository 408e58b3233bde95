package main

import "github.com/oshokin/annunciator/cmd/annunciator-mute/cmd"

func main() {
	cmd.Execute()
}
