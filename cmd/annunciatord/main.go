package main

import "github.com/oshokin/annunciator/cmd/annunciatord/cmd"

func main() {
	cmd.Execute()
}
