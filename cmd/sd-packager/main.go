package main

import "github.com/sdpulse/sd-packager/cmd/sd-packager/cmd"

func main() {
	cmd.Execute()
}
