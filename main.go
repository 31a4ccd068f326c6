package main

import "github.com/theirongolddev/powerlytics/cmd"

func main() {
	cmd.Execute()
}
