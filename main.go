package main

import "github.com/capture-tools/zoomd/cmd"

func main() {
	cmd.Execute()
}
