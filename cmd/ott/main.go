package main

import "github.com/OpenTraceLab/OpenTraceTemplates/cmd/ott/cmd"

func main() {
	cmd.Execute()
}
