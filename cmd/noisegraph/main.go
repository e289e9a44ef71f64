package main

import "github.com/MeKo-Tech/noisegraph/internal/cmd"

func main() {
	cmd.Execute()
}
