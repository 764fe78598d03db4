package main

import "github.com/MeKo-Tech/texforge/internal/cmd"

func main() {
	cmd.Execute()
}
