package main

import (
	"os"
)

func main() {
	if err := execute(newApp(), os.Args[1:]); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}
