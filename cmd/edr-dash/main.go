package main

import (
	"os"

	"tarediiran-industries.com/simrail-edr/internal/dashboard"
)

func main() {
	os.Exit(dashboard.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
