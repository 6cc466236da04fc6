package main

import (
	"os"

	"tarediiran-industries.com/simrail-edr/internal/web/edr_web"
)

func main() {
	os.Exit(edr_web.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
