package main

import (
	"os"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
