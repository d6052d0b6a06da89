package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/marky/internal/commands"
	"github.com/gerunddev/marky/internal/styles"
)

const version = "0.1.0"

func main() {
	if err := commands.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ Error: "+err.Error()))
		os.Exit(1)
	}
}
