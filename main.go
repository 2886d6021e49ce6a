package main

import (
	"fmt"
	"os"

	"github.com/m2ichu/wilksCalculatorApp/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
