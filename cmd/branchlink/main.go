package main

import (
	"os"

	"github.com/sqve/branchlink/internal/app"
)

func main() {
	os.Exit(app.Execute())
}
