package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"goodsgo/internal/app"
)

// @title        Goods Go API
// @version      1.0
// @description  Festival goods logistics: task board, sessions and run sheets.
// @BasePath     /
func main() {
	configPath := flag.StringP("config", "c", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := app.Run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "goodsgo:", err)
		os.Exit(1)
	}
}
