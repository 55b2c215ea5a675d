package config_test

import (
	"fmt"

	"github.com/wonny/gpr2m/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("Data source: %s\n", cfg.Data.Source)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
}
