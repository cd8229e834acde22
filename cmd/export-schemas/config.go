package main

import "fmt"

type Config struct {
	OutputDir string
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("missing -out")
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
