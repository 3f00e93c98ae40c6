package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List installed model files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		models := a.manager.ListAvailable()
		if len(models) == 0 {
			fmt.Printf("No models found in %s. Drop a .gguf file there to get started.\n", a.cfg.ModelsDir)
			return nil
		}

		for _, m := range models {
			marker := " "
			if m.Name == a.cfg.Model {
				marker = "*"
			}
			tags := ""
			if m.Params != "" {
				tags += " " + m.Params
			}
			if m.Quant != "" {
				tags += " " + m.Quant
			}
			fmt.Printf("%s %-40s%s  %.1f MB\n", marker, m.Name, tags, float64(m.SizeBytes)/(1024*1024))
		}
		return nil
	},
}
