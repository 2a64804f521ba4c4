package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/martynrees/airrm-report/internal/reportgen"
)

func main() {
	var err error
	var configFile string
	var outputFile string
	var config reportgen.Config

	rootCmd := &cobra.Command{
		Use:   "airrmreport",
		Short: "Collect AI-RRM metrics from Catalyst Center and generate a performance report",
		// Main Entry Point
		Run: func(c *cobra.Command, args []string) {
			reportgen.ApplyEnv(&config)
			if outputFile != "" {
				config.Report.Output = outputFile
			}

			// Init
			gen, err := reportgen.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = gen.Run()
			if err != nil {
				log.Fatalf("Failed on run: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Path to configuration")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Report output path (default: output/airrm_report_TIMESTAMP.txt)")

	// Default Values
	viper.SetDefault("collect.health_threshold", 70.0)
	viper.SetDefault("collect.changes_threshold", 100)
	viper.SetDefault("collect.building_scope_types", []string{"RRM Schedule Configuration"})

	// Read Configuration File Before Start
	cobra.OnInitialize(func() {
		_, err := os.Stat(configFile)
		if os.IsNotExist(err) {
			envConfFile := os.Getenv("CONFIG_FILE")
			if envConfFile != "" {
				_, err := os.Stat(envConfFile)
				if os.IsNotExist(err) {
					log.Fatalf("Config file %s does not exist!", envConfFile)
				}

				configFile = envConfFile
			} else {
				// credentials can come entirely from the environment
				log.Printf("Config file %s does not exist, relying on environment", configFile)
				return
			}
		}

		viper.SetConfigFile(configFile)
		viper.SetConfigType("json")
		err = viper.ReadInConfig()
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}

		err = viper.Unmarshal(&config)
		if err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}

		log.Printf("Loaded config file: %s", configFile)
	})

	// Launch (cobra.OnInitialize -> rootCmd.Run)
	err = rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
