package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/martynrees/airrm-report/internal/reportserver"
)

func main() {
	var err error
	var configFile string
	var config reportserver.Config

	rootCmd := &cobra.Command{
		Use:   "airrmrepd",
		Short: "API server exposing the latest AI-RRM collection run to the presentation layer",
		// Main Entry Point
		Run: func(c *cobra.Command, args []string) {
			// Init
			s, err := reportserver.New(config)
			if err != nil {
				log.Fatalf("Failed on init: %v", err)
			}

			err = s.Run()
			if err != nil {
				log.Fatalf("Failed on start: %v", err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.json", "Path to configuration")

	// Defaults
	viper.SetDefault("http.listen", ":8080")
	viper.SetDefault("http.server_name", "airrmrepd")
	viper.SetDefault("db.driver", "sqlite")
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
				log.Fatalf("Config file %s does not exist!", configFile)
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
