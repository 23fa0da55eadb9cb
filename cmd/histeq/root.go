package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/histeq-tools/internal/imaging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "histeq",
	Short: "Histogram equalization tools",
	Long: `Equalize the intensity histogram of images, inspect histograms, and
isolate a moving hand from a webcam feed by background difference.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.histeq.yaml)")
	rootCmd.PersistentFlags().String("gray-mode", string(imaging.GrayLuma), "color to intensity conversion: luma or lightness")
	viper.BindPFlag("gray_mode", rootCmd.PersistentFlags().Lookup("gray-mode"))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".histeq" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".histeq")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetEnvPrefix("HISTEQ")

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// grayMode returns the configured color to intensity conversion.
func grayMode() (imaging.GrayMode, error) {
	return imaging.ParseGrayMode(viper.GetString("gray_mode"))
}
