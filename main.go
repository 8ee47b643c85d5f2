package main

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"civicrec-monitor/config"
	"civicrec-monitor/report"
	"civicrec-monitor/site"
)

var (
	configFile string
	exitCode   int
)

func main() {
	root := &cobra.Command{
		Use:   "civicrec-monitor",
		Short: "Watch catalog listings for session availability changes",
	}
	root.PersistentFlags().StringVar(&configFile, "config", "config.json", "path to the JSON config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run one monitoring pass and print the change report",
			RunE:  runCommand,
		},
		&cobra.Command{
			Use:   "daemon",
			Short: "Run monitoring passes on an interval",
			RunE:  daemonCommand,
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the latest report, baseline and calendar feed",
			RunE:  serveCommand,
		},
	)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// runCommand exits 0 when nothing changed, 1 when at least one offering was
// added, removed or changed. A top-level fault still prints a report and
// exits 0, so a scheduler cannot mistake a broken run for a change.
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Print(report.RenderError(err, time.Now()))
		return nil
	}

	text, code, err := runOnce(cfg)
	if err != nil {
		fmt.Print(report.RenderError(err, time.Now()))
		return nil
	}
	fmt.Print(text)
	exitCode = code
	return nil
}

func daemonCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.IntervalMinutes) * time.Minute
	for {
		text, code, err := runOnce(cfg)
		if err != nil {
			log.Errorf("monitoring pass failed: %v", err)
		} else {
			fmt.Print(text)
			if code == report.CodeChanged {
				log.Info("availability changed this pass")
			}
		}
		log.Infof("sleeping %s until next pass", interval)
		time.Sleep(interval)
	}
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	return site.StartServer(cfg)
}
