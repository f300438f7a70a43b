package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sanonone/dimembed/pkg/agent"
	"github.com/sanonone/dimembed/pkg/config"
	"github.com/sanonone/dimembed/pkg/embedding"
	"github.com/sanonone/dimembed/pkg/graph"
)

func main() {
	var (
		configPath string
		graphPath  string
		skipEmbed  bool
		ag         *agent.Agent
		cfg        config.Config
	)

	root := &cobra.Command{
		Use:          "dimembed",
		Short:        "Dimensional embedding of typed, weighted graphs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if graphPath != "" {
				cfg.GraphFile = graphPath
			}
			if cfg.GraphFile == "" {
				return fmt.Errorf("no graph file: set graph_file, %s or --graph", config.EnvGraphFile)
			}

			g, err := graph.LoadFile(cfg.GraphFile)
			if err != nil {
				return err
			}

			logger := cfg.Logger()
			eng, err := embedding.New(cfg.EngineOptions(logger)...)
			if err != nil {
				return err
			}
			ag = agent.New(eng, g, cfg.EdgeTypes, logger)

			// Nothing survives the process, so one-shot queries need a
			// fresh embedding of the configured types.
			if !skipEmbed {
				return ag.OnTick()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
	root.PersistentFlags().StringVarP(&graphPath, "graph", "g", "", "path to the YAML graph file (overrides graph_file)")
	root.PersistentFlags().BoolVar(&skipEmbed, "no-embed", false, "skip the initial embedding of configured edge types")

	root.AddCommand(agent.Commands(func() *agent.Agent { return ag })...)

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run scheduled ticks until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sched, err := agent.NewScheduler(ag, cfg.Schedule)
			if err != nil {
				return err
			}
			sched.Start()

			shutdownChan := make(chan os.Signal, 1)
			signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
			<-shutdownChan

			// wait for a running tick to finish
			<-sched.Stop().Done()
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
