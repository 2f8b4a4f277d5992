package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		publicURL string
		output    string
		template  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the deck generation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if publicURL != "" {
				cfg.Server.PublicURL = publicURL
			}
			if output != "" {
				cfg.OutputDir = output
			}
			if template != "" {
				cfg.Template = template
			}

			eng, err := c.newEngine(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			srv, err := server.New(server.Config{
				Runner:    eng.runner,
				Store:     st,
				Options:   cfg.PipelineOptions(),
				PublicURL: cfg.Server.PublicURL,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			printInfo("Serving on %s", StyleLink.Render(cfg.Server.PublicURL))
			err = srv.ListenAndServe(ctx, cfg.Server.Addr)
			if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "base URL of returned download links")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&template, "template", "t", "", "template .pptx (default from config)")
	registerCompletion(cmd, "template", completeTemplateFile)

	return cmd
}
