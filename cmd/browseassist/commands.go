package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/browseassist/internal/app"
	"github.com/hyperifyio/browseassist/internal/protocol"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the message endpoint for the browser extension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), o.cfg)
			if err != nil {
				return err
			}
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&o.cfg.Addr, "addr", "", "listen address")
	cmd.Flags().DurationVar(&o.cfg.RequestTimeout, "request.timeout", 0, "per-message handling timeout")
	return cmd
}

func newChatCmd(o *options) *cobra.Command {
	var pageContext string
	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the model directly, optionally about page content",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			page, err := readContext(pageContext)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeChat, Message: msg, PageContext: page})
		},
	}
	cmd.Flags().StringVar(&pageContext, "page", "", "file holding page text to include")
	return cmd
}

func newAskCmd(o *options) *cobra.Command {
	var pageContext string
	cmd := &cobra.Command{
		Use:   "ask [message...]",
		Short: "Answer a message, searching the web when it needs fresh information",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			page, err := readContext(pageContext)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeAsk, Message: msg, PageContext: page})
		},
	}
	cmd.Flags().StringVar(&pageContext, "page", "", "file holding page text to include")
	return cmd
}

func newWriteCmd(o *options) *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "write [text...]",
		Short: "Generate text, or rewrite it with --action improve|shorten|expand|grammar",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			req := protocol.Request{Type: protocol.TypeWriting, Prompt: text}
			if action != "" {
				req = protocol.Request{Type: protocol.TypeWriting, Action: action, Text: text}
			}
			return o.dispatch(cmd, req)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "rewrite action applied to the text")
	return cmd
}

func newTranslateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text to English",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeTranslate, Text: text})
		},
	}
}

func newOCRCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ocr <image-url>",
		Short: "Extract text from an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeOCR, ImageSrc: args[0]})
		},
	}
}

func newSearchCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "List web search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeWebSearch, Query: q, MaxResults: limit})
		},
	}
	cmd.Flags().IntVar(&limit, "max", 0, "maximum results (default 5)")
	return cmd
}

func newReadCmd(o *options) *cobra.Command {
	var (
		engine string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "read [query...]",
		Short: "Search one engine, read the top pages and answer from them",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeSearchAndRead, Query: q, Engine: engine, MaxResults: limit})
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "google", "google, bing or duckduckgo")
	cmd.Flags().IntVar(&limit, "max", 0, "results to read (default 5)")
	return cmd
}

func newResearchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "research [query...]",
		Short: "Research a query across engines, falling back to the model alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeResearch, Query: q})
		},
	}
}

func newVisitCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <url>",
		Short: "Fetch a page and print its readable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeVisitURL, URL: args[0]})
		},
	}
}

func newValidateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured model endpoint answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.dispatch(cmd, protocol.Request{Type: protocol.TypeValidateConfig})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "browseassist %s (commit %s, built %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
			return err
		},
	}
}

// dispatch builds the app and handles one request through the same path the
// HTTP endpoint uses.
func (o *options) dispatch(cmd *cobra.Command, req protocol.Request) error {
	a, err := app.New(cmd.Context(), o.cfg)
	if err != nil {
		return err
	}
	resp := a.Dispatcher.Handle(cmd.Context(), req)
	return o.print(cmd.OutOrStdout(), resp)
}

// textArg joins args, or reads stdin when the only argument is "-".
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return strings.Join(args, " "), nil
}

func readContext(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read page context: %w", err)
	}
	return string(b), nil
}
