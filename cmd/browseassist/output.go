package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hyperifyio/browseassist/internal/protocol"
)

// print writes resp as JSON or as plain text. A failed response becomes the
// command's error in both modes.
func (o *options) print(w io.Writer, resp protocol.Response) error {
	if o.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	if !resp.Success {
		return errors.New(resp.Error)
	}
	if o.jsonOut {
		return nil
	}
	return writeText(w, resp)
}

func writeText(w io.Writer, resp protocol.Response) error {
	if resp.Notice != "" {
		fmt.Fprintf(w, "note: %s\n\n", resp.Notice)
	}
	if resp.Title != "" {
		fmt.Fprintf(w, "%s\n%s\n\n", resp.Title, resp.URL)
	}
	for _, body := range []string{resp.Content, resp.Answer, resp.Text, resp.TranslatedText} {
		if body != "" {
			fmt.Fprintln(w, body)
			break
		}
	}
	if len(resp.Results) > 0 && resp.Content == "" {
		for i, r := range resp.Results {
			fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, r.Title, r.URL)
			if r.Snippet != "" {
				fmt.Fprintf(w, "   %s\n", r.Snippet)
			}
		}
	}
	if len(resp.Sources) > 0 {
		fmt.Fprintln(w)
		for _, s := range resp.Sources {
			fmt.Fprintf(w, "[%s] %s\n", s.ID, s.URL)
		}
	}
	return nil
}
