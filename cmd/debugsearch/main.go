// Command debugsearch scrapes every supported engine for one query and prints
// the links each engine yields plus the merged, de-duplicated list. It is a
// quick check for result page markup changes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/browseassist/internal/aggregate"
	"github.com/hyperifyio/browseassist/internal/fetch"
	"github.com/hyperifyio/browseassist/internal/search"
	"github.com/hyperifyio/browseassist/internal/serp"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	q := "What is love?"
	if len(os.Args) > 1 {
		q = strings.Join(os.Args[1:], " ")
	}
	client := &fetch.Client{HTTPClient: &http.Client{Timeout: 20 * time.Second}, MaxAttempts: 2}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	groups := make([][]search.Result, len(serp.Engines))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range serp.Engines {
		i, e := i, e
		g.Go(func() error {
			p := &serp.Provider{Engine: e, Getter: client}
			res, err := p.Search(gctx, q, 10)
			if err != nil {
				log.Warn().Err(err).Str("engine", e.String()).Msg("search failed")
				return nil
			}
			groups[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for i, e := range serp.Engines {
		fmt.Printf("== %s (%d)\n", e, len(groups[i]))
		for j, r := range groups[i] {
			fmt.Printf("%d. %s - %s\n", j+1, r.Title, r.URL)
		}
	}
	merged := aggregate.MergeAndNormalize(groups)
	fmt.Printf("== merged (%d)\n", len(merged))
	for i, r := range merged {
		fmt.Printf("%d. %s\n", i+1, r.URL)
	}
}
