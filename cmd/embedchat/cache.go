package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/embedchat-ai/embedchat/pkg/models"
)

// The caches live in the server process, so unlike a database-backed cache
// these commands talk to a running server's diagnostics endpoints.
func newCacheCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response caches of a running server",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Get(strings.TrimRight(addr, "/") + "/api/cache/stats")
			if err != nil {
				return fmt.Errorf("fetch cache stats: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %d", resp.StatusCode)
			}

			var stats map[string]models.CacheStats
			if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
				return fmt.Errorf("decode cache stats: %w", err)
			}

			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CACHE\tENTRIES\tCAPACITY\tWEIGHT\tHITS\tMISSES")
			for _, name := range names {
				st := stats[name]
				capacity := "-"
				weight := "-"
				if st.MaxItems > 0 {
					capacity = fmt.Sprintf("%d items", st.MaxItems)
				}
				if st.MaxWeight > 0 {
					capacity = fmt.Sprintf("%d chars", st.MaxWeight)
					weight = fmt.Sprintf("%d", st.CurrentWeight)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%d\n",
					name, st.Count, capacity, weight, st.Hits, st.Misses)
			}
			return w.Flush()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Post(strings.TrimRight(addr, "/")+"/api/cache/clear", "application/json", nil)
			if err != nil {
				return fmt.Errorf("clear caches: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned %d", resp.StatusCode)
			}
			fmt.Println("All cache entries cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080", "base URL of the running server")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
