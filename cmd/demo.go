package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/rolecall/internal/cache"
	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/repository/memory"
	"github.com/msomdec/rolecall/internal/service"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the roster, cache, counter and batch fetch walkthrough",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg.FetchDelay, cfg.CounterDelay)
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Duration("fetch-delay", service.DefaultFetchDelay, "simulated latency of each batch fetch")
	v.BindPFlag("fetch_delay", demoCmd.Flags().Lookup("fetch-delay"))
}

func runDemo(ctx context.Context, out io.Writer, fetchDelay, counterDelay time.Duration) error {
	users := defaultUsers()
	users[2].Deactivate()

	repo := memory.NewUserRepository()
	roster := service.NewUserService(repo, cache.NewLocal[domain.User]())
	for i := range users {
		if err := roster.Save(ctx, &users[i]); err != nil {
			return fmt.Errorf("save %s: %w", users[i].Name, err)
		}
	}

	byRole, err := roster.GroupByRole(ctx, true)
	if err != nil {
		return fmt.Errorf("group users: %w", err)
	}
	for _, role := range domain.Roles() {
		if group, ok := byRole[role]; ok {
			fmt.Fprintf(out, "Role %s: %d users\n", role, len(group))
		}
	}

	for _, line := range service.TransformUsers(users, func(u domain.User) string {
		return fmt.Sprintf("%s: %s", u.Name, u.Email)
	}) {
		fmt.Fprintln(out, line)
	}

	values := cache.New[string]()
	values.Set("key1", "value1")
	values.Set("key2", "value2")
	if value, ok := values.Get("key1"); ok {
		fmt.Fprintf(out, "Found in cache: %s\n", value)
	}
	fmt.Fprintf(out, "Cache holds %d entries: %s\n", values.Len(), strings.Join(values.Keys(), ", "))

	start := time.Now()
	count := service.ConcurrentCounter(4, 100, service.WithDelay(counterDelay))
	fmt.Fprintf(out, "Final count: %d (%s)\n", count, time.Since(start).Round(time.Millisecond))

	for _, u := range users {
		fmt.Fprintf(out, "%s is a %s\n", u.Name, u.Role.Describe())
	}

	fetched, err := service.ProcessUserBatch(ctx, service.SimulatedFetcher{Delay: fetchDelay}, []uint64{1, 2, 3, 4})
	if err != nil {
		return fmt.Errorf("batch fetch: %w", err)
	}
	fmt.Fprintf(out, "Fetched %d users\n", len(fetched))
	for _, u := range fetched {
		fmt.Fprintf(out, "  %d %s <%s>\n", u.ID, u.Name, u.Email)
	}
	return nil
}
