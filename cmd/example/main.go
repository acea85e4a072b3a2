package main

import (
	"context"
	"fmt"
	"log"

	"go.uber.org/zap"

	radarly "github.com/linkfluence/radarly-go"
	"github.com/linkfluence/radarly-go/pkg/types"
)

func main() {
	// Credentials come from RADARLY_CLIENT_ID / RADARLY_CLIENT_SECRET
	// (a .env file is honored).
	config, err := radarly.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	config.Logger = logger

	client, err := radarly.NewClient(config)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("failed to connect to Radarly: %v", err)
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		log.Fatalf("failed to get current user: %v", err)
	}
	fmt.Printf("Authenticated as %s %s (%s)\n", user.FirstName, user.LastName, user.Email)

	if len(user.Projects) == 0 {
		fmt.Println("No projects available for this account")
		return
	}

	for _, summary := range user.Projects {
		fmt.Printf("  project %d: %s\n", summary.ID, summary.Label)
	}

	// Explore the first project: labels, latest publications, a volume curve.
	project, err := client.GetProject(ctx, user.Projects[0].ID)
	if err != nil {
		log.Fatalf("failed to get project: %v", err)
	}
	fmt.Printf("Project %q holds %d documents across %d focuses\n",
		project.Label, project.DocsCount, len(project.Focuses))

	focusLabels := radarly.FocusLabels(project)

	pubs, err := client.SearchPublications(ctx, project.ID, &types.SearchRequest{
		Pagination: types.Pagination{Limit: 10},
		SortBy:     "date",
		SortOrder:  "desc",
	})
	if err != nil {
		log.Fatalf("failed to search publications: %v", err)
	}
	fmt.Printf("Latest publications (%d total):\n", pubs.Total)
	for _, pub := range pubs.Publications {
		fmt.Printf("  [%s] %s\n", pub.Platform, pub.Permalink)
	}

	analytics, err := client.GetAnalytics(ctx, project.ID, &types.AnalyticsRequest{
		Fields:   []string{"volumetry", "reach"},
		Interval: "day",
	})
	if err != nil {
		log.Fatalf("failed to get analytics: %v", err)
	}
	for _, interval := range analytics.Intervals {
		for metric, count := range interval.Counts {
			fmt.Printf("  %s %s=%d\n", interval.Date.Format("2006-01-02"), focusLabels.Lookup(metric), count)
		}
	}

	for _, quota := range client.RateLimits() {
		fmt.Printf("quota %s: %d/%d used\n", quota.Endpoint, quota.Used, quota.Max)
	}
}
