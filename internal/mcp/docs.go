package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `streaks tracks habits and irregular events, grouped into categories.

Core concepts:
- Category: a titled group of trackers. At most one category is selected.
- Tracker: a habit with a weekly schedule (weekdays mon..sun) or an irregular event (no schedule).
- Completion: a tracker marked done on one calendar day. Each (tracker, day) pair is recorded once.
- Board: the categories and trackers visible for a date, after filter and search.

Typical workflow:
1) Orient: call get_board (today by default) or list_categories with include_trackers=true.
2) Mark progress: toggle_completion, or complete_tracker / uncomplete_tracker for idempotent writes.
3) Manage: create_tracker (category defaults to the selected one), update_tracker, pin_tracker, delete_tracker.
4) Review: get_statistics for best streak, perfect days, totals and the per-day average.

Dates are YYYY-MM-DD in the server timezone. Omitted dates mean today.

Docs:
- streaks://docs/index
- streaks://docs/concepts
- streaks://docs/board
- streaks://docs/statistics
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "streaks://docs/index",
		Name:        "docs_index",
		Title:       "streaks docs index",
		Description: "What to read when, and which tool answers which question.",
		Content: `# streaks docs

- **concepts**: categories, trackers, schedules and completions.
- **board**: how get_board decides which trackers are visible.
- **statistics**: how get_statistics computes its four numbers.

## Which tool?

| Question | Tool |
| --- | --- |
| What is due today? | ` + "`get_board`" + ` |
| Did I do X on a day? | ` + "`get_completion`" + ` |
| Mark X done | ` + "`toggle_completion`" + ` or ` + "`complete_tracker`" + ` |
| How am I doing overall? | ` + "`get_statistics`" + ` |
| What happened recently? | ` + "`get_recent_activity`" + ` |
`,
	},
	{
		URI:         "streaks://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts",
		Description: "Domain model: categories, trackers, schedules, completions.",
		Content: `# Concepts

## Category

A titled group of trackers. Titles are unique. Deleting a category that still owns trackers fails with ` + "`CATEGORY_NOT_EMPTY`" + `.
One category may be selected; new trackers land there when ` + "`category_id`" + ` is omitted.

## Tracker

- ` + "`title`" + ` up to 38 characters, plus ` + "`color`" + ` and ` + "`emoji`" + `.
- ` + "`schedule`" + `: weekdays such as ` + "`[\"mon\",\"wed\",\"fri\"]`" + ` or ISO numbers 1..7. Empty means irregular.
- Irregular trackers are due every day.
- ` + "`pinned`" + ` trackers can be grouped first on the board.

## Completion

A completion records that a tracker was done on a calendar day in the server timezone.
Writing the same day twice is a no-op. ` + "`days_completed`" + ` counts distinct days.
`,
	},
	{
		URI:         "streaks://docs/board",
		Name:        "docs_board",
		Title:       "Board projection",
		Description: "Recurrence, filter and search steps behind get_board.",
		Content: `# Board

` + "`get_board`" + ` applies three steps in order and drops empty categories after each:

1. **Recurrence**: keep trackers due on the date.
2. **Filter**: ` + "`all`" + `, ` + "`today`" + ` (forces the date to today), ` + "`completed`" + ` or ` + "`not_completed`" + ` on the date.
3. **Search**: case-insensitive substring match on the title.

With ` + "`group_pinned=true`" + ` pinned trackers move into a leading "Pinned" group.
A board with no categories reports ` + "`empty=true`" + `.
`,
	},
	{
		URI:         "streaks://docs/statistics",
		Name:        "docs_statistics",
		Title:       "Statistics",
		Description: "Definitions of best streak, perfect days, total and average.",
		Content: `# Statistics

- **best_streak**: longest run of consecutive calendar days with at least one completion.
- **perfect_days**: days where every tracker due that day was completed. A day with nothing due never counts.
- **total_completed**: number of completion records.
- **average_per_day**: total divided by distinct days, rounded down.

All four are 0 when nothing has been recorded.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
