package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/adviz/schema"
)

// ToolArgs holds per-request overrides from an MCP tool call. Zero values
// keep whatever the base config already has.
type ToolArgs struct {
	DetectorID string
	Start      string
	End        string
	Entities   []string
	Children   []string
	Feature    string
	MaxPoints  int
	NumCells   int
	Top        int
	Sort       string
}

// RevalidateToolArgs applies the tool arguments to a cloned config and runs
// the same checks the CLI runs on the equivalent flags.
func RevalidateToolArgs(cfg *Config, args ToolArgs) error {
	if id := strings.TrimSpace(args.DetectorID); id != "" {
		cfg.DetectorID = id
	}
	if cfg.DetectorID == "" {
		return fmt.Errorf("detector_id is required")
	}

	if args.Start != "" || args.End != "" {
		input := &ConfigRawInput{Start: args.Start, End: args.End}
		if err := processTimeRange(cfg, input); err != nil {
			return err
		}
	}

	if len(args.Entities) > 0 || len(args.Children) > 0 {
		input := &ConfigRawInput{Entity: args.Entities, Child: args.Children}
		if err := processEntities(cfg, input); err != nil {
			return err
		}
	}

	if f := strings.TrimSpace(args.Feature); f != "" {
		cfg.Feature = f
	}

	if args.MaxPoints != 0 {
		if err := checkRange("max_points", args.MaxPoints, MaxMaxPoints); err != nil {
			return err
		}
		cfg.MaxPoints = args.MaxPoints
	}
	if args.NumCells != 0 {
		if err := checkRange("num_cells", args.NumCells, MaxNumCells); err != nil {
			return err
		}
		cfg.NumCells = args.NumCells
	}
	if args.Top != 0 {
		if err := checkRange("top", args.Top, MaxTopN); err != nil {
			return err
		}
		cfg.TopN = args.Top
	}

	if args.Sort != "" {
		sortType := schema.HeatmapSortType(strings.ToLower(args.Sort))
		if _, ok := schema.ValidSortTypes[sortType]; !ok {
			return fmt.Errorf("invalid sort '%s'. must be severity, occurrence", args.Sort)
		}
		cfg.SortType = sortType
	}
	return nil
}
