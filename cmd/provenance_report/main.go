package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mealprep-backend/internal/app"
	"github.com/yungbote/mealprep-backend/internal/modules/labels/lineage"
	"github.com/yungbote/mealprep-backend/internal/modules/production/yield"
	"github.com/yungbote/mealprep-backend/internal/platform/ctxutil"
)

type report struct {
	OrganizationID string                      `json:"organization_id"`
	StaleLabels    []lineage.StaleLabel        `json:"stale_labels,omitempty"`
	Calibrations   []yield.CalibrationProposal `json:"calibrations,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code so deferred cleanup finishes before exit.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("provenance_report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var orgRaw string
	var stale, calibrate bool
	var limit int
	fs.StringVar(&orgRaw, "org", "", "organization_id to report on (required)")
	fs.BoolVar(&stale, "stale", true, "include stale SKU labels")
	fs.BoolVar(&calibrate, "calibrate", false, "include yield calibration proposals")
	fs.IntVar(&limit, "limit", lineage.MaxStaleResults, "max stale labels")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	orgID, err := uuid.Parse(strings.TrimSpace(orgRaw))
	if err != nil || orgID == uuid.Nil {
		fmt.Fprintln(stderr, "a valid -org organization_id is required")
		return 2
	}

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(stderr, "init app: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{OrganizationID: orgID})
	out := report{OrganizationID: orgID.String()}

	if stale {
		out.StaleLabels, err = application.Services.LabelProvenance.ListStale(ctx, limit)
		if err != nil {
			fmt.Fprintf(stderr, "list stale labels: %v\n", err)
			return 1
		}
	}
	if calibrate {
		out.Calibrations, err = application.Services.YieldCalibration.ProposeAll(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "propose calibrations: %v\n", err)
			return 1
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "encode report: %v\n", err)
		return 1
	}
	return 0
}
