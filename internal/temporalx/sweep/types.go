package sweep

const (
	WorkflowName      = "provenance_sweep"
	ActivityListStale = "provenance_sweep_list_stale"
	ActivityCalibrate = "provenance_sweep_calibrate"
)

type Input struct {
	OrganizationID string `json:"organization_id"`
	StaleLimit     int    `json:"stale_limit,omitempty"`
	Calibrate      bool   `json:"calibrate,omitempty"`
}

type StaleSummary struct {
	Count    int      `json:"count"`
	LabelIDs []string `json:"label_ids,omitempty"`
	MaxDays  int      `json:"max_stale_days"`
}

type CalibrationSummary struct {
	Proposals  int `json:"proposals"`
	Calibrated int `json:"calibrated"`
	// Drifted counts proposals whose yield moved off the component default.
	Drifted int `json:"drifted"`
}

type Result struct {
	OrganizationID string              `json:"organization_id"`
	Stale          StaleSummary        `json:"stale"`
	Calibration    *CalibrationSummary `json:"calibration,omitempty"`
}
