package schema

// CheckItem holds the outcome of one environment preflight probe.
type CheckItem struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// CheckResult holds the results of an environment preflight.
type CheckResult struct {
	Passed bool        `json:"passed"`
	Items  []CheckItem `json:"items"`
}
