// Package venv implements discovery and classification of Python
// virtual environments on disk.
package venv

// Status represents the health classification of a virtual environment.
type Status string

// Status constants for environment classifications.
const (
	StatusValid        Status = "valid"        // interpreter responds and matches the host architecture
	StatusIncompatible Status = "incompatible" // interpreter responds but reports a foreign architecture
	StatusBroken       Status = "broken"       // interpreter missing, unresponsive, or unparseable
)

// DeriveStatus computes the classification from probe outcomes. A dead
// interpreter is always Broken; architecture only matters once the
// interpreter has answered.
func DeriveStatus(alive, archMatch bool) Status {
	switch {
	case !alive:
		return StatusBroken
	case !archMatch:
		return StatusIncompatible
	default:
		return StatusValid
	}
}

// Package is one installed distribution inside an environment.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Record holds everything learned about one discovered environment.
type Record struct {
	Path          string    `json:"path"`
	Status        Status    `json:"status"`
	SizeBytes     uint64    `json:"size_bytes"`
	AgeDays       uint32    `json:"age_days"`
	PythonArch    string    `json:"python_arch,omitempty"` // normalized, empty when the probe failed
	SystemArch    string    `json:"system_arch"`
	PythonVersion string    `json:"python_version,omitempty"`
	BaseHome      string    `json:"base_home,omitempty"` // home= from pyvenv.cfg
	Packages      []Package `json:"packages,omitempty"`
	PackagesErr   bool      `json:"packages_error,omitempty"`
	Notes         []string  `json:"notes,omitempty"` // non-fatal oddities hit while inspecting
}

// Healthy reports whether the record needs no attention.
func (r Record) Healthy() bool {
	return r.Status == StatusValid
}

// Summary aggregates one scan's records.
type Summary struct {
	Total        int    `json:"total"`
	Broken       int    `json:"broken"`
	Incompatible int    `json:"incompatible"`
	TotalBytes   uint64 `json:"total_bytes"`
}

// Summarize tallies records into a Summary.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		s.Total++
		s.TotalBytes += r.SizeBytes
		switch r.Status {
		case StatusBroken:
			s.Broken++
		case StatusIncompatible:
			s.Incompatible++
		}
	}
	return s
}
