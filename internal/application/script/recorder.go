package script

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Recorder collects requests issued interactively so they can be replayed
type Recorder struct {
	data Script
}

// NewRecorder creates a new recorder
func NewRecorder() *Recorder {
	return &Recorder{
		data: Script{
			Version:   Version,
			StartTime: time.Now().Format(time.RFC3339),
		},
	}
}

// Record appends st at frame
func (r *Recorder) Record(frame int, st Step) {
	st.F = frame
	r.data.Steps = append(r.data.Steps, st)
}

// Script returns a copy of what has been recorded
func (r *Recorder) Script() Script {
	out := r.data
	out.Steps = append([]Step(nil), r.data.Steps...)
	return out
}

// StepCount returns the number of recorded steps
func (r *Recorder) StepCount() int {
	return len(r.data.Steps)
}

// Save writes the script to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Steps) == 0 {
		return fmt.Errorf("no steps to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}

	return nil
}

// GenerateFilename returns a timestamped script name
func GenerateFilename() string {
	return fmt.Sprintf("script_%s.json", time.Now().Format("20060102_150405"))
}
