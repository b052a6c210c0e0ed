package check

import (
	"strings"
	"testing"
)

func TestCeiling_BoundaryIsStrict(t *testing.T) {
	classify := Ceiling(80, "cpu load")

	tests := []struct {
		name  string
		value float64
		want  Status
	}{
		{"well under", 35.5, StatusHealthy},
		{"exactly at threshold", 80, StatusHealthy},
		{"one unit above", 81, StatusWarning},
		{"just above", 80.1, StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, note := classify(Metric{Value: tt.value, Unit: "%"})
			if status != tt.want {
				t.Errorf("Ceiling(80)(%g) = %v, want %v", tt.value, status, tt.want)
			}
			if note == "" {
				t.Error("note should never be empty")
			}
		})
	}
}

func TestFloor_BoundaryIsStrict(t *testing.T) {
	classify := Floor(10, "disk free")

	tests := []struct {
		name  string
		value float64
		want  Status
	}{
		{"well above", 62, StatusHealthy},
		{"exactly at threshold", 10, StatusHealthy},
		{"just below", 9.9, StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := classify(Metric{Value: tt.value, Unit: "%"})
			if status != tt.want {
				t.Errorf("Floor(10)(%g) = %v, want %v", tt.value, status, tt.want)
			}
		})
	}
}

func TestClassifier_NoteIncludesDetail(t *testing.T) {
	classify := Floor(10, "disk free")

	_, note := classify(Metric{Value: 42, Unit: "%", Detail: "mount /"})
	if !strings.Contains(note, "mount /") {
		t.Errorf("note should carry the metric detail, got %q", note)
	}
	if !strings.Contains(note, "42%") {
		t.Errorf("note should carry the value, got %q", note)
	}
}

func TestDefaultThresholds_Valid(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thresholds)
		wantErr bool
	}{
		{"defaults", func(*Thresholds) {}, false},
		{"zero cpu", func(th *Thresholds) { th.CPUPercent = 0 }, true},
		{"percent over 100", func(th *Thresholds) { th.ActiveClientPercent = 101 }, true},
		{"negative eval seconds", func(th *Thresholds) { th.EvalSeconds = -1 }, true},
		{"zero backup age", func(th *Thresholds) { th.BackupAgeHours = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)
			err := th.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
