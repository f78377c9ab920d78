package cmd

import (
	"testing"
)

func TestSplitRunPath(t *testing.T) {
	tests := []struct {
		in      string
		model   string
		runID   string
		wantErr bool
	}{
		{"gpt-5.2/20260301_120000", "gpt-5.2", "20260301_120000", false},
		{"claude-sonnet-4-5/run-a", "claude-sonnet-4-5", "run-a", false},
		{"no-slash", "", "", true},
		{"/run-only", "", "", true},
		{"model-only/", "", "", true},
		{"too/many/parts", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		model, runID, err := splitRunPath(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitRunPath(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitRunPath(%q): %v", tt.in, err)
			continue
		}
		if model != tt.model || runID != tt.runID {
			t.Errorf("splitRunPath(%q) = (%q, %q), want (%q, %q)",
				tt.in, model, runID, tt.model, tt.runID)
		}
	}
}

func TestTierPrefix(t *testing.T) {
	tests := []struct {
		tier    string
		want    string
		wantErr bool
	}{
		{"easy", "e-", false},
		{"medium", "m-", false},
		{"hard", "h-", false},
		{"weird", "", true},
		{"e", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := tierPrefix(tt.tier)
		if tt.wantErr {
			if err == nil {
				t.Errorf("tierPrefix(%q): expected error", tt.tier)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("tierPrefix(%q) = (%q, %v), want %q", tt.tier, got, err, tt.want)
		}
	}
}

func TestSelectTasks(t *testing.T) {
	available := []string{"e-001", "e-002", "m-001"}

	got, err := selectTasks(available, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("no filter should keep all responses, got %v", got)
	}

	got, err = selectTasks(available, []string{"m-001", "e-001"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "e-001" || got[1] != "m-001" {
		t.Errorf("filtered selection = %v, want sorted [e-001 m-001]", got)
	}

	if _, err := selectTasks(available, []string{"e-001", "h-404"}); err == nil {
		t.Error("requesting a task with no cached response must fail")
	}
}
