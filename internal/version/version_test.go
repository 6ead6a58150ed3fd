package version

import (
	"errors"
	"testing"
)

func TestNext(t *testing.T) {
	tests := []struct {
		current string
		inc     Increment
		preID   string
		want    string
	}{
		{"3.2.0", Minor, "", "3.3.0"},
		{"3.2.0", Patch, "", "3.2.1"},
		{"3.2.0", Major, "", "4.0.0"},
		{"3.2.1", Minor, "", "3.3.0"},
		{"3.0.0-beta.2", Patch, "", "3.0.0"},
		{"3.0.0-beta.2", Minor, "", "3.0.0"},
		{"3.0.0-beta.2", Major, "", "3.0.0"},
		{"3.1.0-beta.2", Major, "", "4.0.0"},
		{"3.0.0-beta.2", PreRelease, "", "3.0.0-beta.3"},
		{"3.0.0-beta.2", PreRelease, "rc", "3.0.0-rc.0"},
		{"3.0.0-beta.2", PrePatch, "", "3.0.1-beta.0"},
		{"3.0.0-beta.2", PreMinor, "", "3.1.0-beta.0"},
		{"3.0.0-beta.2", PreMajor, "", "4.0.0-beta.0"},
		{"3.2.0", PreRelease, "alpha", "3.2.1-alpha.0"},
		{"3.2.0", PreMinor, "alpha", "3.3.0-alpha.0"},
		{"3.0.0-beta", PreRelease, "", "3.0.0-beta.0"},
	}

	for _, tt := range tests {
		t.Run(tt.current+"/"+string(tt.inc)+"/"+tt.preID, func(t *testing.T) {
			got, err := Next(tt.current, tt.inc, tt.preID)
			if err != nil {
				t.Fatalf("Next(%q, %s, %q) error: %v", tt.current, tt.inc, tt.preID, err)
			}
			if got != tt.want {
				t.Errorf("Next(%q, %s, %q) = %q, want %q", tt.current, tt.inc, tt.preID, got, tt.want)
			}
		})
	}
}

func TestNext_preWithoutIdentifier(t *testing.T) {
	_, err := Next("3.2.0", PreRelease, "")
	if !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement, got %v", err)
	}
}

func TestNext_invalidIdentifier(t *testing.T) {
	_, err := Next("3.2.0", PrePatch, "be ta")
	if !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement, got %v", err)
	}
}

func TestNext_invalidCurrent(t *testing.T) {
	_, err := Next("not-a-version", Patch, "")
	if !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1.2.3", "1.2.3", false},
		{" 1.2.3 ", "1.2.3", false},
		{"1.2.3-rc.1", "1.2.3-rc.1", false},
		{"1.2", "", true},
		{"v1.2.3", "", true},
		{"", "", true},
		{"1.2.3.4", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Validate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Fatalf("Validate(%q) error = %v, want ErrInvalidVersion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreID(t *testing.T) {
	tests := map[string]string{
		"3.0.0":        "",
		"3.0.0-beta.1": "beta",
		"3.0.0-rc":     "rc",
		"3.0.0-0":      "",
		"garbage":      "",
	}
	for in, want := range tests {
		if got := PreID(in); got != want {
			t.Errorf("PreID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCandidates_stable(t *testing.T) {
	cands, err := Candidates("3.2.0", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates without pre-release id, got %d", len(cands))
	}
	if cands[1].Increment != Minor || cands[1].Version != "3.3.0" {
		t.Errorf("cands[1] = %+v, want minor 3.3.0", cands[1])
	}
}

func TestCandidates_reusesCurrentChannel(t *testing.T) {
	cands, err := Candidates("3.0.0-beta.4", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 7 {
		t.Fatalf("expected 7 candidates on a beta line, got %d", len(cands))
	}
	last := cands[len(cands)-1]
	if last.Increment != PreRelease || last.Version != "3.0.0-beta.5" {
		t.Errorf("prerelease candidate = %+v, want 3.0.0-beta.5", last)
	}
}

func TestParseIncrement(t *testing.T) {
	if inc, err := ParseIncrement("Minor"); err != nil || inc != Minor {
		t.Errorf("ParseIncrement(Minor) = %q, %v", inc, err)
	}
	if _, err := ParseIncrement("sideways"); !errors.Is(err, ErrInvalidIncrement) {
		t.Errorf("expected ErrInvalidIncrement, got %v", err)
	}
}
