package taxonomy

import "testing"

func TestPhase_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		phase Phase
		want  bool
	}{
		{"hunt is valid", PhaseHunt, true},
		{"detect is valid", PhaseDetect, true},
		{"disrupt is valid", PhaseDisrupt, true},
		{"disable is valid", PhaseDisable, true},
		{"dominate is valid", PhaseDominate, true},
		{"empty is invalid", Phase(""), false},
		{"unknown is invalid", Phase("destroy"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.IsValid(); got != tt.want {
				t.Errorf("Phase.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPhase_Next(t *testing.T) {
	tests := []struct {
		name   string
		phase  Phase
		want   Phase
		wantOK bool
	}{
		{"hunt advances to detect", PhaseHunt, PhaseDetect, true},
		{"detect advances to disrupt", PhaseDetect, PhaseDisrupt, true},
		{"disrupt advances to disable", PhaseDisrupt, PhaseDisable, true},
		{"disable advances to dominate", PhaseDisable, PhaseDominate, true},
		{"dominate has no successor", PhaseDominate, "", false},
		{"invalid has no successor", Phase("bogus"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.phase.Next()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Phase.Next() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPhase_Index(t *testing.T) {
	for i, phase := range Phases() {
		if got := phase.Index(); got != i {
			t.Errorf("Phase(%s).Index() = %d, want %d", phase, got, i)
		}
	}
	if got := Phase("bogus").Index(); got != -1 {
		t.Errorf("invalid Phase.Index() = %d, want -1", got)
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	if !PhaseDominate.IsTerminal() {
		t.Error("PhaseDominate.IsTerminal() = false, want true")
	}
	if PhaseHunt.IsTerminal() {
		t.Error("PhaseHunt.IsTerminal() = true, want false")
	}
}

func TestParsePhase(t *testing.T) {
	phase, err := ParsePhase("disrupt")
	if err != nil {
		t.Fatalf("ParsePhase(disrupt) returned error: %v", err)
	}
	if phase != PhaseDisrupt {
		t.Errorf("ParsePhase(disrupt) = %v, want %v", phase, PhaseDisrupt)
	}

	if _, err := ParsePhase("conquer"); err == nil {
		t.Error("ParsePhase(conquer) expected error, got nil")
	}
}
