package platform

import "testing"

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		want Platform
	}{
		{"120919_SN7001250_0035_BC133VACXX", HiSeq},
		{"130415_D00123_0021_AH0AWJADXX", HiSeq},
		{"150721_K00150_0012_BH2VYMBBXX", HiSeq},
		{"121210_M00123_0005_000000000-A2WJD", MiSeq},
		{"160108_NS500625_0047_AHWJ5GBGXX", NextSeq},
		{"170302_NB501505_0033_AHWJ5GBGXX", NextSeq},
		{"100518_HWI-EAS229_0089_FC61MV3", GA2x},
		{"081222_677_1029", GA2x},
		{"120919_XY999_0001_FLOWCELL", Unknown},
		{"not_a_run_directory", Unknown},
		{"", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identify(tt.name); got != tt.want {
				t.Errorf("Identify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLooksLikeRun(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"120919_SN7001250_0035_BC133VACXX", true},
		{"081222_677_1029", true},
		{"Unaligned", false},
		{"2012_backup", false},
		{"120919_SN7001250", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeRun(tt.name); got != tt.want {
				t.Errorf("LooksLikeRun(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestDefaultDescription(t *testing.T) {
	if got := DefaultDescription("121210_M00123_0005_000000000-A2WJD"); got != "miseq run" {
		t.Errorf("DefaultDescription = %q, want %q", got, "miseq run")
	}
	if got := DefaultDescription("random"); got != "" {
		t.Errorf("DefaultDescription(random) = %q, want empty", got)
	}
}
