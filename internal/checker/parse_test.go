package checker

import (
	"testing"
)

func TestParseFileVaultStatus(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{"FileVault is On.", true},
		{"FileVault is Off.", false},
		{"FileVault is Off, but will be enabled after the next restart.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := parseFileVaultStatus(tt.output); got != tt.want {
			t.Errorf("parseFileVaultStatus(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestParseAirportNetwork(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   WifiInfo
	}{
		{"joined", "Current Wi-Fi Network: EAIguest\n", WifiInfo{Connected: true, Network: "EAIguest"}},
		{"not associated", "You are not associated with an AirPort network.\n", WifiInfo{}},
		{"wifi off", "AirPort: Off\n", WifiInfo{}},
		{"empty", "", WifiInfo{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseAirportNetwork(tt.output); got != tt.want {
				t.Errorf("parseAirportNetwork(%q) = %+v, want %+v", tt.output, got, tt.want)
			}
		})
	}
}

func TestParsePasswordMinLength(t *testing.T) {
	tests := []struct {
		output string
		want   int
	}{
		{`minChars=8`, 8},
		{`policyAttributeMinimumLength">12`, 12},
		{"no policy here", 0},
		{"minChars=", 0},
	}
	for _, tt := range tests {
		if got := parsePasswordMinLength(tt.output); got != tt.want {
			t.Errorf("parsePasswordMinLength(%q) = %d, want %d", tt.output, got, tt.want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"300 seconds", 300},
		{"42", 42},
		{"x1", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := leadingInt(tt.in); got != tt.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPlistHelpers(t *testing.T) {
	dict := map[string]any{
		"boolTrue": true,
		"intOne":   int64(1),
		"intZero":  uint64(0),
		"interval": int64(300),
		"aString":  "nope",
	}

	if !plistBool(dict, "boolTrue", false) {
		t.Error("boolTrue should read true")
	}
	if !plistBool(dict, "intOne", false) {
		t.Error("integer 1 should count as true")
	}
	if plistBool(dict, "intZero", true) {
		t.Error("integer 0 should count as false")
	}
	if !plistBool(dict, "missing", true) {
		t.Error("missing key should return the default")
	}
	if plistBool(dict, "aString", false) {
		t.Error("non-boolean value should return the default")
	}

	if got := plistInt(dict, "interval", 0); got != 300 {
		t.Errorf("plistInt(interval) = %d, want 300", got)
	}
	if got := plistInt(dict, "missing", 7); got != 7 {
		t.Errorf("plistInt(missing) = %d, want default 7", got)
	}
}

func TestParseOSRelease(t *testing.T) {
	content := `NAME="Ubuntu"
VERSION_ID="22.04"
ID=ubuntu
# a comment
PRETTY_NAME="Ubuntu 22.04.3 LTS"
`
	fields := parseOSRelease(content)
	if fields["ID"] != "ubuntu" {
		t.Errorf("ID = %q, want ubuntu", fields["ID"])
	}
	if fields["VERSION_ID"] != "22.04" {
		t.Errorf("VERSION_ID = %q, want 22.04", fields["VERSION_ID"])
	}
	if _, ok := fields["# a comment"]; ok {
		t.Error("comments should be skipped")
	}
}

func TestParseNmcliWifi(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   WifiInfo
	}{
		{"active row", "no:OtherNet\nyes:EAIguest\nno:Cafe\n", WifiInfo{Connected: true, Network: "EAIguest"}},
		{"no active row", "no:OtherNet\nno:Cafe\n", WifiInfo{}},
		{"empty", "", WifiInfo{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNmcliWifi(tt.output); got != tt.want {
				t.Errorf("parseNmcliWifi = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAptPeriodic(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantMode UpdateMode
		wantOn   bool
	}{
		{
			"unattended upgrades",
			"APT::Periodic::Update-Package-Lists \"1\";\nAPT::Periodic::Unattended-Upgrade \"1\";\n",
			UpdateModeFullyAutomatic,
			true,
		},
		{
			"download only",
			"APT::Periodic::Update-Package-Lists \"1\";\nAPT::Periodic::Download-Upgradeable-Packages \"1\";\n",
			UpdateModeDownloadOnly,
			true,
		},
		{
			"check only",
			"APT::Periodic::Update-Package-Lists \"1\";\n",
			UpdateModeCheckOnly,
			true,
		},
		{
			"all off",
			"APT::Periodic::Update-Package-Lists \"0\";\n",
			UpdateModeDisabled,
			false,
		},
		{"empty", "", UpdateModeDisabled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := parseAptPeriodic(tt.output)
			if info.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", info.Mode, tt.wantMode)
			}
			if info.Enabled != tt.wantOn {
				t.Errorf("enabled = %v, want %v", info.Enabled, tt.wantOn)
			}
		})
	}
}

func TestGsettingsUint(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"uint32 300\n", 300},
		{"300", 300},
		{"uint32 0", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := gsettingsUint(tt.in); got != tt.want {
			t.Errorf("gsettingsUint(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParsePwQualityMinLen(t *testing.T) {
	content := `# Configuration for systemwide password quality limits
# minlen = 6
minlen = 12
dcredit = -1
`
	if got := parsePwQualityMinLen(content); got != 12 {
		t.Errorf("parsePwQualityMinLen = %d, want 12", got)
	}
	if got := parsePwQualityMinLen("dcredit = -1\n"); got != 0 {
		t.Errorf("parsePwQualityMinLen without minlen = %d, want 0", got)
	}
}

func TestParseNetAccountsMinLength(t *testing.T) {
	output := "Force user logoff how long after time expires?:       Never\n" +
		"Minimum password age (days):                          0\n" +
		"Minimum password length:                              8\n"
	if got := parseNetAccountsMinLength(output); got != 8 {
		t.Errorf("parseNetAccountsMinLength = %d, want 8", got)
	}

	none := "Minimum password length:                              None\n"
	if got := parseNetAccountsMinLength(none); got != 0 {
		t.Errorf("parseNetAccountsMinLength(None) = %d, want 0", got)
	}
}

func TestParseAUOptions(t *testing.T) {
	tests := []struct {
		value    string
		wantMode UpdateMode
		wantOn   bool
	}{
		{"4", UpdateModeFullyAutomatic, true},
		{"3", UpdateModeDownloadOnly, true},
		{"2", UpdateModeCheckOnly, true},
		{"1", UpdateModeDisabled, false},
		{"", UpdateModeDisabled, false},
		{"junk", UpdateModeDisabled, false},
	}
	for _, tt := range tests {
		info := parseAUOptions(tt.value)
		if info.Mode != tt.wantMode || info.Enabled != tt.wantOn {
			t.Errorf("parseAUOptions(%q) = {mode %s, enabled %v}, want {%s, %v}",
				tt.value, info.Mode, info.Enabled, tt.wantMode, tt.wantOn)
		}
	}
}

func TestParseNetshWlan(t *testing.T) {
	connected := `    Name                   : Wi-Fi
    State                  : connected
    SSID                   : EAIguest
    BSSID                  : aa:bb:cc:dd:ee:ff
`
	got := parseNetshWlan(connected)
	if !got.Connected || got.Network != "EAIguest" {
		t.Errorf("parseNetshWlan connected = %+v", got)
	}

	disconnected := `    Name                   : Wi-Fi
    State                  : disconnected
`
	if got := parseNetshWlan(disconnected); got.Connected {
		t.Errorf("parseNetshWlan disconnected = %+v", got)
	}
}
