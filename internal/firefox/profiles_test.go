package firefox

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseProfilesINI(t *testing.T) {
	dir := t.TempDir()
	absProfileDir := t.TempDir()
	iniContent := `[General]
StartWithLastProfile=1
Version=2

[Profile0]
Name=default-release
IsRelative=1
Path=abc123.default-release
Default=1

[Profile1]
Name=dev-edition
IsRelative=0
Path=` + absProfileDir + `
Default=0

[Profile2]
Name=stale-no-session
IsRelative=1
Path=dead.profile

[Install308046B0AF4A39CB]
Default=abc123.default-release
Locked=1
`
	iniPath := filepath.Join(dir, "profiles.ini")
	if err := os.WriteFile(iniPath, []byte(iniContent), 0o644); err != nil {
		t.Fatalf("write profiles.ini: %v", err)
	}

	// Only profiles with a session file pass the filter; Profile2 has none.
	for _, p := range []string{
		filepath.Join(dir, "abc123.default-release"),
		absProfileDir,
	} {
		backupDir := filepath.Join(p, "sessionstore-backups")
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(backupDir, "recovery.jsonlz4"), []byte("dummy"), 0o644); err != nil {
			t.Fatalf("write session file: %v", err)
		}
	}

	profiles, err := ParseProfilesINI(iniPath, dir)
	if err != nil {
		t.Fatalf("ParseProfilesINI: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 usable profiles, got %d", len(profiles))
	}

	if profiles[0].Name != "default-release" {
		t.Errorf("expected name default-release, got %q", profiles[0].Name)
	}
	if profiles[0].Path != filepath.Join(dir, "abc123.default-release") {
		t.Errorf("relative path not resolved: %q", profiles[0].Path)
	}
	if !profiles[0].IsDefault {
		t.Error("expected profile 0 to be the default")
	}

	if profiles[1].Name != "dev-edition" {
		t.Errorf("expected name dev-edition, got %q", profiles[1].Name)
	}
	if profiles[1].Path != absProfileDir {
		t.Errorf("absolute path must be kept verbatim: %q", profiles[1].Path)
	}
	if profiles[1].IsDefault {
		t.Error("profile 1 must not be default")
	}
}

func TestParseProfilesINIKeyOrder(t *testing.T) {
	// IsRelative can follow Path within a section; resolution must not
	// depend on key order.
	dir := t.TempDir()
	iniContent := `[Profile0]
Name=reordered
Path=xyz.reordered
IsRelative=1
Default=1
`
	iniPath := filepath.Join(dir, "profiles.ini")
	if err := os.WriteFile(iniPath, []byte(iniContent), 0o644); err != nil {
		t.Fatalf("write profiles.ini: %v", err)
	}
	backupDir := filepath.Join(dir, "xyz.reordered", "sessionstore-backups")
	os.MkdirAll(backupDir, 0o755)
	os.WriteFile(filepath.Join(backupDir, "previous.jsonlz4"), []byte("dummy"), 0o644)

	profiles, err := ParseProfilesINI(iniPath, dir)
	if err != nil {
		t.Fatalf("ParseProfilesINI: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].Path != filepath.Join(dir, "xyz.reordered") {
		t.Errorf("path not resolved against base dir: %q", profiles[0].Path)
	}
}

func TestParseProfilesINIMissing(t *testing.T) {
	if _, err := ParseProfilesINI(filepath.Join(t.TempDir(), "profiles.ini"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing profiles.ini")
	}
}
