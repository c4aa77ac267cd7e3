package firefox

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lotas/tabwarden/internal/types"
)

// Profile is one Firefox profile with a readable session store.
type Profile struct {
	Name      string
	Path      string
	IsDefault bool
}

// firefoxDir returns the platform-specific Firefox profile directory.
func firefoxDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".mozilla", "firefox")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox")
	default:
		return ""
	}
}

// ParseProfilesINI parses a profiles.ini file, resolving relative profile
// paths against baseDir and keeping only profiles with a session file.
func ParseProfilesINI(iniPath, baseDir string) ([]Profile, error) {
	f, err := os.Open(iniPath)
	if err != nil {
		return nil, fmt.Errorf("open profiles.ini: %w", err)
	}
	defer f.Close()

	type iniProfile struct {
		Profile
		relative bool
	}

	var profiles []iniProfile
	var current *iniProfile

	flush := func() {
		if current != nil {
			profiles = append(profiles, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			if strings.HasPrefix(line[1:len(line)-1], "Profile") {
				current = &iniProfile{relative: true}
			}
			continue
		}
		if current == nil {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "Name":
			current.Name = value
		case "Path":
			current.Path = value
		case "IsRelative":
			current.relative = value == "1"
		case "Default":
			current.IsDefault = value == "1"
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan profiles.ini: %w", err)
	}

	// IsRelative may appear after Path within a section, so paths are
	// resolved only once the whole file is read.
	for i := range profiles {
		if profiles[i].relative {
			profiles[i].Path = filepath.Join(baseDir, profiles[i].Path)
		}
	}

	var usable []Profile
	for _, p := range profiles {
		backupDir := filepath.Join(p.Path, "sessionstore-backups")
		for _, name := range []string{"recovery.jsonlz4", "previous.jsonlz4"} {
			if _, err := os.Stat(filepath.Join(backupDir, name)); err == nil {
				usable = append(usable, p.Profile)
				break
			}
		}
	}
	return usable, nil
}

// DiscoverProfiles finds profiles that have a session file on disk.
func DiscoverProfiles() ([]Profile, error) {
	dir := firefoxDir()
	if dir == "" {
		return nil, fmt.Errorf("no Firefox directory known for %s", runtime.GOOS)
	}
	return ParseProfilesINI(filepath.Join(dir, "profiles.ini"), dir)
}

// ResolveProfile picks a profile by name, or the default one (falling back
// to the first found) when name is empty.
func ResolveProfile(name string) (Profile, error) {
	profiles, err := DiscoverProfiles()
	if err != nil {
		return Profile{}, err
	}
	if len(profiles) == 0 {
		return Profile{}, fmt.Errorf("no Firefox profiles with session data found")
	}

	if name != "" {
		for _, p := range profiles {
			if p.Name == name {
				return p, nil
			}
		}
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}

	for _, p := range profiles {
		if p.IsDefault {
			return p, nil
		}
	}
	return profiles[0], nil
}

// SessionSource adapts a profile's session store to the tool server's
// snapshot source.
type SessionSource struct {
	ProfilePath string
}

// Latest re-reads the session file on every call so long-running tool
// servers see the browser's current on-disk state.
func (s SessionSource) Latest() (*types.Snapshot, error) {
	return ReadSessionFile(s.ProfilePath)
}
