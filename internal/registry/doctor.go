package registry

import (
	"os"
	"path/filepath"
	"strings"

	"yt-sub-archiver/internal/store"
	"yt-sub-archiver/internal/ytdlp"
)

type DoctorOptions struct {
	StateDir   string
	ConfigPath string
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type InitWorkspaceOptions struct {
	StateDir   string
	ConfigPath string
}

type InitWorkspaceResult struct {
	StateDir        string       `json:"state_dir"`
	ConfigPath      string       `json:"config_path"`
	CreatedStateDir bool         `json:"created_state_dir"`
	CreatedConfig   bool         `json:"created_config"`
	DoctorResult    DoctorResult `json:"doctor"`
}

func Doctor(opts DoctorOptions) (DoctorResult, error) {
	stateDir := strings.TrimSpace(opts.StateDir)
	if stateDir == "" {
		stateDir = "state"
	}
	configPath := normalizeConfigPath(opts.ConfigPath)

	checks := make([]DoctorCheck, 0, 4)
	dep := ytdlp.DependencyStatus()
	checks = append(checks, DoctorCheck{
		Name:    "dependency:yt-dlp",
		OK:      dep.YTDLPFound,
		Message: dependencyMessage(dep.YTDLPFound, dep.YTDLPPath, "yt-dlp"),
	})

	stateOK, stateMessage := ensureWritableDir(stateDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:state",
		OK:      stateOK,
		Message: stateMessage,
	})

	cfgDir := filepath.Dir(configPath)
	cfgOK, cfgMessage := ensureWritableDir(cfgDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:config",
		OK:      cfgOK,
		Message: cfgMessage,
	})

	if global, err := ReadGlobalSettings(configPath); err == nil && global.CookiesPath != "" {
		msg := "cookies file found"
		if _, statErr := os.Stat(global.CookiesPath); statErr != nil {
			msg = "cookies file missing, batches will run without cookies"
		}
		checks = append(checks, DoctorCheck{
			Name:    "file:cookies",
			OK:      true,
			Message: msg,
		})
	}

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}

	return DoctorResult{OK: ok, Checks: checks}, nil
}

func InitWorkspace(opts InitWorkspaceOptions) (InitWorkspaceResult, error) {
	stateDir := strings.TrimSpace(opts.StateDir)
	if stateDir == "" {
		stateDir = "state"
	}
	configPath := normalizeConfigPath(opts.ConfigPath)

	createdStateDir := false
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		createdStateDir = true
	}
	if err := store.Mkdir(stateDir); err != nil {
		return InitWorkspaceResult{}, err
	}
	if err := store.Mkdir(filepath.Join(stateDir, "logs")); err != nil {
		return InitWorkspaceResult{}, err
	}

	_, createdConfig, err := EnsureRegistry(configPath)
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	doc, err := Doctor(DoctorOptions{StateDir: stateDir, ConfigPath: configPath})
	if err != nil {
		return InitWorkspaceResult{}, err
	}

	return InitWorkspaceResult{
		StateDir:        stateDir,
		ConfigPath:      configPath,
		CreatedStateDir: createdStateDir,
		CreatedConfig:   createdConfig,
		DoctorResult:    doc,
	}, nil
}

func dependencyMessage(ok bool, path, name string) string {
	if ok {
		return name + " found at " + path
	}
	return name + " not found on PATH"
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := store.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "yt-sub-archiver-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
