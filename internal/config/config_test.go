package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

// isolate points HOME and the config directories at fresh temp dirs, clears
// GOALTRACK_* variables and changes into an empty project directory.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		EnvGoal, EnvSchema, EnvLogDir, EnvJournal, EnvHook, EnvHookArgs,
		EnvLogLevel, EnvLogFormat, EnvLogTimestamps, EnvLogCaller,
	} {
		t.Setenv(name, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(project); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.GoalFile != DefaultGoalFile {
		t.Errorf("GoalFile: got %q, want %q", cfg.GoalFile, DefaultGoalFile)
	}
	if cfg.LogDir != DefaultLogDir {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, DefaultLogDir)
	}
	if cfg.Journal != true {
		t.Errorf("Journal: got %v, want true", cfg.Journal)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.SchemaFile != "" || cfg.HookCommand != "" {
		t.Errorf("optional paths should be empty, got schema %q hook %q", cfg.SchemaFile, cfg.HookCommand)
	}
}

func TestLoadDefaults(t *testing.T) {
	home, project := isolate(t)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.GoalFile != filepath.Join(project, DefaultGoalFile) {
		t.Errorf("GoalFile: got %q, want %q", cfg.GoalFile, filepath.Join(project, DefaultGoalFile))
	}
	if cfg.LogDir != filepath.Join(home, ".goaltrack") {
		t.Errorf("LogDir: got %q, want %q", cfg.LogDir, filepath.Join(home, ".goaltrack"))
	}
	if cfg.ProjectRoot != project {
		t.Errorf("ProjectRoot: got %q, want %q", cfg.ProjectRoot, project)
	}
	for _, field := range Fields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if cws.GetConfigFile() != "" {
		t.Errorf("GetConfigFile: got %q, want empty", cws.GetConfigFile())
	}
}

func TestLoadLayering(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".goaltrack", "goaltrack.toml"), `goal_file = "user.json"
log_level = "debug"
hook_command = "/bin/true"
`)
	writeFile(t, filepath.Join(project, "goaltrack.toml"), `goal_file = "project.json"
journal = false
hook_args = ["--quiet"]
`)
	t.Setenv(EnvLogFormat, "json")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"-log-level", "warn", "status", "--json"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	cfg := cws.Config

	if cfg.GoalFile != filepath.Join(project, "project.json") {
		t.Errorf("GoalFile: got %q", cfg.GoalFile)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false from project file")
	}
	if cfg.HookCommand != "/bin/true" {
		t.Errorf("HookCommand: got %q, want /bin/true", cfg.HookCommand)
	}
	if !reflect.DeepEqual(cfg.HookArgs, []string{"--quiet"}) {
		t.Errorf("HookArgs: got %v", cfg.HookArgs)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %q, want json", cfg.LogFormat)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}

	wantSources := map[string]ConfigSource{
		"goal_file":    SourceProjFile,
		"journal":      SourceProjFile,
		"hook_args":    SourceProjFile,
		"hook_command": SourceUserFile,
		"log_format":   SourceEnv,
		"log_level":    SourceFlag,
		"log_dir":      SourceDefault,
	}
	for field, want := range wantSources {
		if got := cws.Sources[field]; got != want {
			t.Errorf("source of %s: got %q, want %q", field, got, want)
		}
	}

	if got := fs.Args(); !reflect.DeepEqual(got, []string{"status", "--json"}) {
		t.Errorf("remaining args: got %v", got)
	}
	if len(cws.Files) != 2 || cws.GetConfigFile() != filepath.Join(project, "goaltrack.toml") {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadDotFileAndXDG(t *testing.T) {
	home, project := isolate(t)
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is linux/BSD only")
	}

	writeFile(t, filepath.Join(home, ".config", "goaltrack", "goaltrack.toml"), `log_caller = true`)
	writeFile(t, filepath.Join(project, ".goaltrack.toml"), `log_timestamps = true`)

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}
	if !cws.Config.LogCaller || cws.Sources["log_caller"] != SourceUserFile {
		t.Errorf("log_caller: got %v from %q", cws.Config.LogCaller, cws.Sources["log_caller"])
	}
	if !cws.Config.LogTimestamps || cws.Sources["log_timestamps"] != SourceProjFile {
		t.Errorf("log_timestamps: got %v from %q", cws.Config.LogTimestamps, cws.Sources["log_timestamps"])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "bad toml", file: `goal_file = `, wantErr: "loading project config file"},
		{name: "unknown key", file: `max_iterations = 3`, wantErr: "unknown keys: max_iterations"},
		{name: "bad level", args: []string{"-log-level", "loud"}, wantErr: "invalid log_level"},
		{name: "bad format", env: map[string]string{EnvLogFormat: "xml"}, wantErr: "invalid log_format"},
		{name: "bad bool", env: map[string]string{EnvJournal: "maybe"}, wantErr: EnvJournal},
		{name: "unknown flag", args: []string{"-todo", "x"}, wantErr: "parsing flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, project := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(project, "goaltrack.toml"), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(new(strings.Builder))
			_, err := Load(fs, tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvGoal, "custom-goal.json")
	t.Setenv(EnvJournal, "off")
	t.Setenv(EnvHookArgs, "--a, --b ,")
	t.Setenv(EnvLogTimestamps, "1")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadFromEnv(cfg, sources); err != nil {
		t.Fatalf("loadFromEnv: %v", err)
	}

	if cfg.GoalFile != "custom-goal.json" {
		t.Errorf("GoalFile: got %q, want custom-goal.json", cfg.GoalFile)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if !reflect.DeepEqual(cfg.HookArgs, []string{"--a", "--b"}) {
		t.Errorf("HookArgs: got %v", cfg.HookArgs)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if sources["goal_file"] != SourceEnv || sources["log_level"] != "" {
		t.Errorf("sources: got %v", sources)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"-goal", "flag-goal.json",
		"-journal=false",
		"-hook-args", "x,y",
		"advance", "step-1",
	}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.GoalFile != "flag-goal.json" {
		t.Errorf("GoalFile: got %q, want flag-goal.json", cfg.GoalFile)
	}
	if cfg.Journal {
		t.Error("Journal: got true, want false")
	}
	if !reflect.DeepEqual(cfg.HookArgs, []string{"x", "y"}) {
		t.Errorf("HookArgs: got %v", cfg.HookArgs)
	}
	if sources["goal_file"] != SourceFlag || sources["hook_args"] != SourceFlag {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["log_dir"]; ok {
		t.Error("unset flag should not be tracked")
	}
	if got := fs.Args(); !reflect.DeepEqual(got, []string{"advance", "step-1"}) {
		t.Errorf("remaining args: got %v", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"1", true, false},
		{"true", true, false},
		{"TRUE", true, false},
		{"yes", true, false},
		{"on", true, false},
		{"0", false, false},
		{"false", false, false},
		{"no", false, false},
		{"off", false, false},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseBool(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseBool(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	type pathCase struct {
		input string
		want  string
	}
	tests := []pathCase{
		{"", ""},
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	t.Setenv("GOALTRACK_TEST_HOME", home)
	tests = append(tests, pathCase{"$GOALTRACK_TEST_HOME/logs", filepath.Join(home, "logs")})
	if runtime.GOOS == "windows" {
		tests = append(tests,
			pathCase{`~\test`, filepath.Join(home, "test")},
			pathCase{`%GOALTRACK_TEST_HOME%\logs`, filepath.Join(home, "logs")},
		)
	} else {
		tests = append(tests, pathCase{`~\test`, `~\test`})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandPath(tt.input); got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandWindowsEnv(t *testing.T) {
	t.Setenv("GOALTRACK_TEST_VAR", "value")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"%GOALTRACK_TEST_VAR%", "value"},
		{`%GOALTRACK_TEST_VAR%\dir`, `value\dir`},
		{"%GOALTRACK_MISSING_VAR%", "%GOALTRACK_MISSING_VAR%"},
		{"100%%", "100%%"},
		{"50% off", "50% off"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandWindowsEnv(tt.input); got != tt.want {
				t.Errorf("expandWindowsEnv(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExampleConfigParses(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "goaltrack.toml"), ExampleConfig())

	cws, err := LoadWithSources(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cws.Sources["goal_file"] != SourceProjFile {
		t.Errorf("goal_file source: got %q", cws.Sources["goal_file"])
	}
}
