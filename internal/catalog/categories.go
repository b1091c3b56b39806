package catalog

// ProjectRoots returns a copy of the default search roots.
func ProjectRoots() []string {
	out := make([]string, len(projectRoots))
	copy(out, projectRoots)
	return out
}

// projectRoots are where developers usually keep checkouts; recursive
// categories search these.
var projectRoots = []string{
	"~/Documents",
	"~/Code",
	"~/Projects",
	"~/Developer",
	"~/repos",
	"~/src",
}

var builtinCategories = []*Category{
	// Safe: no data loss, auto-recoverable.
	{
		ID:        "conda_cache",
		Name:      "Conda Package Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/miniconda3/pkgs",
			"~/anaconda3/pkgs",
			"~/opt/miniconda3/pkgs",
			"~/opt/anaconda3/pkgs",
			"~/.conda/pkgs",
		},
		CleanupCommand: "conda clean --all --yes",
		Description:    "Cached conda package tarballs from previous installs",
		Consequences:   "Packages re-download on next install",
		Recovery:       "Automatic",
	},
	{
		ID:             "npm_cache",
		Name:           "NPM Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/.npm/_cacache", "~/.npm/_logs"},
		CleanupCommand: "npm cache clean --force",
		Description:    "Cached npm packages and logs",
		Consequences:   "Packages re-download on next npm install",
		Recovery:       "Automatic",
	},
	{
		ID:             "yarn_cache",
		Name:           "Yarn Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/.yarn/cache", "~/Library/Caches/Yarn"},
		CleanupCommand: "yarn cache clean",
		Description:    "Cached yarn packages",
		Consequences:   "Packages re-download on next yarn install",
		Recovery:       "Automatic",
	},
	{
		ID:             "pip_cache",
		Name:           "Pip Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/Library/Caches/pip", "~/.cache/pip"},
		CleanupCommand: "pip cache purge",
		Description:    "Cached pip packages",
		Consequences:   "Packages re-download on next pip install",
		Recovery:       "Automatic",
	},
	{
		ID:             "homebrew_cache",
		Name:           "Homebrew Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/Library/Caches/Homebrew", "/usr/local/Caskroom/.cache"},
		CleanupCommand: "brew cleanup --prune=all",
		Description:    "Downloaded homebrew packages and casks",
		Consequences:   "Packages re-download on next brew install",
		Recovery:       "Automatic",
	},
	{
		ID:        "chrome_cache",
		Name:      "Chrome Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/Library/Caches/Google/Chrome",
			"~/Library/Application Support/Google/Chrome/Default/Cache",
			"~/Library/Application Support/Google/Chrome/Default/Code Cache",
		},
		Description:  "Chrome browser cache (not passwords or bookmarks)",
		Consequences: "Websites load slower on first visit",
		Recovery:     "Automatic",
	},
	{
		ID:        "safari_cache",
		Name:      "Safari Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/Library/Caches/com.apple.Safari",
			"~/Library/Caches/com.apple.Safari.SafeBrowsing",
		},
		Description:  "Safari browser cache",
		Consequences: "Websites load slower on first visit",
		Recovery:     "Automatic",
	},
	{
		ID:        "edge_cache",
		Name:      "Microsoft Edge Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/Library/Caches/com.microsoft.Edge",
			"~/Library/Application Support/Microsoft Edge/Default/Cache",
		},
		Description:  "Microsoft Edge browser cache",
		Consequences: "Websites load slower on first visit",
		Recovery:     "Automatic",
	},
	{
		ID:           "firefox_cache",
		Name:         "Firefox Cache",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/Library/Caches/Firefox"},
		Description:  "Firefox browser cache",
		Consequences: "Websites load slower on first visit",
		Recovery:     "Automatic",
	},
	{
		ID:           "xcode_derived_data",
		Name:         "Xcode DerivedData",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/Library/Developer/Xcode/DerivedData"},
		Description:  "Xcode build artifacts and indexes",
		Consequences: "Next build is a full rebuild",
		Recovery:     "Automatic",
	},
	{
		ID:           "xcode_archives",
		Name:         "Xcode Archives",
		RiskLevel:    RiskReview,
		Paths:        []string{"~/Library/Developer/Xcode/Archives"},
		Description:  "Archived app builds for App Store submission",
		Consequences: "Cannot re-submit old builds without rebuilding",
		Recovery:     "Rebuild from source",
	},
	{
		ID:           "system_logs",
		Name:         "System Logs",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/Library/Logs", "/var/log"},
		Description:  "Application and system log files",
		Consequences: "Historical logs unavailable for debugging",
		Recovery:     "New logs are created automatically",
	},
	{
		ID:           "application_caches",
		Name:         "Application Caches",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/Library/Caches"},
		Description:  "General application cache files",
		Consequences: "Apps may be slower on first launch",
		Recovery:     "Automatic",
	},
	{
		ID:           "trash",
		Name:         "Trash",
		RiskLevel:    RiskReview, // emptying is permanent
		Paths:        []string{"~/.Trash"},
		Description:  "Files in the Trash",
		Consequences: "Deleted files cannot be recovered",
		Recovery:     "Not recoverable after emptying",
	},

	// Review: need user judgment.
	{
		ID:             "docker_data",
		Name:           "Docker Data",
		RiskLevel:      RiskReview,
		Paths:          []string{"~/Library/Containers/com.docker.docker/Data/vms"},
		CleanupCommand: "docker system prune -a",
		ExternalTool:   true,
		Description:    "Docker images, containers, and volumes",
		Consequences:   "Need to re-pull images and rebuild containers",
		Recovery:       "docker pull",
	},
	{
		ID:           "huggingface_cache",
		Name:         "HuggingFace Models",
		RiskLevel:    RiskReview,
		Paths:        []string{"~/.cache/huggingface"},
		Description:  "Downloaded ML models from HuggingFace",
		Consequences: "Models re-download when needed (can be slow/large)",
		Recovery:     "Automatic on use",
	},
	{
		ID:           "downloads_old",
		Name:         "Downloads (Old Files)",
		RiskLevel:    RiskReview,
		Paths:        []string{"~/Downloads"},
		Description:  "Files in the Downloads folder",
		Consequences: "Files are permanently deleted",
		Recovery:     "Not recoverable",
	},
	{
		ID:           "ios_backups",
		Name:         "iOS Backups",
		RiskLevel:    RiskReview,
		Paths:        []string{"~/Library/Application Support/MobileSync/Backup"},
		Description:  "iPhone and iPad backups",
		Consequences: "Cannot restore devices from these backups",
		Recovery:     "Create a new backup from the device",
	},
	{
		ID:             "xcode_simulators",
		Name:           "Xcode Simulators",
		RiskLevel:      RiskReview,
		Paths:          []string{"~/Library/Developer/CoreSimulator/Devices"},
		CleanupCommand: "xcrun simctl delete unavailable",
		Description:    "iOS simulator devices",
		Consequences:   "Simulators must be recreated",
		Recovery:       "Xcode recreates available simulators",
	},
	{
		ID:        "slack_cache",
		Name:      "Slack Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/Library/Application Support/Slack/Cache",
			"~/Library/Application Support/Slack/Service Worker/CacheStorage",
		},
		Description:  "Slack message and media cache",
		Consequences: "Slack re-downloads history as needed",
		Recovery:     "Automatic",
	},
	{
		ID:           "spotify_cache",
		Name:         "Spotify Cache",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/Library/Caches/com.spotify.client"},
		Description:  "Cached Spotify audio",
		Consequences: "Songs re-buffer on next play",
		Recovery:     "Automatic",
	},
	{
		ID:        "vscode_cache",
		Name:      "VS Code Cache",
		RiskLevel: RiskSafe,
		Paths: []string{
			"~/Library/Application Support/Code/Cache",
			"~/Library/Application Support/Code/CachedData",
		},
		Description:  "VS Code editor caches",
		Consequences: "Editor rebuilds caches on next launch",
		Recovery:     "Automatic",
	},
	{
		ID:           "gradle_cache",
		Name:         "Gradle Cache",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/.gradle/caches"},
		Description:  "Gradle build and dependency cache",
		Consequences: "Dependencies re-download on next build",
		Recovery:     "Automatic",
	},
	{
		ID:           "maven_cache",
		Name:         "Maven Cache",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/.m2/repository"},
		Description:  "Maven local repository",
		Consequences: "Dependencies re-download on next build",
		Recovery:     "Automatic",
	},
	{
		ID:             "cocoapods_cache",
		Name:           "CocoaPods Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/Library/Caches/CocoaPods"},
		CleanupCommand: "pod cache clean --all",
		Description:    "CocoaPods spec and pod cache",
		Consequences:   "Pods re-download on next install",
		Recovery:       "Automatic",
	},
	{
		ID:           "cargo_cache",
		Name:         "Rust Cargo Cache",
		RiskLevel:    RiskSafe,
		Paths:        []string{"~/.cargo/registry", "~/.cargo/git"},
		Description:  "Cargo registry and git dependency cache",
		Consequences: "Crates re-download on next build",
		Recovery:     "Automatic",
	},
	{
		ID:             "go_cache",
		Name:           "Go Module Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/go/pkg/mod", "~/Library/Caches/go-build"},
		CleanupCommand: "go clean -modcache",
		Description:    "Go module and build cache",
		Consequences:   "Modules re-download on next build",
		Recovery:       "Automatic",
	},
	{
		ID:             "dotnet_cache",
		Name:           ".NET/NuGet Cache",
		RiskLevel:      RiskSafe,
		Paths:          []string{"~/.nuget/packages", "~/.dotnet"},
		CleanupCommand: "dotnet nuget locals all --clear",
		Description:    "NuGet package cache",
		Consequences:   "Packages re-download on next restore",
		Recovery:       "Automatic",
	},

	// Recursive developer-artifact categories.
	{
		ID:        "node_modules",
		Name:      "Node Modules",
		RiskLevel: RiskSafe,
		Recursive: &RecursiveSpec{
			PatternNames: []string{"node_modules"},
			SearchRoots:  projectRoots,
			MinSizeBytes: 10 * 1024 * 1024,
		},
		Description:  "Installed npm dependencies per project",
		Consequences: "npm install recreates them",
		Recovery:     "Automatic via package.json",
	},
	{
		ID:        "python_venvs",
		Name:      "Python Virtual Environments",
		RiskLevel: RiskSafe,
		Recursive: &RecursiveSpec{
			PatternNames: []string{".venv", "venv", ".virtualenv", "env"},
			SearchRoots:  projectRoots,
			MinSizeBytes: 50 * 1024 * 1024,
		},
		Description:  "Per-project Python environments",
		Consequences: "Environments must be recreated",
		Recovery:     "pip install -r requirements.txt",
	},
	{
		ID:        "pycache",
		Name:      "Python Cache (__pycache__)",
		RiskLevel: RiskSafe,
		Recursive: &RecursiveSpec{
			PatternNames: []string{"__pycache__"},
			SearchRoots:  projectRoots,
			MinSizeBytes: 1 * 1024 * 1024,
		},
		Description:  "Compiled Python bytecode",
		Consequences: "Python regenerates on next run",
		Recovery:     "Automatic",
	},
	{
		ID:        "build_artifacts",
		Name:      "Build Artifacts",
		RiskLevel: RiskReview,
		Recursive: &RecursiveSpec{
			PatternNames: []string{"dist", "build", ".build"},
			SearchRoots:  projectRoots,
			MinSizeBytes: 10 * 1024 * 1024,
		},
		Description:  "Generic build output directories",
		Consequences: "Next build regenerates them; some dirs named build hold sources",
		Recovery:     "Re-run the build",
	},
	{
		ID:        "target_dirs",
		Name:      "Rust Target Directories",
		RiskLevel: RiskSafe,
		Recursive: &RecursiveSpec{
			PatternNames: []string{"target"},
			SearchRoots:  projectRoots,
			MinSizeBytes: 100 * 1024 * 1024,
		},
		Description:  "Cargo build output per project",
		Consequences: "Next cargo build is a full rebuild",
		Recovery:     "Automatic",
	},
}
