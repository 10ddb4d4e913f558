package config

// DefaultCategories is the built-in extension table. Order matters:
// the first category whose list contains the extension wins.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".doc", ".txt", ".rtf", ".odt"}},
		{Name: "Spreadsheets", Extensions: []string{".xlsx", ".xls", ".csv", ".ods"}},
		{Name: "Presentations", Extensions: []string{".pptx", ".ppt", ".key"}},
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}},
		{Name: "Videos", Extensions: []string{".mp4", ".avi", ".mkv", ".mov", ".wmv"}},
		{Name: "Audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"}},
		{Name: "Code", Extensions: []string{".py", ".go", ".java", ".cpp", ".c", ".js", ".html", ".css", ".sql"}},
		{Name: "Executables", Extensions: []string{".exe", ".msi", ".bat", ".sh"}},
	}
}

// DefaultSkipFolders are folder names never organized, wherever they
// appear in a path.
func DefaultSkipFolders() []string {
	return []string{
		"_Organized",
		"_Backup_Before_Organize",
		"venv",
		".git",
		"node_modules",
	}
}

// DefaultProtectedDirs are directory names that are never scanned or
// modified: system, development, and cloud-sync trees where moving
// files breaks things.
func DefaultProtectedDirs() []string {
	return []string{
		// System
		"Windows", "Program Files", "Program Files (x86)", "ProgramData",
		"System Volume Information", "$Recycle.Bin", "Recovery", "Boot",
		// Development
		".git", ".svn", ".venv", "venv", "node_modules",
		"__pycache__", ".pytest_cache",
		// Cloud storage
		"OneDrive", "Google Drive", "Dropbox",
		// Game libraries
		"SteamLibrary", "Steam", "Epic Games", "GOG Games",
		"Saved Games", "My Games",
	}
}
