package config

// NewVocabulary creates a Vocabulary config bound to a file path
func NewVocabulary(path string) *Vocabulary {
	return &Vocabulary{path: path}
}

// NewGitHub creates a GitHub store config with preset flag values
func NewGitHub(backend, repo, token string) *GitHub {
	return &GitHub{backend: backend, repo: repo, token: token}
}

// NewLogger creates a Logger config with preset flag values
func NewLogger(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
