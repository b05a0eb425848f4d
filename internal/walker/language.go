package walker

import (
	"path/filepath"
	"strings"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
)

// extensionToLanguage maps file extensions to language names.
var extensionToLanguage = map[string]string{
	// Go
	".go": "Go",
	// Python
	".py":  "Python",
	".pyi": "Python",
	// TypeScript
	".ts":  "TypeScript",
	".tsx": "TypeScript",
	".mts": "TypeScript",
	// JavaScript
	".js":  "JavaScript",
	".jsx": "JavaScript",
	".mjs": "JavaScript",
	".cjs": "JavaScript",
	// Java
	".java": "Java",
	// Rust
	".rs": "Rust",
	// C
	".c": "C",
	".h": "C",
	// C++
	".cpp": "C++",
	".cc":  "C++",
	".cxx": "C++",
	".hpp": "C++",
	".hxx": "C++",
	// C#
	".cs": "C#",
	// Ruby
	".rb": "Ruby",
	// PHP
	".php": "PHP",
	// Swift
	".swift": "Swift",
	// Kotlin
	".kt":  "Kotlin",
	".kts": "Kotlin",
	// Scala
	".scala": "Scala",
	".sc":    "Scala",
	// Shell/Bash
	".sh":   "Shell",
	".bash": "Shell",
	".zsh":  "Shell",
	// SQL
	".sql": "SQL",
	// HTML
	".html": "HTML",
	".htm":  "HTML",
	// CSS
	".css":  "CSS",
	".scss": "CSS",
	".sass": "CSS",
	".less": "CSS",
	// YAML
	".yaml": "YAML",
	".yml":  "YAML",
	// JSON
	".json": "JSON",
	// TOML
	".toml": "TOML",
	// Terraform
	".tf":     "Terraform",
	".tfvars": "Terraform",
	// Markdown
	".md":       "Markdown",
	".markdown": "Markdown",
	// Protobuf
	".proto": "Protobuf",
	// Lua
	".lua": "Lua",
	// R
	".r": "R",
	".R": "R",
	// Dart
	".dart": "Dart",
	// Elixir
	".ex":  "Elixir",
	".exs": "Elixir",
	// Haskell
	".hs": "Haskell",
	// Perl
	".pl": "Perl",
	".pm": "Perl",
	// Vue
	".vue": "Vue",
	// Svelte
	".svelte": "Svelte",
}

// filenameToLanguage maps specific filenames to language names.
var filenameToLanguage = map[string]string{
	"Dockerfile":     "Dockerfile",
	"Makefile":       "Makefile",
	"Jenkinsfile":    "Groovy",
	"Vagrantfile":    "Ruby",
	"Gemfile":        "Ruby",
	"Rakefile":       "Ruby",
	".gitignore":     "Git",
	".dockerignore":  "Docker",
	"docker-compose.yml":  "YAML",
	"docker-compose.yaml": "YAML",
}

// languageToFamily maps language names to the comment syntax family the
// marker tokenizer should scan with.
var languageToFamily = map[string]annotate.SyntaxFamily{
	"Go":         annotate.FamilyCLike,
	"TypeScript": annotate.FamilyCLike,
	"JavaScript": annotate.FamilyCLike,
	"Java":       annotate.FamilyCLike,
	"Rust":       annotate.FamilyCLike,
	"C":          annotate.FamilyCLike,
	"C++":        annotate.FamilyCLike,
	"C#":         annotate.FamilyCLike,
	"PHP":        annotate.FamilyCLike,
	"Swift":      annotate.FamilyCLike,
	"Kotlin":     annotate.FamilyCLike,
	"Scala":      annotate.FamilyCLike,
	"Dart":       annotate.FamilyCLike,
	"CSS":        annotate.FamilyCLike,
	"Protobuf":   annotate.FamilyCLike,
	"Groovy":     annotate.FamilyCLike,
	"Vue":        annotate.FamilyCLike,
	"Svelte":     annotate.FamilyCLike,

	"Python":     annotate.FamilyHash,
	"Ruby":       annotate.FamilyHash,
	"Shell":      annotate.FamilyHash,
	"YAML":       annotate.FamilyHash,
	"TOML":       annotate.FamilyHash,
	"Perl":       annotate.FamilyHash,
	"Elixir":     annotate.FamilyHash,
	"R":          annotate.FamilyHash,
	"Makefile":   annotate.FamilyHash,
	"Dockerfile": annotate.FamilyHash,
	"Docker":     annotate.FamilyHash,
	"Git":        annotate.FamilyHash,
	"Terraform":  annotate.FamilyHash,

	"SQL":     annotate.FamilySQL,
	"Lua":     annotate.FamilySQL,
	"Haskell": annotate.FamilySQL,
}

// DetectLanguage returns the programming language for a given filename
// based on its extension or exact filename. Returns "unknown" for
// unrecognized files.
func DetectLanguage(filename string) string {
	base := filepath.Base(filename)

	// Check exact filename matches first.
	if lang, ok := filenameToLanguage[base]; ok {
		return lang
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return "unknown"
	}

	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}

	return "unknown"
}

// DetectFamily returns the comment syntax family for a given filename.
// Unrecognized files fall back to FamilyUnknown, which scans with every
// known delimiter.
func DetectFamily(filename string) annotate.SyntaxFamily {
	// JSX and TSX carry the brace-wrapped comment form on top of the
	// usual C-like ones.
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsx", ".tsx":
		return annotate.FamilyJSX
	}
	if fam, ok := languageToFamily[DetectLanguage(filename)]; ok {
		return fam
	}
	return annotate.FamilyUnknown
}
