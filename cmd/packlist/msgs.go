package packlist

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Resolve package manifests into file lists"
	MsgResolveShort    = "Print the files the manifest selects"
	MsgCheckShort      = "Lint the manifest against the tree"
	MsgExplainShort    = "Trace how the rules treat specific paths"
	MsgArchiveShort    = "Write the selected files into an archive"
	MsgExportShort     = "Copy the selected files into a directory"
	MsgInitShort       = "Create a starter manifest"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Error messages
	MsgErrCheckProblems = "manifest check found %d problem(s)"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Preview changes without executing them"
	MsgFlagForce      = "Overwrite files that already exist"
	MsgFlagRoot       = "Project root (default: PACKLIST_ROOT, the git root, or the working directory)"
	MsgFlagManifest   = "Manifest file (default: manifest.file from the configuration)"
	MsgFlagFormat     = "Output format: text, json, yaml (check also accepts junit)"
	MsgFlagColor      = "Color output: auto, always, never"
	MsgFlagMatchMode  = "Glob dialect for bare global patterns: basename-only, path-component"
	MsgFlagOutput     = "Archive path (default: derived from prefix and format)"
	MsgFlagType       = "Archive format: tar.gz, zip"
	MsgFlagPrefix     = "Top-level directory inside the archive (default: root basename)"
	MsgFlagWithConfig = "Also write a .packlist.toml with the documented defaults"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/resolve-long.txt
	msgResolveLongRaw string
	MsgResolveLong    = strings.TrimSpace(msgResolveLongRaw)

	//go:embed msgs/resolve-example.txt
	msgResolveExampleRaw string
	MsgResolveExample    = strings.TrimSpace(msgResolveExampleRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/check-example.txt
	msgCheckExampleRaw string
	MsgCheckExample    = strings.TrimSpace(msgCheckExampleRaw)

	//go:embed msgs/explain-long.txt
	msgExplainLongRaw string
	MsgExplainLong    = strings.TrimSpace(msgExplainLongRaw)

	//go:embed msgs/explain-example.txt
	msgExplainExampleRaw string
	MsgExplainExample    = strings.TrimSpace(msgExplainExampleRaw)

	//go:embed msgs/archive-long.txt
	msgArchiveLongRaw string
	MsgArchiveLong    = strings.TrimSpace(msgArchiveLongRaw)

	//go:embed msgs/archive-example.txt
	msgArchiveExampleRaw string
	MsgArchiveExample    = strings.TrimSpace(msgArchiveExampleRaw)

	//go:embed msgs/export-long.txt
	msgExportLongRaw string
	MsgExportLong    = strings.TrimSpace(msgExportLongRaw)

	//go:embed msgs/export-example.txt
	msgExportExampleRaw string
	MsgExportExample    = strings.TrimSpace(msgExportExampleRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/init-example.txt
	msgInitExampleRaw string
	MsgInitExample    = strings.TrimSpace(msgInitExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
